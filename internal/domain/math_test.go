package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSafeParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid integer", "100", "100"},
		{"valid decimal", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"negative", "-5.5", "-5.5"},
		{"empty string", "", "0"},
		{"invalid string", "abc", "0"},
		{"whitespace", "  ", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeParse(tt.input)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("SafeParse(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"33333.333333", "33333.33"},
		{"0.005", "0.01"},
		{"150000", "150000"},
		{"-12.345", "-12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Money(SafeParse(tt.input))
			if !got.Equal(SafeParse(tt.want)) {
				t.Errorf("Money(%s) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(500000), decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Percent = %s, want 100000", got)
	}
}

func TestNonNegative(t *testing.T) {
	if got := NonNegative(decimal.NewFromInt(-3)); !got.IsZero() {
		t.Errorf("NonNegative(-3) = %s, want 0", got)
	}
	if got := NonNegative(decimal.NewFromInt(3)); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("NonNegative(3) = %s, want 3", got)
	}
}

func TestSum(t *testing.T) {
	debts := []Debt{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(250)},
	}
	got := Sum(debts, func(d Debt) decimal.Decimal { return d.Amount })
	if !got.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Sum = %s, want 350", got)
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(decimal.RequireFromString("1500")); got != "1500.00 EUR" {
		t.Errorf("FormatMoney = %q", got)
	}
}
