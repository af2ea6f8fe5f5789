package usufruct

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

func TestValueByAge(t *testing.T) {
	snap := legislation.Builtin(2024)
	at := domain.NewDate(2024, time.June, 1)
	total := decimal.NewFromInt(1_000_000)

	tests := []struct {
		name         string
		birth        domain.Date
		wantUsufruct int64
		wantBare     int64
	}{
		{"65 years old", domain.NewDate(1959, time.January, 10), 400_000, 600_000},
		{"turns 61 tomorrow", domain.NewDate(1963, time.June, 2), 500_000, 500_000},
		{"turned 61 today", domain.NewDate(1963, time.June, 1), 400_000, 600_000},
		{"minor", domain.NewDate(2010, time.March, 3), 900_000, 100_000},
		{"95 years old", domain.NewDate(1929, time.January, 1), 100_000, 900_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Value(total, tt.birth, at, snap)
			if !v.Usufruct.Equal(decimal.NewFromInt(tt.wantUsufruct)) {
				t.Errorf("usufruct = %s, want %d", v.Usufruct, tt.wantUsufruct)
			}
			if !v.BareOwnership.Equal(decimal.NewFromInt(tt.wantBare)) {
				t.Errorf("bare ownership = %s, want %d", v.BareOwnership, tt.wantBare)
			}
			if !v.Usufruct.Add(v.BareOwnership).Equal(total) {
				t.Errorf("parts do not add back to %s", total)
			}
		})
	}
}

func TestTemporaryRate(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{0, "0"},
		{5, "0.23"},
		{10, "0.23"},
		{11, "0.46"},
		{30, "0.69"},
		{41, "1"},
		{60, "1"},
	}

	for _, tt := range tests {
		got := TemporaryRate(tt.years)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("TemporaryRate(%d) = %s, want %s", tt.years, got, tt.want)
		}
	}
}

func TestForDismembermentUsesTemporaryScale(t *testing.T) {
	snap := legislation.Builtin(2024)
	birth := domain.NewDate(1990, time.January, 1)
	d := domain.Dismemberment{UsufructuaryBirthDate: &birth, Kind: domain.UsufructTemporary, DurationYears: 15}

	v := ForDismemberment(decimal.NewFromInt(100_000), d, domain.NewDate(2024, time.January, 1), snap)
	if !v.Usufruct.Equal(decimal.NewFromInt(46_000)) {
		t.Errorf("usufruct = %s, want 46000", v.Usufruct)
	}
}
