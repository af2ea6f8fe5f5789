package legislation

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestUsufructRate(t *testing.T) {
	snap := Builtin(2024)
	tests := []struct {
		age  int
		want string
	}{
		{0, "0.9"},
		{20, "0.9"},
		{21, "0.8"},
		{40, "0.7"},
		{60, "0.5"},
		{65, "0.4"},
		{70, "0.4"},
		{71, "0.3"},
		{90, "0.2"},
		{91, "0.1"},
		{105, "0.1"},
	}

	for _, tt := range tests {
		got := snap.UsufructRate(tt.age)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("UsufructRate(%d) = %s, want %s", tt.age, got, tt.want)
		}
	}
}

func TestBuiltinValidates(t *testing.T) {
	for _, year := range []int{2024, 2025} {
		if err := Builtin(year).Validate(); err != nil {
			t.Errorf("Builtin(%d).Validate() = %v", year, err)
		}
	}
}

func TestValidateRejectsIncompleteSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"missing category", func(s *Snapshot) { delete(s.Brackets, CategorySibling) }},
		{"gap between brackets", func(s *Snapshot) {
			s.Brackets[CategorySibling] = []Bracket{bracket("0", "20000", "0.35"), bracket("24430", "", "0.45")}
		}},
		{"open bracket not last", func(s *Snapshot) {
			s.Brackets[CategorySibling] = []Bracket{bracket("0", "", "0.35"), bracket("24430", "", "0.45")}
		}},
		{"rate above one", func(s *Snapshot) { s.Brackets[CategoryOther] = []Bracket{bracket("0", "", "1.5")} }},
		{"empty usufruct scale", func(s *Snapshot) { s.UsufructScale = nil }},
		{"unordered usufruct scale", func(s *Snapshot) {
			s.UsufructScale = []UsufructBand{{MaxAge: 31, Rate: dec("0.8")}, {MaxAge: 21, Rate: dec("0.9")}}
		}},
		{"missing year", func(s *Snapshot) { s.Year = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Builtin(2024)
			tt.mutate(&snap)
			if err := snap.Validate(); !errors.Is(err, ErrIncomplete) {
				t.Errorf("Validate() = %v, want ErrIncomplete", err)
			}
		})
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewBuiltinProvider(2024)

	active, err := p.Active(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.Year != 2024 {
		t.Errorf("active year = %d, want 2024", active.Year)
	}

	if _, err := p.ForYear(context.Background(), 1999); !errors.Is(err, ErrNotFound) {
		t.Errorf("ForYear(1999) = %v, want ErrNotFound", err)
	}

	if p.ActiveYear() != 2024 {
		t.Errorf("ActiveYear() = %d, want 2024", p.ActiveYear())
	}
	snaps := p.Snapshots()
	if len(snaps) != 2 || snaps[0].Year != 2024 || snaps[1].Year != 2025 {
		t.Errorf("Snapshots() years out of order: %+v", snaps)
	}
}

func TestResolveWithoutActiveLegislation(t *testing.T) {
	p := NewStatic(0)
	_, err := Resolve(context.Background(), p, 0)
	if !errors.Is(err, ErrNoActiveLegislation) {
		t.Errorf("Resolve() = %v, want ErrNoActiveLegislation", err)
	}
}

func TestResolveByYear(t *testing.T) {
	p := NewBuiltinProvider(2024)
	snap, err := Resolve(context.Background(), p, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Year != 2025 {
		t.Errorf("year = %d, want 2025", snap.Year)
	}
}

func TestResolveRejectsInvalidSnapshot(t *testing.T) {
	broken := Builtin(2024)
	broken.UsufructScale = nil
	_, err := Resolve(context.Background(), NewStatic(2024, broken), 0)
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Resolve() = %v, want ErrIncomplete", err)
	}
}
