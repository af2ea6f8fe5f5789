package legislation

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bracket(from, to, rate string) Bracket {
	b := Bracket{Min: dec(from), Rate: dec(rate)}
	if to != "" {
		b.Max = lo.ToPtr(dec(to))
	}
	return b
}

// Builtin returns the inheritance tables in force for the given year (2024 schedule, unchanged in 2025).
func Builtin(year int) Snapshot {
	return Snapshot{
		Year: year,
		Name: "Barème droits de succession",
		Allowances: map[Category]decimal.Decimal{
			CategoryDirectLine:  dec("100000"),
			CategorySpouse:      decimal.Zero,
			CategorySibling:     dec("15932"),
			CategoryNephewNiece: dec("7967"),
			CategoryRelative:    dec("1594"),
			CategoryOther:       dec("1594"),
		},
		Brackets: map[Category][]Bracket{
			CategoryDirectLine: {
				bracket("0", "8072", "0.05"),
				bracket("8072", "12109", "0.10"),
				bracket("12109", "15932", "0.15"),
				bracket("15932", "552324", "0.20"),
				bracket("552324", "902838", "0.30"),
				bracket("902838", "1805677", "0.40"),
				bracket("1805677", "", "0.45"),
			},
			CategorySibling: {
				bracket("0", "24430", "0.35"),
				bracket("24430", "", "0.45"),
			},
			CategoryNephewNiece: {bracket("0", "", "0.55")},
			CategoryRelative:    {bracket("0", "", "0.55")},
			CategoryOther:       {bracket("0", "", "0.60")},
		},
		UsufructScale: []UsufructBand{
			{MaxAge: 21, Rate: dec("0.9")},
			{MaxAge: 31, Rate: dec("0.8")},
			{MaxAge: 41, Rate: dec("0.7")},
			{MaxAge: 51, Rate: dec("0.6")},
			{MaxAge: 61, Rate: dec("0.5")},
			{MaxAge: 71, Rate: dec("0.4")},
			{MaxAge: 81, Rate: dec("0.3")},
			{MaxAge: 91, Rate: dec("0.2")},
			{MaxAge: 0, Rate: dec("0.1")},
		},
	}
}

// NewBuiltinProvider serves the built-in tables for 2024 and 2025 with active as the active year.
func NewBuiltinProvider(active int) *Static {
	return NewStatic(active, Builtin(2024), Builtin(2025))
}
