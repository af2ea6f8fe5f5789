package legislation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrIncomplete indicates a snapshot that cannot tax every category.
var ErrIncomplete = errors.New("incomplete legislation")

// Category is a tax allowance and bracket category.
type Category string

const (
	CategoryDirectLine  Category = "DIRECT_LINE"
	CategorySpouse      Category = "SPOUSE"
	CategorySibling     Category = "SIBLING"
	CategoryNephewNiece Category = "NEPHEW_NIECE"
	CategoryRelative    Category = "RELATIVE_4TH_DEGREE"
	CategoryOther       Category = "OTHER"
)

// TaxedCategories lists the categories that need a bracket schedule. Spouses are exempt.
var TaxedCategories = []Category{
	CategoryDirectLine, CategorySibling, CategoryNephewNiece, CategoryRelative, CategoryOther,
}

// Bracket is one progressive tax bracket. Max is nil for the open-ended top bracket.
type Bracket struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max"`
	Rate decimal.Decimal  `json:"rate"`
}

// UsufructBand applies Rate to usufructuaries strictly younger than MaxAge.
// A zero MaxAge marks the open-ended last band.
type UsufructBand struct {
	MaxAge int             `json:"maxAge"`
	Rate   decimal.Decimal `json:"rate"`
}

// Snapshot is the read-only set of fiscal tables for one legislation year.
type Snapshot struct {
	Year          int                          `json:"year"`
	Name          string                       `json:"name"`
	Allowances    map[Category]decimal.Decimal `json:"allowances"`
	Brackets      map[Category][]Bracket       `json:"brackets"`
	UsufructScale []UsufructBand               `json:"usufructScale"`
}

// Allowance returns the base allowance for a category, zero when none is configured.
func (s Snapshot) Allowance(c Category) decimal.Decimal {
	return s.Allowances[c]
}

// BracketsFor returns the bracket schedule of a category.
func (s Snapshot) BracketsFor(c Category) []Bracket {
	return s.Brackets[c]
}

// UsufructRate returns the usufruct share of full ownership for an usufructuary of the given age.
func (s Snapshot) UsufructRate(age int) decimal.Decimal {
	for _, band := range s.UsufructScale {
		if band.MaxAge == 0 || age < band.MaxAge {
			return band.Rate
		}
	}
	if len(s.UsufructScale) == 0 {
		return decimal.Zero
	}
	return s.UsufructScale[len(s.UsufructScale)-1].Rate
}

// Validate rejects snapshots that would silently compute zero tax.
func (s Snapshot) Validate() error {
	if s.Year <= 0 {
		return fmt.Errorf("%w: missing year", ErrIncomplete)
	}
	for _, c := range TaxedCategories {
		brackets := s.Brackets[c]
		if len(brackets) == 0 {
			return fmt.Errorf("%w: %d has no brackets for %s", ErrIncomplete, s.Year, c)
		}
		if !brackets[0].Min.IsZero() {
			return fmt.Errorf("%w: %d %s brackets must start at zero", ErrIncomplete, s.Year, c)
		}
		for i, b := range brackets {
			last := i == len(brackets)-1
			if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%w: %d %s bracket %d rate out of range", ErrIncomplete, s.Year, c, i)
			}
			if last != (b.Max == nil) {
				return fmt.Errorf("%w: %d %s only the last bracket may be open-ended", ErrIncomplete, s.Year, c)
			}
			if !last && !brackets[i+1].Min.Equal(*b.Max) {
				return fmt.Errorf("%w: %d %s brackets are not contiguous at %d", ErrIncomplete, s.Year, c, i)
			}
		}
	}
	if len(s.UsufructScale) == 0 {
		return fmt.Errorf("%w: %d has no usufruct scale", ErrIncomplete, s.Year)
	}
	for i := 1; i < len(s.UsufructScale); i++ {
		prev, cur := s.UsufructScale[i-1], s.UsufructScale[i]
		if prev.MaxAge == 0 || (cur.MaxAge != 0 && cur.MaxAge <= prev.MaxAge) {
			return fmt.Errorf("%w: %d usufruct scale must be ordered by age", ErrIncomplete, s.Year)
		}
	}
	return nil
}
