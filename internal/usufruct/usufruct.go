// Package usufruct values the split between usufruct and bare ownership.
package usufruct

import (
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

var (
	temporaryRatePerPeriod = decimal.RequireFromString("0.23")
	one                    = decimal.NewFromInt(1)
)

const temporaryPeriodYears = 10

// Valuation is the fiscal split of a full-ownership value.
type Valuation struct {
	Age           int             `json:"age,omitempty"`
	Rate          decimal.Decimal `json:"rate"`
	Usufruct      decimal.Decimal `json:"usufructValue"`
	BareOwnership decimal.Decimal `json:"bareOwnershipValue"`
}

// Value splits total according to the usufructuary's age at the given date.
func Value(total decimal.Decimal, birth, at domain.Date, snap legislation.Snapshot) Valuation {
	age := domain.AgeAt(birth, at)
	return split(total, snap.UsufructRate(age), age)
}

// Temporary splits total for a fixed-term usufruct: 23% per started ten-year period, regardless of age.
func Temporary(total decimal.Decimal, durationYears int) Valuation {
	return split(total, TemporaryRate(durationYears), 0)
}

// TemporaryRate returns the usufruct ratio of a fixed-term usufruct, capped at full ownership.
func TemporaryRate(durationYears int) decimal.Decimal {
	if durationYears <= 0 {
		return decimal.Zero
	}
	periods := (durationYears + temporaryPeriodYears - 1) / temporaryPeriodYears
	return domain.MinDecimal(temporaryRatePerPeriod.Mul(decimal.NewFromInt(int64(periods))), one)
}

// ForDismemberment values a dismembered asset, using the temporary scale when the usufruct is fixed-term.
func ForDismemberment(total decimal.Decimal, d domain.Dismemberment, at domain.Date, snap legislation.Snapshot) Valuation {
	if d.Temporary() {
		return Temporary(total, d.DurationYears)
	}
	if d.UsufructuaryBirthDate == nil {
		return split(total, decimal.Zero, 0)
	}
	return Value(total, *d.UsufructuaryBirthDate, at, snap)
}

func split(total, rate decimal.Decimal, age int) Valuation {
	usufruct := total.Mul(rate)
	return Valuation{
		Age:           age,
		Rate:          rate,
		Usufruct:      usufruct,
		BareOwnership: total.Sub(usufruct),
	}
}
