package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

var (
	dutreilPct        = decimal.NewFromInt(75)
	forestryPct       = decimal.NewFromInt(75)
	ruralLowPct       = decimal.NewFromInt(75)
	ruralHighPct      = decimal.NewFromInt(50)
	ruralThreshold    = decimal.NewFromInt(300_000)
	minRuralLeaseTerm = 18
)

// ProfessionalExemption returns the exempt part of a professional asset value.
// The value excludes any shareholder loan account.
func ProfessionalExemption(value decimal.Decimal, e *domain.ProfessionalExemption) decimal.Decimal {
	if e == nil || !value.IsPositive() {
		return decimal.Zero
	}
	switch e.Kind {
	case domain.ExemptionDutreil:
		if e.DutreilCollective && e.DutreilIndividual {
			return domain.Percent(value, dutreilPct)
		}
	case domain.ExemptionForestry:
		return domain.Percent(value, forestryPct)
	case domain.ExemptionRuralLease:
		if e.LeaseDurationYears < minRuralLeaseTerm {
			return decimal.Zero
		}
		low := domain.MinDecimal(value, ruralThreshold)
		high := domain.NonNegative(value.Sub(ruralThreshold))
		return domain.Percent(low, ruralLowPct).Add(domain.Percent(high, ruralHighPct))
	}
	return decimal.Zero
}
