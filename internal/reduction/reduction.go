// Package reduction reduces liberalities that encroach on the legal reserve.
package reduction

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

// Liberality is a gift or bequest subject to reduction.
type Liberality struct {
	ID            string
	Kind          domain.LiberalityKind
	BeneficiaryID string
	Date          domain.Date
	Value         decimal.Decimal
}

// Result is the outcome of the reduction.
type Result struct {
	Total    decimal.Decimal
	Excess   decimal.Decimal
	Restored decimal.Decimal
	Records  []domain.ReductionRecord
}

// Reduced reports whether any liberality was reduced.
func (r Result) Reduced() bool {
	return r.Restored.IsPositive()
}

// Effective returns the value kept by a liberality after reduction.
func (r Result) Effective(id string, kind domain.LiberalityKind) (decimal.Decimal, bool) {
	rec, ok := lo.Find(r.Records, func(rec domain.ReductionRecord) bool { return rec.ID == id && rec.Kind == kind })
	return rec.Effective, ok
}

// Reduce absorbs the excess of liberalities over the disposable quota.
// Bequests are reduced first in the order given, then donations from the most recent.
// A liberality is never reduced below zero.
func Reduce(liberalities []Liberality, disposableQuota decimal.Decimal) Result {
	ordered := Order(liberalities)
	res := Result{Total: domain.Sum(ordered, func(l Liberality) decimal.Decimal { return l.Value })}
	res.Excess = domain.NonNegative(res.Total.Sub(domain.NonNegative(disposableQuota)))

	remaining := res.Excess
	for _, l := range ordered {
		cut := domain.MinDecimal(domain.NonNegative(l.Value), remaining)
		remaining = remaining.Sub(cut)
		res.Records = append(res.Records, domain.ReductionRecord{
			ID:            l.ID,
			Kind:          l.Kind,
			BeneficiaryID: l.BeneficiaryID,
			Date:          l.Date,
			Original:      l.Value,
			Reduction:     cut,
			Effective:     l.Value.Sub(cut),
		})
	}
	res.Restored = res.Excess.Sub(remaining)
	return res
}

// Order sorts liberalities in the legal order of reduction.
func Order(liberalities []Liberality) []Liberality {
	out := slices.Clone(liberalities)
	slices.SortStableFunc(out, func(a, b Liberality) int {
		if a.Kind != b.Kind {
			if a.Kind == domain.LiberalityBequest {
				return -1
			}
			return 1
		}
		if a.Kind == domain.LiberalityDonation {
			return b.Date.Compare(a.Date.Time)
		}
		return 0
	})
	return out
}

// FromDonations converts the reducible gifts. Customary presents are not liberalities.
func FromDonations(donations []domain.Donation) []Liberality {
	out := make([]Liberality, 0, len(donations))
	for _, d := range donations {
		if !d.IsLiberality() {
			continue
		}
		out = append(out, Liberality{
			ID:            d.ID,
			Kind:          domain.LiberalityDonation,
			BeneficiaryID: d.BeneficiaryID,
			Date:          d.Date,
			Value:         d.ReunionValue(),
		})
	}
	return out
}
