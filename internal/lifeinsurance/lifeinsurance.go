// Package lifeinsurance taxes life-insurance benefits outside the estate.
package lifeinsurance

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

var (
	// Before70Allowance is granted to each beneficiary across all contracts.
	Before70Allowance = decimal.NewFromInt(152_500)
	// After70Allowance is shared by all non-exempt beneficiaries.
	After70Allowance = decimal.NewFromInt(30_500)

	lowRateCeiling     = decimal.NewFromInt(700_000)
	lowRate            = decimal.RequireFromString("0.20")
	highRate           = decimal.RequireFromString("0.3125")
	generationDiscount = decimal.NewFromInt(20)
	hundred            = decimal.NewFromInt(100)
)

// Result aggregates the life-insurance taxation of all contracts.
type Result struct {
	Details      []domain.LifeInsuranceDetail
	TotalTax     decimal.Decimal
	Reintegrated map[string]decimal.Decimal
}

// ReintegratedFor returns the after-70 excess added to a member's estate taxable base.
func (r Result) ReintegratedFor(memberID string) decimal.Decimal {
	return r.Reintegrated[memberID]
}

type bases struct {
	before decimal.Decimal
	after  decimal.Decimal
}

// Compute taxes every life-insurance asset. Members are needed to know who is exempt
// and to value a dismembered benefit at the usufructuary's age.
func Compute(
	assets []domain.Asset,
	members []domain.FamilyMember,
	at domain.Date,
	snap legislation.Snapshot,
	tracer *diagnostics.Tracer,
	alerts *diagnostics.Alerts,
) Result {
	result := Result{TotalTax: decimal.Zero, Reintegrated: map[string]decimal.Decimal{}}
	contracts := lo.Filter(assets, func(a domain.Asset, _ int) bool { return a.IsLifeInsurance() })
	if len(contracts) == 0 {
		return result
	}

	tracer.Start("Life insurance", "Taxation of life-insurance benefits outside the estate")
	byID := lo.KeyBy(members, func(m domain.FamilyMember) string { return m.ID })

	perMember := map[string]*bases{}
	var order []string
	credit := func(id string, before, after decimal.Decimal) {
		b, ok := perMember[id]
		if !ok {
			b = &bases{before: decimal.Zero, after: decimal.Zero}
			perMember[id] = b
			order = append(order, id)
		}
		b.before = b.before.Add(before)
		b.after = b.after.Add(after)
	}

	for _, a := range contracts {
		c := *a.LifeInsurance
		switch c.Regime {
		case domain.ContractLegacyExempt:
			tracer.Decide(domain.DecisionExcluded, "Contract "+a.Label()+" excluded", "legacy contract exempt from inheritance taxation")
			continue
		case domain.ContractVieGeneration:
			c.PremiumsBefore = c.PremiumsBefore.Sub(domain.Percent(c.PremiumsBefore, generationDiscount))
		case domain.ContractStandard:
		}
		for id, split := range benefitSplit(c, byID, at, snap) {
			credit(id, c.PremiumsBefore.Mul(split), c.PremiumsAfter.Mul(split))
		}
	}
	slices.Sort(order)

	exempt := func(id string) bool {
		m, ok := byID[id]
		return ok && m.Relationship.IsSpouse()
	}

	afterTotal := decimal.Zero
	for _, id := range order {
		if !exempt(id) {
			afterTotal = afterTotal.Add(perMember[id].after)
		}
	}
	afterRatio := decimal.NewFromInt(1)
	if afterTotal.GreaterThan(After70Allowance) {
		afterRatio = After70Allowance.Div(afterTotal)
	}

	for _, id := range order {
		b := perMember[id]
		d := domain.LifeInsuranceDetail{
			BeneficiaryID: id,
			Exempt:        exempt(id),
			Before70Base:  domain.Money(b.before),
			After70Base:   domain.Money(b.after),
		}
		if d.Exempt {
			result.Details = append(result.Details, d)
			continue
		}

		allowance := domain.MinDecimal(b.before, Before70Allowance)
		taxable := b.before.Sub(allowance)
		tax := Before70Tax(taxable)
		d.Before70Allow = domain.Money(allowance)
		d.Before70Taxable = domain.Money(taxable)
		d.Before70Tax = domain.Money(tax)

		afterAllow := b.after.Mul(afterRatio)
		reintegrated := domain.NonNegative(b.after.Sub(afterAllow))
		d.After70Allow = domain.Money(afterAllow)
		d.Reintegrated = domain.Money(reintegrated)
		if reintegrated.IsPositive() {
			result.Reintegrated[id] = reintegrated
		}

		result.TotalTax = result.TotalTax.Add(d.Before70Tax)
		result.Details = append(result.Details, d)
	}

	tracer.Output("Total life-insurance tax", result.TotalTax)
	tracer.End(fmt.Sprintf("%d beneficiary(ies) taxed", len(result.Details)))
	if afterTotal.GreaterThan(After70Allowance) {
		alerts.Fiscal("Premiums paid after 70 exceed the global allowance; the excess is added to the estate taxable base",
			domain.FormatMoney(afterTotal.Sub(After70Allowance)))
	}
	return result
}

// Before70Tax applies the flat levy on benefits from premiums paid before 70.
func Before70Tax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	low := domain.MinDecimal(taxable, lowRateCeiling)
	high := domain.NonNegative(taxable.Sub(lowRateCeiling))
	return low.Mul(lowRate).Add(high.Mul(highRate))
}

// benefitSplit returns each beneficiary's ratio of the contract benefit.
// A dismembered benefit gives the usufructuary the statutory rate at their age
// and splits the rest among bare owners.
func benefitSplit(c domain.LifeInsuranceContract, members map[string]domain.FamilyMember, at domain.Date, snap legislation.Snapshot) map[string]decimal.Decimal {
	split := map[string]decimal.Decimal{}
	if d := c.Dismemberment; d != nil {
		rate := decimal.Zero
		if m, ok := members[d.UsufructuaryID]; ok {
			rate = snap.UsufructRate(domain.AgeAt(m.BirthDate, at))
		}
		split[d.UsufructuaryID] = rate
		if n := len(d.BareOwnerIDs); n > 0 {
			each := decimal.NewFromInt(1).Sub(rate).Div(decimal.NewFromInt(int64(n)))
			for _, id := range d.BareOwnerIDs {
				split[id] = split[id].Add(each)
			}
		}
		return split
	}
	for _, b := range c.Beneficiaries {
		split[b.MemberID] = split[b.MemberID].Add(b.SharePercent.Div(hundred))
	}
	return split
}
