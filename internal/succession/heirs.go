package succession

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/fiscal"
)

// usufructRate returns the spouse's usufruct rate, zero when the spouse holds no usufruct.
func (r *run) usufructRate() decimal.Decimal {
	if s := r.devolution.Spouse; s != nil && s.Usufruct {
		return s.Rate
	}
	return decimal.Zero
}

// encumbered is the residual property subject to the spouse's usufruct.
// Reported gifts already belong to their beneficiaries and escape it.
func (r *run) encumbered() decimal.Decimal {
	return domain.NonNegative(r.residual.Sub(r.estate.ReportableDonations))
}

// exemptions splits professional exemptions between legatees and heirs.
// Bequeathed parts follow the legatee; the rest is shared like the residual estate.
func (r *run) exemptions() (byLegatee map[string]decimal.Decimal, shared decimal.Decimal) {
	byLegatee = map[string]decimal.Decimal{}
	shared = decimal.Zero
	for _, h := range r.liquidation.Holdings {
		exempt := fiscal.ProfessionalExemption(h.BusinessValue(), h.Asset.Exemption)
		if !exempt.IsPositive() {
			continue
		}
		left := decimal.NewFromInt(100)
		for _, b := range r.bequests {
			if b.AssetID != h.Asset.ID {
				continue
			}
			byLegatee[b.BeneficiaryID] = byLegatee[b.BeneficiaryID].Add(domain.Percent(exempt, b.Percent()))
			left = left.Sub(b.Percent())
		}
		shared = shared.Add(domain.Percent(exempt, domain.NonNegative(left)))
	}
	return byLegatee, shared
}

// heirs builds the civil and fiscal breakdown of every member who receives something.
func (r *run) heirs() ([]domain.HeirBreakdown, decimal.Decimal) {
	r.tracer.Start("Inheritance tax", "Allowances and progressive brackets applied to each heir")

	rate := r.usufructRate()
	bare := decimal.NewFromInt(1).Sub(rate)
	legateeExempt, sharedExempt := r.exemptions()
	returns := lo.GroupBy(r.returns, func(rr domain.ReturnRight) string { return rr.ParentID })
	totalTax := decimal.Zero

	var out []domain.HeirBreakdown
	for _, m := range r.in.Members {
		share := r.devolution.ShareOf(m.ID)
		received := r.received(m.ID)
		bequests := domain.Sum(received, func(a domain.ReceivedAsset) decimal.Decimal { return a.Value })
		returned := domain.Sum(returns[m.ID], func(rr domain.ReturnRight) decimal.Decimal { return rr.Amount })
		reintegrated := r.insurance.ReintegratedFor(m.ID)
		usufructuary := rate.IsPositive() && r.devolution.Spouse.MemberID == m.ID

		if share.IsZero() && bequests.IsZero() && returned.IsZero() && reintegrated.IsZero() && !usufructuary {
			continue
		}

		imputed := r.estate.ReportableFor(m.ID)
		hereditary := domain.NonNegative(share.Of(r.residual).Sub(imputed))
		exempt := share.Of(sharedExempt)
		switch {
		case usufructuary:
			hereditary = hereditary.Add(rate.Mul(r.encumbered()))
		case rate.IsPositive() && m.Relationship.IsDescendant():
			hereditary = hereditary.Mul(bare)
			exempt = exempt.Mul(bare)
		}
		gross := hereditary.Add(bequests).Add(returned)
		exempt = domain.MinDecimal(exempt.Add(legateeExempt[m.ID]), gross)
		taxable := gross.Sub(exempt).Add(reintegrated)

		detail := fiscal.Compute(m, taxable, r.in.Donations, r.in.ValuationDate, r.snap)
		totalTax = totalTax.Add(detail.Total)
		r.tracer.Decide(domain.DecisionCalculation, fmt.Sprintf("%s (%s)", m.Label(), detail.Category),
			fmt.Sprintf("taxable %s, tax %s", domain.FormatMoney(taxable), domain.FormatMoney(detail.Total)))

		out = append(out, domain.HeirBreakdown{
			ID:                        m.ID,
			Name:                      m.Label(),
			Relationship:              m.Relationship,
			SharePercent:              share.Percent().Round(fractionPrecision),
			GrossShare:                domain.Money(gross),
			ImputedDonations:          domain.Money(imputed),
			Bequests:                  domain.Money(bequests),
			ExemptAmount:              domain.Money(exempt),
			ReintegratedLifeInsurance: domain.Money(reintegrated),
			TaxableBase:               domain.Money(taxable),
			Allowance:                 detail.Allowance,
			Tax:                       detail.Total,
			NetShare:                  domain.Money(gross.Sub(detail.Total)),
			TaxDetail:                 &detail,
			ReceivedAssets:            received,
		})
	}

	r.tracer.Output("total tax", totalTax)
	r.tracer.End(fmt.Sprintf("%d heir(s) taxed, total %s", len(out), domain.FormatMoney(totalTax)))
	return out, totalTax
}

// received lists the specific bequests kept by a member after reduction.
func (r *run) received(memberID string) []domain.ReceivedAsset {
	var out []domain.ReceivedAsset
	for _, b := range r.bequests {
		if b.BeneficiaryID != memberID || !b.effective.IsPositive() {
			continue
		}
		out = append(out, domain.ReceivedAsset{
			AssetID:      b.AssetID,
			AssetName:    b.asset.Name,
			SharePercent: b.Percent(),
			Value:        domain.Money(b.effective),
		})
	}
	return out
}

// spouseDetails describes the surviving spouse's rights, nil without a spouse.
func (r *run) spouseDetails() *domain.SpouseDetails {
	spouse, ok := domain.FindSpouse(r.in.Members)
	if !ok {
		return nil
	}
	share := r.devolution.ShareOf(spouse.ID)
	d := &domain.SpouseDetails{
		Age:                r.devolution.Family.SpouseAge,
		SharePercent:       share.Percent().Round(fractionPrecision),
		FullOwnershipValue: domain.Money(share.Of(r.residual)),
	}
	if s := r.devolution.Spouse; s != nil {
		d.Election = s.Election
		d.Imposed = s.Imposed
		d.HasUsufruct = s.Usufruct
		if s.Usufruct {
			base := r.encumbered()
			d.UsufructRate = s.Rate
			d.UsufructValue = domain.Money(s.Rate.Mul(base))
			d.BareOwnershipValue = domain.Money(base.Sub(s.Rate.Mul(base)))
		}
	}
	return d
}
