// Package estate rebuilds the estate mass from the gross estate, prior gifts and debts.
package estate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
)

var (
	// MaxFuneralDeduction is the flat funeral-cost deduction accepted without proof.
	MaxFuneralDeduction = decimal.NewFromInt(1500)
	// exemptLinkedDebtPct is the deductible share of a debt financing an exempt professional asset.
	exemptLinkedDebtPct = decimal.NewFromInt(25)
)

// DonationItem is one prior gift with its civil and reserve-testing values.
type DonationItem struct {
	Donation   domain.Donation
	Reportable decimal.Decimal
	Reunion    decimal.Decimal
}

// DebtItem is one liability with the amount actually deducted.
type DebtItem struct {
	Debt     domain.Debt
	Deducted decimal.Decimal
}

// Result is the reconstituted estate.
type Result struct {
	GrossEstate         decimal.Decimal
	ReportableDonations decimal.Decimal
	DeductibleDebts     decimal.Decimal
	// Mass is gross estate + reportable donations - deductible debts, floored at zero.
	Mass decimal.Decimal
	// FictitiousReunion is the net estate plus every liberality at its reserve-testing value.
	FictitiousReunion decimal.Decimal
	Insolvent         bool
	Donations         []DonationItem
	Debts             []DebtItem
}

// ReportableFor returns the civil report owed by one beneficiary.
func (r Result) ReportableFor(memberID string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Donations {
		if d.Donation.BeneficiaryID == memberID {
			total = total.Add(d.Reportable)
		}
	}
	return total
}

// Reconstitute adds back reportable donations and deducts debts from the gross estate.
func Reconstitute(gross decimal.Decimal, in domain.SimulationInput, tracer *diagnostics.Tracer, alerts *diagnostics.Alerts) Result {
	tracer.Start("Estate reconstitution", "Civil report of prior gifts and deduction of debts")
	tracer.Input("gross estate", gross)

	res := Result{GrossEstate: gross}
	reunion := decimal.Zero
	for _, d := range in.Donations {
		item := DonationItem{Donation: d, Reportable: d.ReportableValue(), Reunion: d.ReunionValue()}
		res.Donations = append(res.Donations, item)
		res.ReportableDonations = res.ReportableDonations.Add(item.Reportable)
		reunion = reunion.Add(item.Reunion)

		switch d.Kind {
		case domain.DonationManual:
			tracer.Decide(domain.DecisionIncluded, "Donation "+d.ID, "manual gift reported at "+domain.FormatMoney(item.Reportable))
		case domain.DonationSharedPartition:
			tracer.Decide(domain.DecisionExcluded, "Donation "+d.ID,
				"shared-partition gift is not reported; counted at its historical value for the reserve")
		case domain.DonationCustomary:
			tracer.Decide(domain.DecisionExcluded, "Donation "+d.ID, "customary present is neither reported nor reducible")
		}
	}

	for _, d := range in.Debts {
		deducted := deductible(in, d, alerts)
		res.Debts = append(res.Debts, DebtItem{Debt: d, Deducted: deducted})
		res.DeductibleDebts = res.DeductibleDebts.Add(deducted)
		if deducted.IsPositive() {
			tracer.Decide(domain.DecisionIncluded, "Debt "+d.ID, "deducted "+domain.FormatMoney(deducted))
		} else {
			tracer.Decide(domain.DecisionExcluded, "Debt "+d.ID, "not deductible")
		}
	}

	raw := gross.Add(res.ReportableDonations).Sub(res.DeductibleDebts)
	res.Insolvent = raw.IsNegative()
	res.Mass = domain.NonNegative(raw)
	res.FictitiousReunion = domain.NonNegative(gross.Sub(res.DeductibleDebts)).Add(reunion)

	tracer.Output("reportable donations", res.ReportableDonations)
	tracer.Output("deductible debts", res.DeductibleDebts)
	tracer.Output("estate mass", res.Mass)
	tracer.Output("fictitious reunion", res.FictitiousReunion)
	tracer.End("Estate mass: " + domain.FormatMoney(res.Mass))
	return res
}

// deductible applies the statutory caps to a debt.
func deductible(in domain.SimulationInput, d domain.Debt, alerts *diagnostics.Alerts) decimal.Decimal {
	if !d.IsDeductible() {
		if d.ProofProvided {
			alerts.Data("Debt %s has supporting documents but is marked non-deductible", d.ID)
		}
		return decimal.Zero
	}

	amount := d.Amount
	if a, ok := in.Asset(d.LinkedAssetID); ok && a.Exemption != nil {
		amount = domain.Percent(amount, exemptLinkedDebtPct)
		alerts.Fiscal(fmt.Sprintf("Debt %s is only deductible up to %s", d.ID, domain.FormatMoney(amount)),
			"A debt financing a partially exempt professional asset is deducted in proportion to the taxable part.")
	}

	switch d.Kind {
	case domain.DebtFuneral:
		if amount.GreaterThan(MaxFuneralDeduction) {
			if d.ProofProvided {
				alerts.Data("Funeral costs of %s accepted above the %s ceiling on proof",
					domain.FormatMoney(amount), domain.FormatMoney(MaxFuneralDeduction))
			} else {
				alerts.Data("Funeral costs capped at %s without supporting documents (declared %s)",
					domain.FormatMoney(MaxFuneralDeduction), domain.FormatMoney(amount))
				amount = MaxFuneralDeduction
			}
		}
	case domain.DebtMortgage, domain.DebtConsumerLoan, domain.DebtTax, domain.DebtOther:
	}
	return amount
}
