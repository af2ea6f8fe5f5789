// Package succession chains the settlement stages into one calculation.
package succession

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/devolution"
	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/estate"
	"github.com/mtlprog/succession/internal/legislation"
	"github.com/mtlprog/succession/internal/lifeinsurance"
	"github.com/mtlprog/succession/internal/liquidation"
	"github.com/mtlprog/succession/internal/reduction"
)

const fractionPrecision = 4

// bequest is a specific bequest valued on the deceased's holding.
type bequest struct {
	domain.Bequest
	id        string
	asset     domain.Asset
	value     decimal.Decimal
	effective decimal.Decimal
}

// run carries the intermediate results of one calculation.
type run struct {
	in     domain.SimulationInput
	snap   legislation.Snapshot
	tracer *diagnostics.Tracer
	alerts *diagnostics.Alerts

	liquidation  liquidation.Result
	estate       estate.Result
	reserve      domain.Fraction
	reserveValue decimal.Decimal
	quotaValue   decimal.Decimal
	bequests     []bequest
	reduction    reduction.Result
	returns      []domain.ReturnRight
	residual     decimal.Decimal
	devolution   devolution.Result
	insurance    lifeinsurance.Result
}

// Calculate settles an estate under the given legislation.
// It is a pure function of its arguments: the same input and snapshot always give the same output.
func Calculate(in domain.SimulationInput, snap legislation.Snapshot) (domain.SuccessionOutput, error) {
	if err := in.Validate(); err != nil {
		return domain.SuccessionOutput{}, err
	}
	if err := snap.Validate(); err != nil {
		return domain.SuccessionOutput{}, fmt.Errorf("legislation %d: %w", snap.Year, err)
	}

	r := &run{
		in:     in,
		snap:   snap,
		tracer: diagnostics.NewTracer(),
		alerts: diagnostics.NewAlerts(),
	}
	r.alerts.International(in)
	r.alerts.DateConsistency(in)

	r.liquidation = liquidation.Liquidate(in, snap, r.tracer, r.alerts)
	r.estate = estate.Reconstitute(r.liquidation.GrossEstate, in, r.tracer, r.alerts)
	r.reserveAndQuota()
	r.reduceLiberalities()
	r.devolution = devolution.Devolve(in, snap, r.tracer, r.alerts)
	r.returnRights()
	r.insurance = lifeinsurance.Compute(in.Assets, in.Members, in.ValuationDate, snap, r.tracer, r.alerts)

	heirs, totalTax := r.heirs()
	r.advise(heirs)

	return domain.SuccessionOutput{
		LegislationYear: snap.Year,
		Metrics: domain.GlobalMetrics{
			GrossEstate:           domain.Money(r.liquidation.GrossEstate),
			TotalEstateValue:      domain.Money(r.estate.Mass),
			FictitiousReunion:     domain.Money(r.estate.FictitiousReunion),
			ReserveFraction:       r.reserve.Decimal().Round(fractionPrecision),
			LegalReserveValue:     domain.Money(r.reserveValue),
			DisposableQuotaValue:  domain.Money(r.quotaValue),
			TotalTax:              domain.Money(totalTax),
			TotalLifeInsuranceTax: domain.Money(r.insurance.TotalTax),
		},
		Heirs:         heirs,
		Family:        r.devolution.Family,
		Spouse:        r.spouseDetails(),
		Liquidation:   r.liquidation.Details,
		Assets:        r.liquidation.Assets,
		Reductions:    r.reduction.Records,
		LifeInsurance: r.insurance.Details,
		ReturnRights:  r.returns,
		Alerts:        r.alerts.List(),
		Steps:         r.tracer.Steps(),
	}, nil
}

// reserveAndQuota tests the reserve on the fictitious reunion.
func (r *run) reserveAndQuota() {
	r.tracer.Start("Reserve and disposable quota", "Reserved portion computed on the net estate plus every prior liberality")
	r.reserve = devolution.ReserveFraction(r.in.Members)
	r.reserveValue = r.reserve.Of(r.estate.FictitiousReunion)
	r.quotaValue = r.estate.FictitiousReunion.Sub(r.reserveValue)

	r.tracer.Input("fictitious reunion", r.estate.FictitiousReunion)
	r.tracer.Input("reserve fraction", r.reserve)
	r.tracer.Output("legal reserve", r.reserveValue)
	r.tracer.Output("disposable quota", r.quotaValue)
	r.tracer.End("Disposable quota: " + domain.FormatMoney(r.quotaValue))
}

// reduceLiberalities values the specific bequests and reduces liberalities exceeding the disposable quota.
func (r *run) reduceLiberalities() {
	r.tracer.Start("Bequests and reduction", "Valuation of specific bequests and reduction of excessive liberalities")

	var liberalities []reduction.Liberality
	for _, b := range r.in.Wishes.Bequests {
		h, ok := r.liquidation.Holding(b.AssetID)
		if !ok {
			asset, _ := r.in.Asset(b.AssetID)
			r.alerts.Data("Bequest of %s cannot be honoured: the asset is not part of the estate", asset.Label())
			r.tracer.Decide(domain.DecisionExcluded, "Bequest of "+asset.Label(), "asset outside the estate")
			continue
		}
		item := bequest{
			Bequest: b,
			id:      b.AssetID + ":" + b.BeneficiaryID,
			asset:   h.Asset,
			value:   domain.Percent(h.Value, b.Percent()),
		}
		r.bequests = append(r.bequests, item)
		liberalities = append(liberalities, reduction.Liberality{
			ID:            item.id,
			Kind:          domain.LiberalityBequest,
			BeneficiaryID: b.BeneficiaryID,
			Date:          r.in.ValuationDate,
			Value:         item.value,
		})
		r.tracer.Decide(domain.DecisionIncluded, "Bequest of "+h.Asset.Label()+" to "+b.BeneficiaryID, domain.FormatMoney(item.value))
	}
	liberalities = append(liberalities, reduction.FromDonations(r.in.Donations)...)

	r.reduction = reduction.Reduce(liberalities, r.quotaValue)
	bequeathed := decimal.Zero
	for i := range r.bequests {
		effective, _ := r.reduction.Effective(r.bequests[i].id, domain.LiberalityBequest)
		r.bequests[i].effective = effective
		bequeathed = bequeathed.Add(effective)
	}
	if r.reduction.Reduced() {
		r.alerts.ReserveBreach(r.reduction.Excess, r.reduction.Records)
	}
	r.residual = domain.NonNegative(r.estate.Mass.Sub(bequeathed))

	r.tracer.Input("liberalities", r.reduction.Total)
	r.tracer.Output("reduction", r.reduction.Restored)
	r.tracer.Output("distributable residual", r.residual)
	r.tracer.End("Residual estate: " + domain.FormatMoney(r.residual))
}

// returnRights takes the parents' statutory return out of the residual estate.
func (r *run) returnRights() {
	r.returns = devolution.ReturnRights(r.in, r.liquidation.Values(), r.estate.Mass)
	if len(r.returns) == 0 {
		return
	}
	total := domain.Sum(r.returns, func(rr domain.ReturnRight) decimal.Decimal { return rr.Amount })
	r.residual = domain.NonNegative(r.residual.Sub(total))
	r.alerts.LegalInfo("Parents take back the assets they gave",
		"Legal return of "+domain.FormatMoney(total)+" before devolution of the residual estate.")
}
