// Package liquidation splits the couple's patrimony and computes the deceased's gross estate.
package liquidation

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
	"github.com/mtlprog/succession/internal/usufruct"
)

var (
	residenceReductionPct = decimal.NewFromInt(20)
	half                  = decimal.RequireFromString("0.5")
	hundred               = decimal.NewFromInt(100)
)

// Holding is the deceased's part of one asset after liquidation.
type Holding struct {
	Asset     domain.Asset
	Value     decimal.Decimal
	Loan      decimal.Decimal
	Community bool
}

// BusinessValue is the part of the holding that excludes the shareholder loan account.
func (h Holding) BusinessValue() decimal.Decimal {
	return h.Value.Sub(h.Loan)
}

// Result is the outcome of the liquidation.
type Result struct {
	GrossEstate   decimal.Decimal
	Details       domain.LiquidationDetails
	Assets        []domain.AssetBreakdown
	Holdings      []Holding
	LifeInsurance []domain.Asset
}

// Holding returns the deceased's holding in an asset.
func (r Result) Holding(assetID string) (Holding, bool) {
	return lo.Find(r.Holdings, func(h Holding) bool { return h.Asset.ID == assetID })
}

// Values maps asset IDs to the deceased's value in each asset.
func (r Result) Values() map[string]decimal.Decimal {
	return lo.SliceToMap(r.Holdings, func(h Holding) (string, decimal.Decimal) { return h.Asset.ID, h.Value })
}

type valued struct {
	asset     domain.Asset
	value     decimal.Decimal
	loan      decimal.Decimal
	community bool
	breakdown int
}

// Liquidate applies the matrimonial regime and contract clauses to every asset.
// Life-insurance contracts are set aside: they do not belong to the estate.
func Liquidate(in domain.SimulationInput, snap legislation.Snapshot, tracer *diagnostics.Tracer, alerts *diagnostics.Alerts) Result {
	tracer.Start("Matrimonial liquidation", "Separate the deceased's property from the surviving spouse's")
	tracer.Input("regime", string(in.Regime))
	if in.MarriageDate != nil {
		tracer.Input("marriage date", in.MarriageDate.String())
	}

	res := Result{Details: domain.LiquidationDetails{Regime: in.Regime}}
	var (
		personal  []valued
		community []valued
	)

	for _, a := range in.Assets {
		b := domain.AssetBreakdown{
			AssetID:   a.ID,
			Name:      a.Name,
			Value:     domain.Money(a.Value),
			Ownership: a.Ownership,
			Origin:    a.Origin,
			LoanValue: domain.Money(a.ShareholderLoan),
		}

		if a.IsLifeInsurance() {
			b.Owner = domain.OwnerExcluded
			b.Notes = append(b.Notes, "life insurance, outside the estate")
			res.LifeInsurance = append(res.LifeInsurance, a)
			res.Assets = append(res.Assets, b)
			tracer.Decide(domain.DecisionExcluded, a.Label(), "life insurance is paid outside the estate")
			continue
		}

		v := valueAsset(in, snap, a, &b, &res.Details, tracer, alerts)
		if !v.value.IsPositive() && b.Owner == domain.OwnerExcluded {
			res.Assets = append(res.Assets, b)
			continue
		}

		v.community = isCommunity(in, a, &b, tracer, alerts)
		v.breakdown = len(res.Assets)
		res.Assets = append(res.Assets, b)
		if v.community {
			community = append(community, v)
		} else {
			personal = append(personal, v)
		}
	}

	personalTotal := domain.Sum(personal, func(v valued) decimal.Decimal { return v.value })
	communityTotal := domain.Sum(community, func(v valued) decimal.Decimal { return v.value })
	toDeceased, toSpouse := rewards(community, tracer)

	for _, v := range personal {
		res.Assets[v.breakdown].Owner = domain.OwnerDeceased
		res.Assets[v.breakdown].DeceasedValue = domain.Money(v.value)
		res.Holdings = append(res.Holdings, Holding{Asset: v.asset, Value: v.value, Loan: v.loan})
		tracer.Decide(domain.DecisionIncluded, v.asset.Label(), "personal property of the deceased: "+domain.FormatMoney(v.value))
	}

	deceasedCommunity := applyClauses(in, community, communityTotal, personalTotal.Add(toDeceased), &res, tracer, alerts)

	res.Details.CommunityTotal = domain.Money(communityTotal)
	res.Details.DeceasedCommunityShare = domain.Money(deceasedCommunity)
	res.Details.SpouseCommunityShare = domain.Money(communityTotal.Sub(deceasedCommunity))
	res.Details.PersonalAssets = domain.Money(personalTotal)
	res.Details.RewardsToDeceased = domain.Money(toDeceased)
	res.Details.RewardsToSpouse = domain.Money(toSpouse)
	res.GrossEstate = personalTotal.Add(deceasedCommunity).Add(toDeceased)
	res.Details.GrossEstate = domain.Money(res.GrossEstate)

	tracer.Output("community total", communityTotal)
	tracer.Output("deceased community share", deceasedCommunity)
	tracer.Output("personal assets", personalTotal)
	if toDeceased.IsPositive() || toSpouse.IsPositive() {
		tracer.Output("rewards owed to the deceased", toDeceased)
		tracer.Output("rewards owed to the spouse", toSpouse)
	}
	tracer.Output("gross estate", res.GrossEstate)
	tracer.End("Gross estate: " + domain.FormatMoney(res.GrossEstate))
	return res
}

// valueAsset scales an asset to the deceased's ownership and applies the residence reduction and dismemberment.
func valueAsset(
	in domain.SimulationInput,
	snap legislation.Snapshot,
	a domain.Asset,
	b *domain.AssetBreakdown,
	details *domain.LiquidationDetails,
	tracer *diagnostics.Tracer,
	alerts *diagnostics.Alerts,
) valued {
	realEstate, loan := a.Value, a.ShareholderLoan

	if a.Indivision != nil {
		fraction := a.Indivision.DeceasedFraction()
		realEstate, loan = realEstate.Mul(fraction), loan.Mul(fraction)
		b.Notes = append(b.Notes, fmt.Sprintf("undivided share %s%%", fraction.Mul(hundred).StringFixed(2)))
		tracer.Decide(domain.DecisionCalculation, a.Label(), "undivided: deceased holds "+fraction.Mul(hundred).StringFixed(2)+"%")
	} else if a.Ownership == domain.OwnershipIndivision {
		alerts.Data("Asset %s is undivided but the co-owners' shares are missing; full value retained", a.Label())
	}

	if a.IsMainResidence && a.SpouseOccupies {
		reduction := domain.Percent(realEstate, residenceReductionPct)
		realEstate = realEstate.Sub(reduction)
		details.ResidenceReduction = details.ResidenceReduction.Add(domain.Money(reduction))
		b.Notes = append(b.Notes, "20% main residence reduction: -"+domain.FormatMoney(reduction))
		tracer.Decide(domain.DecisionInfo, "Main residence reduction on "+a.Label(), "spouse occupies the residence")
	}

	value := realEstate.Add(loan)
	switch a.Ownership {
	case domain.OwnershipFull, domain.OwnershipIndivision:
	case domain.OwnershipBare:
		v := usufruct.ForDismemberment(value, lo.FromPtr(a.Dismemberment), in.ValuationDate, snap)
		ratio := decimal.NewFromInt(1).Sub(v.Rate)
		value, loan = v.BareOwnership, loan.Mul(ratio)
		b.Notes = append(b.Notes, "bare ownership valued at "+ratio.Mul(hundred).StringFixed(0)+"%")
		tracer.Decide(domain.DecisionCalculation, a.Label(), "bare ownership: "+domain.FormatMoney(value))
	case domain.OwnershipUsufruct:
		d := lo.FromPtr(a.Dismemberment)
		if !d.Temporary() {
			b.Owner = domain.OwnerExcluded
			b.Notes = append(b.Notes, "lifetime usufruct extinguished by death")
			alerts.LegalInfo(fmt.Sprintf("The usufruct on %s ends with the death", a.Label()),
				"A lifetime usufruct is extinguished and does not enter the estate.")
			tracer.Decide(domain.DecisionExcluded, a.Label(), "lifetime usufruct extinguished")
			return valued{asset: a}
		}
		v := usufruct.Temporary(value, d.DurationYears)
		value, loan = v.Usufruct, loan.Mul(v.Rate)
		b.Notes = append(b.Notes, fmt.Sprintf("temporary usufruct for %d years", d.DurationYears))
		tracer.Decide(domain.DecisionCalculation, a.Label(), "temporary usufruct: "+domain.FormatMoney(value))
	}

	return valued{asset: a, value: value, loan: loan}
}

// isCommunity decides whether an asset is shared with the spouse.
func isCommunity(in domain.SimulationInput, a domain.Asset, b *domain.AssetBreakdown, tracer *diagnostics.Tracer, alerts *diagnostics.Alerts) bool {
	switch a.Origin {
	case domain.OriginPersonal, domain.OriginInheritance, domain.OriginIndivision:
		return false
	case domain.OriginCommunity:
	}

	if !in.Regime.AllowsCommunity() {
		alerts.Data("Asset %s is declared community property under the %s regime; treated as personal property", a.Label(), in.Regime)
		b.Notes = append(b.Notes, "reclassified as personal property")
		tracer.Decide(domain.DecisionWarning, a.Label(), "no community under "+string(in.Regime))
		return false
	}
	if in.Regime == domain.RegimeCommunityLegal && in.MarriageDate != nil && a.AcquisitionDate != nil &&
		a.AcquisitionDate.Before(*in.MarriageDate) {
		b.Notes = append(b.Notes, "acquired before the marriage, personal property")
		tracer.Decide(domain.DecisionWarning, a.Label(), "acquired before the marriage")
		return false
	}
	b.Owner = domain.OwnerCommunity
	return true
}

// rewards computes the compensation owed between estates when personal funds financed community assets.
// Absent other information the reward is split evenly.
func rewards(community []valued, tracer *diagnostics.Tracer) (toDeceased, toSpouse decimal.Decimal) {
	for _, v := range community {
		pct := v.asset.CommunityFundingPercent
		if pct == nil || !pct.LessThan(hundred) {
			continue
		}
		reward := domain.Percent(v.value, hundred.Sub(*pct))
		toDeceased = toDeceased.Add(reward.Mul(half))
		toSpouse = toSpouse.Add(reward.Mul(half))
		tracer.Decide(domain.DecisionCalculation, "Reward on "+v.asset.Label(),
			fmt.Sprintf("%s%% funded by personal funds: %s", hundred.Sub(*pct).String(), domain.FormatMoney(reward)))
	}
	return toDeceased, toSpouse
}
