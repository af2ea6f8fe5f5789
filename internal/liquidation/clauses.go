package liquidation

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/devolution"
	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
)

// applyClauses partitions the community according to the marriage contract and returns the deceased's part.
// Clauses apply in order: full attribution, preciput, unequal split.
// ownEstate is the deceased's personal property plus rewards, used to bound full attribution.
func applyClauses(
	in domain.SimulationInput,
	community []valued,
	communityTotal decimal.Decimal,
	ownEstate decimal.Decimal,
	res *Result,
	tracer *diagnostics.Tracer,
	alerts *diagnostics.Alerts,
) decimal.Decimal {
	clauses := lo.FromPtr(in.Clauses)
	// Matrimonial advantages survive a renunciation of the succession, so any listed spouse keeps them.
	if in.Clauses != nil && !lo.SomeBy(in.Members, func(m domain.FamilyMember) bool { return m.Relationship.IsSpouse() }) {
		alerts.Data("Matrimonial clauses are ignored: no surviving spouse is listed")
		clauses = domain.MatrimonialClauses{}
	}

	if clauses.FullAttribution && len(community) > 0 {
		return fullAttribution(in, community, communityTotal, ownEstate, clauses, res, tracer, alerts)
	}

	ratio := half
	if pct := clauses.UnequalSpouseShare; pct != nil {
		ratio = hundred.Sub(*pct).Div(hundred)
		res.Details.UnequalSpousePercent = lo.ToPtr(*pct)
		tracer.Decide(domain.DecisionInfo, fmt.Sprintf("Unequal split: %s%% to the spouse", pct.String()), "marriage contract clause")
	}

	deceased := decimal.Zero
	for _, v := range community {
		if p := clauses.Preciput; p != nil && p.Covers(v.asset) {
			res.Details.PreciputValue = res.Details.PreciputValue.Add(domain.Money(v.value))
			res.Assets[v.breakdown].Notes = append(res.Assets[v.breakdown].Notes, "taken by the spouse under the preciput clause")
			tracer.Decide(domain.DecisionExcluded, v.asset.Label(), "preciput: taken by the spouse before partition")
			continue
		}
		part := v.value.Mul(ratio)
		deceased = deceased.Add(part)
		res.Assets[v.breakdown].DeceasedValue = domain.Money(part)
		res.Holdings = append(res.Holdings, Holding{Asset: v.asset, Value: part, Loan: v.loan.Mul(ratio), Community: true})
		tracer.Decide(domain.DecisionIncluded, v.asset.Label(),
			fmt.Sprintf("community property, deceased's part %s", domain.FormatMoney(part)))
	}
	if clauses.Preciput != nil && res.Details.PreciputValue.IsZero() {
		alerts.Data("The preciput clause designates no community asset")
	}
	return deceased
}

// fullAttribution gives the whole community to the spouse. With children from another union
// the advantage is limited to the disposable quota and the excess returns to the estate.
func fullAttribution(
	in domain.SimulationInput,
	community []valued,
	communityTotal decimal.Decimal,
	ownEstate decimal.Decimal,
	clauses domain.MatrimonialClauses,
	res *Result,
	tracer *diagnostics.Tracer,
	alerts *diagnostics.Alerts,
) decimal.Decimal {
	res.Details.FullAttribution = true
	tracer.Decide(domain.DecisionInfo, "Full attribution clause", "the spouse receives the whole community")

	if clauses.Preciput != nil {
		alerts.Data("The preciput clause is redundant with full attribution and is ignored")
	}
	if clauses.UnequalSpouseShare != nil {
		alerts.Data("The unequal split clause is redundant with full attribution and is ignored")
	}
	for _, v := range community {
		res.Assets[v.breakdown].Notes = append(res.Assets[v.breakdown].Notes, "attributed to the spouse")
	}

	if !domain.HasStepChildren(in.Members) {
		return decimal.Zero
	}

	advantage := communityTotal.Mul(half)
	quota := devolution.DisposableQuota(in.Members)
	allowed := quota.Of(ownEstate.Add(advantage))
	excess := domain.NonNegative(advantage.Sub(allowed))
	if excess.IsPositive() {
		res.Details.RetranchementExcess = domain.Money(excess)
		alerts.Legal(domain.AudienceNotary, "Full attribution reduced by the action en retranchement",
			fmt.Sprintf("Children from another union limit the advantage to the disposable quota %s; %s returns to the estate.",
				quota, domain.FormatMoney(excess)))
		tracer.Decide(domain.DecisionWarning, "Action en retranchement",
			fmt.Sprintf("advantage %s exceeds %s", domain.FormatMoney(advantage), domain.FormatMoney(allowed)))
	}
	return excess
}
