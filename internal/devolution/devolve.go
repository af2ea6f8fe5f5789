// Package devolution decides who inherits and in what proportion.
package devolution

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

// Share is one member's fraction of the distributable estate.
type Share struct {
	MemberID string
	Fraction domain.Fraction
}

// SpouseOutcome describes the surviving spouse's rights.
type SpouseOutcome struct {
	MemberID string
	Election domain.SpouseElection
	Imposed  bool
	Usufruct bool
	Age      int
	Rate     decimal.Decimal
	Share    domain.Fraction
}

// Result is the outcome of the devolution.
type Result struct {
	Shares           []Share
	ReserveFraction  domain.Fraction
	CountingChildren int
	Spouse           *SpouseOutcome
	Family           domain.FamilyContext
}

// ShareOf returns the fraction allotted to a member, zero when excluded.
func (r Result) ShareOf(id string) domain.Fraction {
	s, ok := lo.Find(r.Shares, func(s Share) bool { return s.MemberID == id })
	if !ok {
		return domain.FractionZero
	}
	return s.Fraction
}

type allocation struct {
	members     []domain.FamilyMember
	byIndex     map[int]domain.Fraction
	represented map[int]bool
}

func newAllocation(members []domain.FamilyMember) *allocation {
	return &allocation{
		members:     members,
		byIndex:     make(map[int]domain.Fraction),
		represented: make(map[int]bool),
	}
}

func (a *allocation) add(i int, f domain.Fraction) {
	cur, ok := a.byIndex[i]
	if !ok {
		cur = domain.FractionZero
	}
	a.byIndex[i] = cur.Add(f)
}

func (a *allocation) addMember(id string, f domain.Fraction) {
	if i := slices.IndexFunc(a.members, func(m domain.FamilyMember) bool { return m.ID == id }); i >= 0 {
		a.add(i, f)
	}
}

func (a *allocation) shares() []Share {
	idx := lo.Keys(a.byIndex)
	slices.Sort(idx)
	out := make([]Share, 0, len(idx))
	for _, i := range idx {
		if a.byIndex[i].IsZero() {
			continue
		}
		out = append(out, Share{MemberID: a.members[i].ID, Fraction: a.byIndex[i]})
	}
	return out
}

var (
	quarter = domain.NewFraction(1, 4)
	half    = domain.NewFraction(1, 2)
)

// Devolve computes every member's share of the estate remaining after specific bequests.
func Devolve(in domain.SimulationInput, snap legislation.Snapshot, tracer *diagnostics.Tracer, alerts *diagnostics.Alerts) Result {
	tracer.Start("Devolution", "Legal order of heirs, reserve and shares")
	members := in.Members
	descendants := Descendants(members)
	reserve, counting := Reserve(members)
	spouse, hasSpouse := domain.FindSpouse(members)

	res := Result{
		ReserveFraction:  reserve,
		CountingChildren: counting,
		Family: domain.FamilyContext{
			HasSpouse:       hasSpouse,
			ChildrenCount:   len(lo.Filter(members, func(m domain.FamilyMember, _ int) bool { return m.Relationship == domain.RelChild })),
			StirpsCount:     counting,
			HasStepChildren: domain.HasStepChildren(members),
			HasDescendants:  counting > 0,
		},
	}
	if hasSpouse {
		res.Family.SpouseAge = domain.AgeAt(spouse.BirthDate, in.ValuationDate)
	}
	tracer.Input("members", len(members))
	tracer.Input("counting children", counting)
	tracer.Output("reserve", reserve)

	alloc := newAllocation(members)
	if len(in.Wishes.CustomShares) > 0 {
		res.Family.CustomSharesUsed = true
		customShares(in, alloc, tracer, alerts)
	} else {
		legalShares(in, snap, &res, alloc, descendants, spouse, hasSpouse, tracer, alerts)
	}

	res.Shares = alloc.shares()
	res.Family.RepresentingHeirs = len(alloc.represented)
	if res.Spouse != nil {
		res.Spouse.Share = res.ShareOf(res.Spouse.MemberID)
	}
	excludeStrangers(in, alloc, alerts)

	for _, s := range res.Shares {
		tracer.Output(s.MemberID, s.Fraction)
	}
	tracer.End(fmt.Sprintf("%d heir(s) share the estate, reserve %s", len(res.Shares), reserve))
	return res
}

func customShares(in domain.SimulationInput, alloc *allocation, tracer *diagnostics.Tracer, alerts *diagnostics.Alerts) {
	total := domain.FractionZero
	for _, cs := range in.Wishes.CustomShares {
		f := domain.FractionFromPercent(cs.Percent)
		alloc.addMember(cs.BeneficiaryID, f)
		total = total.Add(f)
	}
	tracer.Decide(domain.DecisionInfo, "Testamentary shares applied", "custom shares override the legal devolution")
	if total.Cmp(domain.FractionOne) < 0 {
		alerts.Legal(domain.AudienceNotary,
			fmt.Sprintf("Custom shares only cover %s%% of the estate", total.Percent().StringFixed(2)),
			fmt.Sprintf("The remaining %s%% is left unallocated in this calculation. It passes to the legal heirs by intestacy and must be settled by the notary.",
				domain.FractionOne.Sub(total).Percent().StringFixed(2)))
	}
}

func legalShares(
	in domain.SimulationInput,
	snap legislation.Snapshot,
	res *Result,
	alloc *allocation,
	descendants *Forest,
	spouse domain.FamilyMember,
	hasSpouse bool,
	tracer *diagnostics.Tracer,
	alerts *diagnostics.Alerts,
) {
	members := in.Members
	siblings := Siblings(members)
	parents := domain.MembersByRelationship(members, domain.RelParent)

	for _, m := range descendants.Loose() {
		alerts.Data("Member %s does not state whom they represent and is excluded by the children", m.Label())
		tracer.Decide(domain.DecisionExcluded, m.Label(), "representative without a represented heir")
	}
	for _, m := range siblings.Loose() {
		alerts.Data("Member %s does not state whom they represent and is excluded by the siblings", m.Label())
		tracer.Decide(domain.DecisionExcluded, m.Label(), "representative without a represented heir")
	}

	switch {
	case !descendants.Empty():
		if hasSpouse {
			spouseWithDescendants(in, snap, res, alloc, descendants, spouse, tracer, alerts)
		} else {
			descendants.Distribute(alloc, domain.FractionOne)
			tracer.Decide(domain.DecisionCalculation, "Descendants inherit the whole estate", "equal shares by stirps")
		}
		alerts.Excluded(domain.MembersByRelationship(members, domain.RelParent, domain.RelGrandparent,
			domain.RelSibling, domain.RelNephewNiece, domain.RelAuntUncle, domain.RelCousin), "the descendants")

	case hasSpouse:
		ignoreElection(in, alerts)
		res.Spouse = &SpouseOutcome{MemberID: spouse.ID, Age: res.Family.SpouseAge}
		switch {
		case len(parents) > 0:
			parentShare := quarter.Mul(domain.NewFraction(int64(min(len(parents), 2)), 1))
			for _, p := range parents {
				alloc.addMember(p.ID, parentShare.Split(len(parents)))
			}
			alloc.addMember(spouse.ID, domain.FractionOne.Sub(parentShare))
			tracer.Decide(domain.DecisionCalculation, "Spouse shares with the parents", "each parent takes a quarter")
			alerts.Excluded(domain.MembersByRelationship(members, domain.RelSibling, domain.RelNephewNiece,
				domain.RelGrandparent, domain.RelAuntUncle, domain.RelCousin), "the spouse and parents")
		case !siblings.Empty():
			alloc.addMember(spouse.ID, half)
			siblings.Distribute(alloc, half)
			tracer.Decide(domain.DecisionCalculation, "Spouse shares with the siblings", "half to the spouse, half by stirps")
			alerts.Excluded(domain.MembersByRelationship(members, domain.RelGrandparent, domain.RelAuntUncle,
				domain.RelCousin), "the spouse and siblings")
		default:
			alloc.addMember(spouse.ID, domain.FractionOne)
			tracer.Decide(domain.DecisionCalculation, "Spouse inherits the whole estate", "no descendant, parent or sibling")
			alerts.Excluded(domain.MembersByRelationship(members, domain.RelGrandparent, domain.RelAuntUncle,
				domain.RelCousin), "the spouse")
		}

	case len(parents) > 0 && !siblings.Empty():
		parentShare := quarter.Mul(domain.NewFraction(int64(min(len(parents), 2)), 1))
		for _, p := range parents {
			alloc.addMember(p.ID, parentShare.Split(len(parents)))
		}
		siblings.Distribute(alloc, domain.FractionOne.Sub(parentShare))
		tracer.Decide(domain.DecisionCalculation, "Parents and siblings share the estate", "each parent takes a quarter, siblings the rest by stirps")
		alerts.Excluded(domain.MembersByRelationship(members, domain.RelGrandparent, domain.RelAuntUncle,
			domain.RelCousin), "the parents and siblings")

	case !siblings.Empty():
		siblings.Distribute(alloc, domain.FractionOne)
		tracer.Decide(domain.DecisionCalculation, "Siblings inherit the whole estate", "equal shares by stirps")
		alerts.Excluded(domain.MembersByRelationship(members, domain.RelGrandparent, domain.RelAuntUncle,
			domain.RelCousin), "the siblings")

	default:
		res.Family.SplitLineApplied = splitLines(members, alloc, tracer, alerts)
	}
}

func ignoreElection(in domain.SimulationInput, alerts *diagnostics.Alerts) {
	if in.Wishes.SpouseElection != nil {
		alerts.LegalInfo("The spouse's election is ignored",
			"An election between usufruct and ownership only exists when the deceased leaves descendants.")
	}
}

func spouseWithDescendants(
	in domain.SimulationInput,
	snap legislation.Snapshot,
	res *Result,
	alloc *allocation,
	descendants *Forest,
	spouse domain.FamilyMember,
	tracer *diagnostics.Tracer,
	alerts *diagnostics.Alerts,
) {
	out := &SpouseOutcome{MemberID: spouse.ID, Age: res.Family.SpouseAge}
	res.Spouse = out

	stepChildren := res.Family.HasStepChildren
	if in.Wishes.SpouseElection == nil {
		out.Imposed = true
		if stepChildren {
			out.Election = domain.ElectionQuarter
			alerts.LegalInfo("The spouse receives a quarter in full ownership",
				"Children from another union exclude the usufruct option.")
		} else {
			out.Election = domain.ElectionUsufruct
			alerts.LegalInfo("No election made: the spouse is deemed to have chosen the usufruct",
				"The spouse who has not opted within the statutory delay is deemed to have chosen the usufruct.")
		}
	} else {
		out.Election = *in.Wishes.SpouseElection
		if out.Election == domain.ElectionUsufruct && stepChildren {
			out.Election = domain.ElectionQuarter
			out.Imposed = true
			alerts.Legal(domain.AudienceUser, "Usufruct election replaced by a quarter in full ownership",
				"The usufruct option is not open when the deceased leaves children from another union.")
		}
	}
	tracer.Decide(domain.DecisionInfo, fmt.Sprintf("Spouse option: %s", out.Election), lo.Ternary(out.Imposed, "imposed", "elected"))

	switch out.Election {
	case domain.ElectionUsufruct:
		out.Usufruct = true
		out.Rate = snap.UsufructRate(out.Age)
		descendants.Distribute(alloc, domain.FractionOne)
		tracer.Decide(domain.DecisionCalculation, "Descendants share the bare ownership",
			fmt.Sprintf("spouse aged %d holds the usufruct valued at %s%%", out.Age, out.Rate.Mul(decimal.NewFromInt(100)).String()))
	case domain.ElectionQuarter:
		alloc.addMember(spouse.ID, quarter)
		descendants.Distribute(alloc, domain.FractionOne.Sub(quarter))
	case domain.ElectionDisposableQuota:
		quota := domain.FractionOne.Sub(res.ReserveFraction)
		alloc.addMember(spouse.ID, quota)
		descendants.Distribute(alloc, res.ReserveFraction)
		tracer.Decide(domain.DecisionCalculation, "Spouse takes the disposable quota", quota.String())
	}
}

// excludeStrangers reports members outside the legal order who receive nothing by will.
func excludeStrangers(in domain.SimulationInput, alloc *allocation, alerts *diagnostics.Alerts) {
	bequeathed := lo.SliceToMap(in.Wishes.Bequests, func(b domain.Bequest) (string, bool) { return b.BeneficiaryID, true })
	for i, m := range in.Members {
		if m.Relationship != domain.RelOther {
			continue
		}
		if _, ok := alloc.byIndex[i]; ok || bequeathed[m.ID] {
			continue
		}
		alerts.LegalInfo(fmt.Sprintf("%s is not a legal heir", m.Label()),
			"Without a bequest or testamentary share an unrelated person receives nothing.")
	}
	if len(alloc.byIndex) == 0 && len(in.Wishes.Bequests) == 0 {
		alerts.Critical("No heir is entitled to the estate",
			"Without legal heirs or testamentary dispositions the estate is vacant and falls to the State.")
	}
}
