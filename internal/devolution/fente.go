package devolution

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
)

var ordinaryRelatives = []domain.Relationship{
	domain.RelParent, domain.RelGrandparent, domain.RelAuntUncle, domain.RelCousin,
}

// splitLines applies the split between paternal and maternal lines.
// It reports whether tagged lines were used.
func splitLines(members []domain.FamilyMember, alloc *allocation, tracer *diagnostics.Tracer, alerts *diagnostics.Alerts) bool {
	pool := domain.MembersByRelationship(members, ordinaryRelatives...)
	if len(pool) == 0 {
		return false
	}

	tagged := lo.Filter(pool, func(m domain.FamilyMember, _ int) bool { return m.Line != domain.LineUnknown })
	if len(tagged) == 0 {
		winners := closest(pool, tracer)
		for _, m := range winners {
			alloc.addMember(m.ID, domain.FractionOne.Split(len(winners)))
		}
		tracer.Decide(domain.DecisionCalculation, "Closest relatives inherit",
			fmt.Sprintf("degree %d, no line declared", winners[0].Relationship.Degree()))
		return false
	}

	for _, m := range pool {
		if m.Line == domain.LineUnknown {
			alerts.Data("Member %s has no paternal or maternal line and is excluded from the split", m.Label())
			tracer.Decide(domain.DecisionExcluded, m.Label(), "line unknown")
		}
	}

	lines := lo.GroupBy(tagged, func(m domain.FamilyMember) domain.Line { return m.Line })
	present := lo.Filter([]domain.Line{domain.LinePaternal, domain.LineMaternal}, func(l domain.Line, _ int) bool {
		return len(lines[l]) > 0
	})
	lineShare := domain.FractionOne.Split(len(present))
	for _, line := range present {
		winners := closest(lines[line], tracer)
		for _, m := range winners {
			alloc.addMember(m.ID, lineShare.Split(len(winners)))
		}
		tracer.Decide(domain.DecisionCalculation, fmt.Sprintf("%s line receives %s", line, lineShare),
			fmt.Sprintf("%d heir(s) of degree %d", len(winners), winners[0].Relationship.Degree()))
	}
	if len(present) == 1 {
		alerts.LegalInfo("Only one line is represented", "The whole estate devolves to that line.")
	}
	return true
}

// closest keeps the relatives of the lowest degree. A closer degree excludes a farther one.
func closest(pool []domain.FamilyMember, tracer *diagnostics.Tracer) []domain.FamilyMember {
	best := lo.MinBy(pool, func(a, b domain.FamilyMember) bool {
		return a.Relationship.Degree() < b.Relationship.Degree()
	}).Relationship.Degree()
	for _, m := range pool {
		if m.Relationship.Degree() > best {
			tracer.Decide(domain.DecisionExcluded, m.Label(), fmt.Sprintf("degree %d excluded by degree %d", m.Relationship.Degree(), best))
		}
	}
	return lo.Filter(pool, func(m domain.FamilyMember, _ int) bool { return m.Relationship.Degree() == best })
}
