package devolution

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

// ReturnRights computes the parents' statutory return on assets they gave to the deceased.
// It only applies without descendants, and each parent's claim is capped at a quarter of the estate.
// values holds the deceased's part of each asset keyed by asset ID.
func ReturnRights(in domain.SimulationInput, values map[string]decimal.Decimal, mass decimal.Decimal) []domain.ReturnRight {
	if !Descendants(in.Members).Empty() || !mass.IsPositive() {
		return nil
	}
	parents := lo.KeyBy(domain.MembersByRelationship(in.Members, domain.RelParent),
		func(m domain.FamilyMember) string { return m.ID })
	limit := quarter.Of(mass)
	used := make(map[string]decimal.Decimal)

	var rights []domain.ReturnRight
	for _, a := range in.Assets {
		if a.ReceivedFromParentID == "" {
			continue
		}
		if _, ok := parents[a.ReceivedFromParentID]; !ok {
			continue
		}
		value, ok := values[a.ID]
		if !ok || !value.IsPositive() {
			continue
		}
		available := domain.NonNegative(limit.Sub(used[a.ReceivedFromParentID]))
		amount := domain.MinDecimal(value, available)
		if !amount.IsPositive() {
			continue
		}
		used[a.ReceivedFromParentID] = used[a.ReceivedFromParentID].Add(amount)
		rights = append(rights, domain.ReturnRight{
			ParentID:   a.ReceivedFromParentID,
			AssetID:    a.ID,
			AssetValue: domain.Money(value),
			Amount:     domain.Money(amount),
		})
	}
	return rights
}
