package devolution

import (
	"github.com/mtlprog/succession/internal/domain"
)

var (
	reserveOneChild    = domain.NewFraction(1, 2)
	reserveTwoChildren = domain.NewFraction(2, 3)
	reserveManyChild   = domain.NewFraction(3, 4)
	reservePerParent   = domain.NewFraction(1, 4)
)

// Reserve returns the legal reserve fraction and the number of counting children.
// Children count when they accept or, having renounced or predeceased, are represented.
// Without descendants each accepting parent reserves a quarter.
func Reserve(members []domain.FamilyMember) (domain.Fraction, int) {
	children := Descendants(members).Stirps()
	switch {
	case children == 1:
		return reserveOneChild, children
	case children == 2:
		return reserveTwoChildren, children
	case children >= 3:
		return reserveManyChild, children
	}

	parents := len(domain.MembersByRelationship(members, domain.RelParent))
	return reservePerParent.Mul(domain.NewFraction(int64(min(parents, 2)), 1)), 0
}

// ReserveFraction is Reserve without the child count.
func ReserveFraction(members []domain.FamilyMember) domain.Fraction {
	f, _ := Reserve(members)
	return f
}

// DisposableQuota is the part of the estate free of the reserve.
func DisposableQuota(members []domain.FamilyMember) domain.Fraction {
	return domain.FractionOne.Sub(ReserveFraction(members))
}
