package domain

import (
	"github.com/samber/lo"
)

// FamilyMember is a relative or beneficiary of the deceased.
type FamilyMember struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	BirthDate        Date             `json:"birthDate"`
	Relationship     Relationship     `json:"relationship"`
	FromCurrentUnion *bool            `json:"isFromCurrentUnion,omitempty"`
	Disabled         bool             `json:"isDisabled"`
	Adoption         AdoptionType     `json:"adoptionType,omitempty"`
	ContinuousCare   bool             `json:"hasReceivedContinuousCare"`
	RepresentsID     string           `json:"representedHeirId,omitempty"`
	Acceptance       AcceptanceOption `json:"acceptanceOption,omitempty"`
	Line             Line             `json:"line,omitempty"`
}

// Label returns the member name, falling back to its ID.
func (m FamilyMember) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// Renounces reports whether the member renounced the estate.
func (m FamilyMember) Renounces() bool {
	return m.Acceptance == AcceptanceRenunciation
}

// CurrentUnion reports whether a child was born of the union with the surviving spouse.
// Defaults to true when unspecified.
func (m FamilyMember) CurrentUnion() bool {
	return lo.FromPtrOr(m.FromCurrentUnion, true)
}

// IsStepChild reports whether the member is a child from another union.
func (m FamilyMember) IsStepChild() bool {
	return m.Relationship == RelChild && !m.CurrentUnion()
}

// FindSpouse returns the surviving spouse or partner who has not renounced.
func FindSpouse(members []FamilyMember) (FamilyMember, bool) {
	return lo.Find(members, func(m FamilyMember) bool {
		return m.Relationship.IsSpouse() && !m.Renounces()
	})
}

// MembersByRelationship returns accepting members of the given relationships.
func MembersByRelationship(members []FamilyMember, rels ...Relationship) []FamilyMember {
	return lo.Filter(members, func(m FamilyMember, _ int) bool {
		return !m.Renounces() && lo.Contains(rels, m.Relationship)
	})
}

// HasStepChildren reports whether any child from another union takes part in the succession,
// either accepting or, after renouncing, through accepting representatives.
func HasStepChildren(members []FamilyMember) bool {
	return lo.SomeBy(members, func(m FamilyMember) bool {
		if !m.IsStepChild() {
			return false
		}
		return !m.Renounces() || lo.SomeBy(members, func(r FamilyMember) bool {
			return r.RepresentsID == m.ID && !r.Renounces()
		})
	})
}
