// Package fiscal computes inheritance tax per heir.
package fiscal

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

const recallYears = 15

// DisabilityAllowance is added to the allowance of a disabled heir, whatever the kinship.
var DisabilityAllowance = decimal.NewFromInt(159_325)

// CategoryFor maps a member to the tax category of their allowance and brackets.
// A simple adoptee without continuous care during minority is taxed as a stranger.
func CategoryFor(m domain.FamilyMember) legislation.Category {
	switch m.Relationship {
	case domain.RelChild:
		if m.Adoption == domain.AdoptionSimple && !m.ContinuousCare {
			return legislation.CategoryOther
		}
		return legislation.CategoryDirectLine
	case domain.RelGrandchild, domain.RelGreatGrandchild, domain.RelParent, domain.RelGrandparent:
		return legislation.CategoryDirectLine
	case domain.RelSpouse, domain.RelPartner:
		return legislation.CategorySpouse
	case domain.RelSibling:
		return legislation.CategorySibling
	case domain.RelNephewNiece:
		return legislation.CategoryNephewNiece
	case domain.RelAuntUncle, domain.RelCousin:
		return legislation.CategoryRelative
	case domain.RelOther:
		return legislation.CategoryOther
	}
	return legislation.CategoryOther
}

// Allowance is the allowance available to one heir.
type Allowance struct {
	Base       decimal.Decimal
	Recalled   decimal.Decimal
	Disability decimal.Decimal
	Total      decimal.Decimal
}

// RecalledDonations sums the declared gifts to a member within the recall window before the given date.
// Gifts are recalled at their original value.
func RecalledDonations(memberID string, donations []domain.Donation, at domain.Date) decimal.Decimal {
	from := at.AddYears(-recallYears)
	recalled := lo.Filter(donations, func(d domain.Donation, _ int) bool {
		return d.BeneficiaryID == memberID && d.Declared && !d.Date.Before(from) && !d.Date.After(at)
	})
	return domain.Sum(recalled, func(d domain.Donation) decimal.Decimal { return d.OriginalValue })
}

// AllowanceFor computes the allowance left to a member after the recall of prior gifts.
func AllowanceFor(m domain.FamilyMember, donations []domain.Donation, at domain.Date, snap legislation.Snapshot) Allowance {
	a := Allowance{
		Base:     snap.Allowance(CategoryFor(m)),
		Recalled: RecalledDonations(m.ID, donations, at),
	}
	if m.Disabled {
		a.Disability = DisabilityAllowance
	}
	a.Total = domain.NonNegative(a.Base.Sub(a.Recalled)).Add(a.Disability)
	return a
}

// Tax applies progressive brackets to a net taxable amount.
func Tax(netTaxable decimal.Decimal, brackets []legislation.Bracket) (decimal.Decimal, []domain.BracketDetail) {
	total := decimal.Zero
	var details []domain.BracketDetail
	for _, b := range brackets {
		if !netTaxable.GreaterThan(b.Min) {
			break
		}
		upper := netTaxable
		if b.Max != nil {
			upper = domain.MinDecimal(netTaxable, *b.Max)
		}
		taxable := upper.Sub(b.Min)
		tax := taxable.Mul(b.Rate)
		total = total.Add(tax)
		details = append(details, domain.BracketDetail{
			Min:     b.Min,
			Max:     b.Max,
			Rate:    b.Rate,
			Taxable: domain.Money(taxable),
			Tax:     domain.Money(tax),
		})
	}
	return total, details
}

// Compute returns the full tax computation of one heir on a taxable base.
// Spouses and partners are wholly exempt.
func Compute(m domain.FamilyMember, base decimal.Decimal, donations []domain.Donation, at domain.Date, snap legislation.Snapshot) domain.TaxDetail {
	category := CategoryFor(m)
	detail := domain.TaxDetail{
		Category:    string(category),
		GrossAmount: domain.Money(base),
	}
	if category == legislation.CategorySpouse {
		detail.Exempt = true
		detail.Allowance = domain.Money(base)
		return detail
	}

	allowance := AllowanceFor(m, donations, at, snap)
	detail.BaseAllowance = allowance.Base
	detail.RecalledDonations = domain.Money(allowance.Recalled)
	detail.DisabilityAllowance = allowance.Disability
	detail.Allowance = domain.Money(allowance.Total)

	net := domain.NonNegative(base.Sub(allowance.Total))
	detail.NetTaxable = domain.Money(net)
	total, brackets := Tax(net, snap.BracketsFor(category))
	detail.Brackets = brackets
	detail.Total = domain.Money(total)
	return detail
}
