package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultCountry is the jurisdiction the engine models.
const DefaultCountry = "FR"

// Asset is an item of the deceased's patrimony.
type Asset struct {
	ID                      string                 `json:"id"`
	Name                    string                 `json:"name,omitempty"`
	Kind                    AssetKind              `json:"kind,omitempty"`
	Value                   decimal.Decimal        `json:"estimatedValue"`
	ShareholderLoan         decimal.Decimal        `json:"shareholderLoanValue"`
	Ownership               OwnershipMode          `json:"ownershipMode"`
	Origin                  AssetOrigin            `json:"assetOrigin"`
	AcquisitionDate         *Date                  `json:"acquisitionDate,omitempty"`
	Dismemberment           *Dismemberment         `json:"dismemberment,omitempty"`
	CommunityFundingPercent *decimal.Decimal       `json:"communityFundingPercent,omitempty"`
	Indivision              *Indivision            `json:"indivision,omitempty"`
	IsMainResidence         bool                   `json:"isMainResidence"`
	SpouseOccupies          bool                   `json:"spouseOccupiesProperty"`
	Exemption               *ProfessionalExemption `json:"professionalExemption,omitempty"`
	LifeInsurance           *LifeInsuranceContract `json:"lifeInsurance,omitempty"`
	ReceivedFromParentID    string                 `json:"receivedFromParentId,omitempty"`
	LocationCountry         string                 `json:"locationCountry,omitempty"`
}

// Label returns the asset name, falling back to its ID.
func (a Asset) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// IsLifeInsurance reports whether the asset is a life-insurance contract kept outside the estate.
func (a Asset) IsLifeInsurance() bool {
	return a.LifeInsurance != nil
}

// Country returns the asset location, defaulting to the modeled jurisdiction.
func (a Asset) Country() string {
	if a.LocationCountry == "" {
		return DefaultCountry
	}
	return a.LocationCountry
}

// Dismemberment describes the usufruct split on an asset.
type Dismemberment struct {
	UsufructuaryBirthDate *Date        `json:"usufructuaryBirthDate,omitempty"`
	Kind                  UsufructKind `json:"kind,omitempty"`
	DurationYears         int          `json:"durationYears,omitempty"`
}

// Temporary reports whether the usufruct is fixed-term.
func (d Dismemberment) Temporary() bool {
	return d.Kind == UsufructTemporary
}

// Indivision holds the co-owners' percentages on an undivided asset.
type Indivision struct {
	SpouseSharePercent decimal.Decimal `json:"spouseSharePercent"`
	OthersSharePercent decimal.Decimal `json:"othersSharePercent"`
}

// DeceasedFraction is the deceased's ownership ratio in [0, 1].
func (i Indivision) DeceasedFraction() decimal.Decimal {
	pct := hundred.Sub(i.SpouseSharePercent).Sub(i.OthersSharePercent)
	return NonNegative(pct).Div(hundred)
}

// ProfessionalExemption configures a business, rural or forestry exemption on an asset.
type ProfessionalExemption struct {
	Kind               ExemptionKind `json:"kind"`
	DutreilCollective  bool          `json:"dutreilCollective,omitempty"`
	DutreilIndividual  bool          `json:"dutreilIndividual,omitempty"`
	LeaseDurationYears int           `json:"leaseDurationYears,omitempty"`
}

// LifeInsuranceContract holds the premiums and designated beneficiaries of a policy.
type LifeInsuranceContract struct {
	Regime         ContractRegime         `json:"regime"`
	PremiumsBefore decimal.Decimal        `json:"premiumsBefore70"`
	PremiumsAfter  decimal.Decimal        `json:"premiumsAfter70"`
	Beneficiaries  []InsuranceBeneficiary `json:"beneficiaries"`
	Dismemberment  *BenefitDismemberment  `json:"dismemberment,omitempty"`
}

// InsuranceBeneficiary designates a member and their share of the benefit.
type InsuranceBeneficiary struct {
	MemberID     string          `json:"memberId"`
	SharePercent decimal.Decimal `json:"sharePercent"`
}

// BenefitDismemberment splits the benefit between one usufructuary and bare owners.
type BenefitDismemberment struct {
	UsufructuaryID string   `json:"usufructuaryId"`
	BareOwnerIDs   []string `json:"bareOwnerIds"`
}
