package domain

// MatrimonialRegime is the property regime between the deceased and the surviving spouse.
type MatrimonialRegime string

const (
	RegimeCommunityLegal        MatrimonialRegime = "COMMUNITY_LEGAL"
	RegimeSeparation            MatrimonialRegime = "SEPARATION"
	RegimeParticipationAcquests MatrimonialRegime = "PARTICIPATION_ACQUESTS"
	RegimeCommunityUniversal    MatrimonialRegime = "COMMUNITY_UNIVERSAL"
)

func (r MatrimonialRegime) Valid() bool {
	switch r {
	case RegimeCommunityLegal, RegimeSeparation, RegimeParticipationAcquests, RegimeCommunityUniversal:
		return true
	}
	return false
}

// AllowsCommunity reports whether the regime can hold community property.
func (r MatrimonialRegime) AllowsCommunity() bool {
	switch r {
	case RegimeCommunityLegal, RegimeCommunityUniversal:
		return true
	case RegimeSeparation, RegimeParticipationAcquests:
		return false
	}
	return false
}

// AssetOrigin tells how the asset entered the deceased's patrimony.
type AssetOrigin string

const (
	OriginPersonal    AssetOrigin = "PERSONAL_PROPERTY"
	OriginCommunity   AssetOrigin = "COMMUNITY_PROPERTY"
	OriginInheritance AssetOrigin = "INHERITANCE"
	OriginIndivision  AssetOrigin = "INDIVISION"
)

func (o AssetOrigin) Valid() bool {
	switch o {
	case OriginPersonal, OriginCommunity, OriginInheritance, OriginIndivision:
		return true
	}
	return false
}

// OwnershipMode is the right the deceased held on the asset.
type OwnershipMode string

const (
	OwnershipFull       OwnershipMode = "FULL_OWNERSHIP"
	OwnershipUsufruct   OwnershipMode = "USUFRUCT"
	OwnershipBare       OwnershipMode = "BARE_OWNERSHIP"
	OwnershipIndivision OwnershipMode = "INDIVISION"
)

func (m OwnershipMode) Valid() bool {
	switch m {
	case OwnershipFull, OwnershipUsufruct, OwnershipBare, OwnershipIndivision:
		return true
	}
	return false
}

// UsufructKind distinguishes lifetime from fixed-term usufruct.
type UsufructKind string

const (
	UsufructLifetime  UsufructKind = "LIFETIME"
	UsufructTemporary UsufructKind = "TEMPORARY"
)

// AssetKind is the nature of the asset, used for preciput matching and reporting.
type AssetKind string

const (
	KindRealEstate         AssetKind = "REAL_ESTATE"
	KindSecondaryResidence AssetKind = "SECONDARY_RESIDENCE"
	KindVehicle            AssetKind = "VEHICLE"
	KindFurniture          AssetKind = "FURNITURE"
	KindBankAccount        AssetKind = "BANK_ACCOUNT"
	KindSecurities         AssetKind = "SECURITIES"
	KindBusiness           AssetKind = "BUSINESS"
	KindLand               AssetKind = "LAND"
	KindForest             AssetKind = "FOREST"
	KindLifeInsurance      AssetKind = "LIFE_INSURANCE"
	KindOther              AssetKind = "OTHER"
)

func (k AssetKind) Valid() bool {
	switch k {
	case KindRealEstate, KindSecondaryResidence, KindVehicle, KindFurniture, KindBankAccount,
		KindSecurities, KindBusiness, KindLand, KindForest, KindLifeInsurance, KindOther:
		return true
	}
	return false
}

// Relationship is the kinship between a family member and the deceased.
type Relationship string

const (
	RelChild           Relationship = "CHILD"
	RelSpouse          Relationship = "SPOUSE"
	RelPartner         Relationship = "PARTNER"
	RelParent          Relationship = "PARENT"
	RelGrandparent     Relationship = "GRANDPARENT"
	RelSibling         Relationship = "SIBLING"
	RelGrandchild      Relationship = "GRANDCHILD"
	RelGreatGrandchild Relationship = "GREAT_GRANDCHILD"
	RelNephewNiece     Relationship = "NEPHEW_NIECE"
	RelAuntUncle       Relationship = "AUNT_UNCLE"
	RelCousin          Relationship = "COUSIN"
	RelOther           Relationship = "OTHER"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelChild, RelSpouse, RelPartner, RelParent, RelGrandparent, RelSibling, RelGrandchild,
		RelGreatGrandchild, RelNephewNiece, RelAuntUncle, RelCousin, RelOther:
		return true
	}
	return false
}

// IsSpouse reports whether the member is the surviving spouse or registered partner.
func (r Relationship) IsSpouse() bool {
	return r == RelSpouse || r == RelPartner
}

// IsDescendant reports whether the member is in the deceased's descending line.
func (r Relationship) IsDescendant() bool {
	return r == RelChild || r == RelGrandchild || r == RelGreatGrandchild
}

// Degree returns the civil degree of kinship, or 0 for non-relatives.
func (r Relationship) Degree() int {
	switch r {
	case RelChild, RelParent:
		return 1
	case RelSibling, RelGrandchild, RelGrandparent:
		return 2
	case RelNephewNiece, RelAuntUncle, RelGreatGrandchild:
		return 3
	case RelCousin:
		return 4
	case RelSpouse, RelPartner, RelOther:
		return 0
	}
	return 0
}

// AdoptionType is the legal form of an adoption.
type AdoptionType string

const (
	AdoptionNone   AdoptionType = ""
	AdoptionFull   AdoptionType = "FULL"
	AdoptionSimple AdoptionType = "SIMPLE"
)

// AcceptanceOption is the heir's decision on the estate.
type AcceptanceOption string

const (
	AcceptancePureSimple      AcceptanceOption = "PURE_SIMPLE"
	AcceptanceNetAssetLimited AcceptanceOption = "NET_ASSET_LIMITED"
	AcceptanceRenunciation    AcceptanceOption = "RENUNCIATION"
)

// Line is the bloodline tag used for split-line devolution.
type Line string

const (
	LineUnknown  Line = ""
	LinePaternal Line = "PATERNAL"
	LineMaternal Line = "MATERNAL"
)

// DonationKind is the legal form of a lifetime gift.
type DonationKind string

const (
	DonationManual          DonationKind = "MANUAL_GIFT"
	DonationSharedPartition DonationKind = "SHARED_PARTITION"
	DonationCustomary       DonationKind = "CUSTOMARY_GIFT"
)

func (k DonationKind) Valid() bool {
	switch k {
	case DonationManual, DonationSharedPartition, DonationCustomary:
		return true
	}
	return false
}

// DebtKind classifies estate liabilities.
type DebtKind string

const (
	DebtMortgage     DebtKind = "MORTGAGE"
	DebtConsumerLoan DebtKind = "CONSUMER_LOAN"
	DebtTax          DebtKind = "TAX"
	DebtFuneral      DebtKind = "FUNERAL"
	DebtOther        DebtKind = "OTHER"
)

func (k DebtKind) Valid() bool {
	switch k {
	case DebtMortgage, DebtConsumerLoan, DebtTax, DebtFuneral, DebtOther:
		return true
	}
	return false
}

// ExemptionKind identifies a professional-asset tax exemption scheme.
type ExemptionKind string

const (
	ExemptionDutreil    ExemptionKind = "DUTREIL"
	ExemptionRuralLease ExemptionKind = "RURAL_LEASE"
	ExemptionForestry   ExemptionKind = "FORESTRY"
)

func (k ExemptionKind) Valid() bool {
	switch k {
	case ExemptionDutreil, ExemptionRuralLease, ExemptionForestry:
		return true
	}
	return false
}

// ContractRegime is the tax regime of a life-insurance contract.
type ContractRegime string

const (
	ContractStandard      ContractRegime = "STANDARD"
	ContractVieGeneration ContractRegime = "VIE_GENERATION"
	ContractLegacyExempt  ContractRegime = "LEGACY_EXEMPT"
)

func (c ContractRegime) Valid() bool {
	switch c {
	case ContractStandard, ContractVieGeneration, ContractLegacyExempt:
		return true
	}
	return false
}

// Distribution is the testamentary distribution mode.
type Distribution string

const (
	DistributionLegal    Distribution = "LEGAL"
	DistributionBequests Distribution = "SPECIFIC_BEQUESTS"
	DistributionCustom   Distribution = "CUSTOM"
)

// SpouseElection is the option chosen by the surviving spouse in presence of descendants.
type SpouseElection string

const (
	ElectionUsufruct        SpouseElection = "USUFRUCT"
	ElectionQuarter         SpouseElection = "QUARTER_OWNERSHIP"
	ElectionDisposableQuota SpouseElection = "DISPOSABLE_QUOTA"
)

func (e SpouseElection) Valid() bool {
	switch e {
	case ElectionUsufruct, ElectionQuarter, ElectionDisposableQuota:
		return true
	}
	return false
}

// PreciputKind designates a class of assets the spouse may take before partition.
type PreciputKind string

const (
	PreciputMainResidence      PreciputKind = "MAIN_RESIDENCE"
	PreciputSecondaryResidence PreciputKind = "SECONDARY_RESIDENCE"
	PreciputVehicle            PreciputKind = "VEHICLE"
	PreciputFurniture          PreciputKind = "FURNITURE"
	PreciputJointAccounts      PreciputKind = "JOINT_ACCOUNTS"
)

// Matches reports whether the asset falls in the preciput class.
func (k PreciputKind) Matches(a Asset) bool {
	switch k {
	case PreciputMainResidence:
		return a.IsMainResidence
	case PreciputSecondaryResidence:
		return a.Kind == KindSecondaryResidence
	case PreciputVehicle:
		return a.Kind == KindVehicle
	case PreciputFurniture:
		return a.Kind == KindFurniture
	case PreciputJointAccounts:
		return a.Kind == KindBankAccount
	}
	return false
}
