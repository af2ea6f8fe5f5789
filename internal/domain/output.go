package domain

import (
	"github.com/shopspring/decimal"
)

// SuccessionOutput is the complete, self-contained result of one calculation.
type SuccessionOutput struct {
	LegislationYear int                   `json:"legislationYear"`
	Metrics         GlobalMetrics         `json:"globalMetrics"`
	Heirs           []HeirBreakdown       `json:"heirsBreakdown"`
	Family          FamilyContext         `json:"familyContext"`
	Spouse          *SpouseDetails        `json:"spouseDetails,omitempty"`
	Liquidation     LiquidationDetails    `json:"liquidationDetails"`
	Assets          []AssetBreakdown      `json:"assetsBreakdown"`
	Reductions      []ReductionRecord     `json:"reductions,omitempty"`
	LifeInsurance   []LifeInsuranceDetail `json:"lifeInsurance,omitempty"`
	ReturnRights    []ReturnRight         `json:"returnRights,omitempty"`
	Alerts          []Alert               `json:"alerts"`
	Steps           []TraceStep           `json:"calculationSteps"`
}

// GlobalMetrics summarises the estate.
type GlobalMetrics struct {
	GrossEstate           decimal.Decimal `json:"grossEstateValue"`
	TotalEstateValue      decimal.Decimal `json:"totalEstateValue"`
	FictitiousReunion     decimal.Decimal `json:"fictitiousReunionValue"`
	ReserveFraction       decimal.Decimal `json:"legalReserveFraction"`
	LegalReserveValue     decimal.Decimal `json:"legalReserveValue"`
	DisposableQuotaValue  decimal.Decimal `json:"disposableQuotaValue"`
	TotalTax              decimal.Decimal `json:"totalTaxAmount"`
	TotalLifeInsuranceTax decimal.Decimal `json:"totalLifeInsuranceTax"`
}

// HeirBreakdown is one member's civil and fiscal outcome.
type HeirBreakdown struct {
	ID                        string          `json:"id"`
	Name                      string          `json:"name"`
	Relationship              Relationship    `json:"relationship"`
	SharePercent              decimal.Decimal `json:"legalSharePercent"`
	GrossShare                decimal.Decimal `json:"grossShareValue"`
	ImputedDonations          decimal.Decimal `json:"imputedDonations"`
	Bequests                  decimal.Decimal `json:"bequestsValue"`
	ExemptAmount              decimal.Decimal `json:"professionalExemption"`
	ReintegratedLifeInsurance decimal.Decimal `json:"reintegratedLifeInsurance"`
	TaxableBase               decimal.Decimal `json:"taxableBase"`
	Allowance                 decimal.Decimal `json:"abatementUsed"`
	Tax                       decimal.Decimal `json:"taxAmount"`
	NetShare                  decimal.Decimal `json:"netShareValue"`
	TaxDetail                 *TaxDetail      `json:"taxCalculationDetails,omitempty"`
	ReceivedAssets            []ReceivedAsset `json:"receivedAssets,omitempty"`
}

// ReceivedAsset is a specific bequest received by an heir.
type ReceivedAsset struct {
	AssetID      string          `json:"assetId"`
	AssetName    string          `json:"assetName,omitempty"`
	SharePercent decimal.Decimal `json:"sharePercentage"`
	Value        decimal.Decimal `json:"value"`
}

// TaxDetail explains an heir's tax computation.
type TaxDetail struct {
	Category            string          `json:"category"`
	Exempt              bool            `json:"exempt"`
	GrossAmount         decimal.Decimal `json:"grossAmount"`
	BaseAllowance       decimal.Decimal `json:"baseAllowance"`
	RecalledDonations   decimal.Decimal `json:"recalledDonations"`
	DisabilityAllowance decimal.Decimal `json:"disabilityAllowance"`
	Allowance           decimal.Decimal `json:"allowanceAmount"`
	NetTaxable          decimal.Decimal `json:"netTaxable"`
	Brackets            []BracketDetail `json:"bracketsApplied"`
	Total               decimal.Decimal `json:"totalTax"`
}

// BracketDetail is the tax owed within one progressive bracket.
type BracketDetail struct {
	Min     decimal.Decimal  `json:"bracketMin"`
	Max     *decimal.Decimal `json:"bracketMax"`
	Rate    decimal.Decimal  `json:"rate"`
	Taxable decimal.Decimal  `json:"taxableInBracket"`
	Tax     decimal.Decimal  `json:"taxForBracket"`
}

// FamilyContext describes the family composition as the engine understood it.
type FamilyContext struct {
	HasSpouse         bool `json:"hasSpouse"`
	SpouseAge         int  `json:"spouseAge,omitempty"`
	ChildrenCount     int  `json:"numChildren"`
	StirpsCount       int  `json:"numStirps"`
	HasStepChildren   bool `json:"hasStepchildren"`
	RepresentingHeirs int  `json:"numRepresentingHeirs"`
	HasDescendants    bool `json:"hasDescendants"`
	SplitLineApplied  bool `json:"splitLineApplied"`
	CustomSharesUsed  bool `json:"customSharesUsed"`
}

// SpouseDetails describes the surviving spouse's rights.
type SpouseDetails struct {
	Election           SpouseElection  `json:"choiceMade,omitempty"`
	Imposed            bool            `json:"choiceImposed"`
	HasUsufruct        bool            `json:"hasUsufruct"`
	Age                int             `json:"age"`
	UsufructRate       decimal.Decimal `json:"usufructRate"`
	UsufructValue      decimal.Decimal `json:"usufructValue"`
	BareOwnershipValue decimal.Decimal `json:"bareOwnershipValue"`
	SharePercent       decimal.Decimal `json:"sharePercent"`
	FullOwnershipValue decimal.Decimal `json:"fullOwnershipValue"`
}

// LiquidationDetails describes the matrimonial-regime liquidation.
type LiquidationDetails struct {
	Regime                 MatrimonialRegime `json:"regime"`
	CommunityTotal         decimal.Decimal   `json:"communityAssetsTotal"`
	SpouseCommunityShare   decimal.Decimal   `json:"spouseCommunityShare"`
	DeceasedCommunityShare decimal.Decimal   `json:"deceasedCommunityShare"`
	PersonalAssets         decimal.Decimal   `json:"personalAssetsDeceased"`
	RewardsToDeceased      decimal.Decimal   `json:"rewardsToDeceased"`
	RewardsToSpouse        decimal.Decimal   `json:"rewardsToSpouse"`
	ResidenceReduction     decimal.Decimal   `json:"residenceReduction"`
	FullAttribution        bool              `json:"hasFullAttribution"`
	RetranchementExcess    decimal.Decimal   `json:"retranchementExcess"`
	PreciputValue          decimal.Decimal   `json:"preciputValue"`
	UnequalSpousePercent   *decimal.Decimal  `json:"unequalShareSpousePct,omitempty"`
	GrossEstate            decimal.Decimal   `json:"grossEstate"`
}

// Owner classifies who holds an asset after liquidation.
type Owner string

const (
	OwnerDeceased  Owner = "DECEASED"
	OwnerCommunity Owner = "COMMUNITY"
	OwnerExcluded  Owner = "EXCLUDED"
)

// AssetBreakdown is the per-asset liquidation trail.
type AssetBreakdown struct {
	AssetID       string          `json:"assetId"`
	Name          string          `json:"name,omitempty"`
	Value         decimal.Decimal `json:"assetValue"`
	Ownership     OwnershipMode   `json:"ownershipMode"`
	Origin        AssetOrigin     `json:"assetOrigin"`
	Owner         Owner           `json:"owner"`
	DeceasedValue decimal.Decimal `json:"deceasedValue"`
	LoanValue     decimal.Decimal `json:"shareholderLoanValue"`
	Notes         []string        `json:"notes,omitempty"`
}

// LiberalityKind distinguishes bequests from lifetime donations in the reduction trail.
type LiberalityKind string

const (
	LiberalityBequest  LiberalityKind = "BEQUEST"
	LiberalityDonation LiberalityKind = "DONATION"
)

// ReductionRecord is the outcome of the reduction for one liberality.
type ReductionRecord struct {
	ID            string          `json:"id"`
	Kind          LiberalityKind  `json:"kind"`
	BeneficiaryID string          `json:"beneficiaryId"`
	Date          Date            `json:"date"`
	Original      decimal.Decimal `json:"originalValue"`
	Reduction     decimal.Decimal `json:"reduction"`
	Effective     decimal.Decimal `json:"effectiveValue"`
}

// LifeInsuranceDetail is one beneficiary's life-insurance taxation.
type LifeInsuranceDetail struct {
	BeneficiaryID   string          `json:"beneficiaryId"`
	Exempt          bool            `json:"exempt"`
	Before70Base    decimal.Decimal `json:"before70Base"`
	Before70Allow   decimal.Decimal `json:"before70Allowance"`
	Before70Taxable decimal.Decimal `json:"before70Taxable"`
	Before70Tax     decimal.Decimal `json:"before70Tax"`
	After70Base     decimal.Decimal `json:"after70Base"`
	After70Allow    decimal.Decimal `json:"after70Allowance"`
	Reintegrated    decimal.Decimal `json:"reintegratedAmount"`
}

// ReturnRight is a parent's statutory claim on an asset they gave to the deceased.
type ReturnRight struct {
	ParentID   string          `json:"parentId"`
	AssetID    string          `json:"assetId"`
	AssetValue decimal.Decimal `json:"assetValue"`
	Amount     decimal.Decimal `json:"amount"`
}
