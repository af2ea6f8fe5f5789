package domain

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Donation is a lifetime gift made by the deceased.
type Donation struct {
	ID              string           `json:"id"`
	Kind            DonationKind     `json:"donationType"`
	BeneficiaryID   string           `json:"beneficiaryHeirId"`
	Date            Date             `json:"donationDate"`
	OriginalValue   decimal.Decimal  `json:"originalValue"`
	CurrentValue    *decimal.Decimal `json:"currentEstimatedValue,omitempty"`
	Declared        bool             `json:"isDeclaredToTax"`
	DeclarationDate *Date            `json:"taxDeclarationDate,omitempty"`
}

// ReportableValue is the value re-added to the estate by the civil report.
// Only manual gifts are reportable, at their re-estimated value.
func (d Donation) ReportableValue() decimal.Decimal {
	switch d.Kind {
	case DonationManual:
		return lo.FromPtrOr(d.CurrentValue, d.OriginalValue)
	case DonationSharedPartition, DonationCustomary:
		return decimal.Zero
	}
	return decimal.Zero
}

// ReunionValue is the value counted in the fictitious reunion used to test the disposable quota.
func (d Donation) ReunionValue() decimal.Decimal {
	switch d.Kind {
	case DonationManual:
		return lo.FromPtrOr(d.CurrentValue, d.OriginalValue)
	case DonationSharedPartition:
		return d.OriginalValue
	case DonationCustomary:
		return decimal.Zero
	}
	return decimal.Zero
}

// IsLiberality reports whether the gift can be subject to reduction.
func (d Donation) IsLiberality() bool {
	switch d.Kind {
	case DonationManual, DonationSharedPartition:
		return true
	case DonationCustomary:
		return false
	}
	return false
}

// Debt is an estate liability.
type Debt struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          DebtKind        `json:"debtType"`
	Deductible    *bool           `json:"isDeductible,omitempty"`
	LinkedAssetID string          `json:"linkedAssetId,omitempty"`
	ProofProvided bool            `json:"proofProvided"`
}

// IsDeductible defaults to true when unspecified.
func (d Debt) IsDeductible() bool {
	return lo.FromPtrOr(d.Deductible, true)
}

// Bequest leaves a share of a specific asset to a beneficiary.
type Bequest struct {
	AssetID       string           `json:"assetId"`
	BeneficiaryID string           `json:"beneficiaryId"`
	SharePercent  *decimal.Decimal `json:"sharePercentage,omitempty"`
}

// Percent returns the bequeathed share, 100% when unspecified.
func (b Bequest) Percent() decimal.Decimal {
	return lo.FromPtrOr(b.SharePercent, hundred)
}

// CustomShare is a testamentary percentage of the whole estate.
type CustomShare struct {
	BeneficiaryID string          `json:"beneficiaryId"`
	Percent       decimal.Decimal `json:"percentage"`
}

// Wishes gathers the deceased's testamentary dispositions.
type Wishes struct {
	HasSpouseDonation bool            `json:"hasSpouseDonation"`
	Distribution      Distribution    `json:"testamentDistribution,omitempty"`
	Bequests          []Bequest       `json:"specificBequests,omitempty"`
	CustomShares      []CustomShare   `json:"customShares,omitempty"`
	SpouseElection    *SpouseElection `json:"spouseChoice,omitempty"`
}

// MatrimonialClauses are the marriage-contract clauses applied at liquidation.
type MatrimonialClauses struct {
	FullAttribution    bool             `json:"hasFullAttribution"`
	Preciput           *PreciputClause  `json:"preciput,omitempty"`
	UnequalSpouseShare *decimal.Decimal `json:"spouseSharePercentage,omitempty"`
}

// PreciputClause designates the assets the spouse takes before partition.
type PreciputClause struct {
	Kinds    []PreciputKind `json:"kinds,omitempty"`
	AssetIDs []string       `json:"assetIds,omitempty"`
}

// Covers reports whether the clause designates the asset.
func (p PreciputClause) Covers(a Asset) bool {
	if lo.Contains(p.AssetIDs, a.ID) {
		return true
	}
	return lo.SomeBy(p.Kinds, func(k PreciputKind) bool { return k.Matches(a) })
}
