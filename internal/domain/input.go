package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// maxRepresentationDepth bounds representation chains (child, grandchild, great-grandchild, one more generation).
const maxRepresentationDepth = 4

// SimulationInput is the full description of an estate to settle.
type SimulationInput struct {
	Regime           MatrimonialRegime   `json:"matrimonialRegime"`
	MarriageDate     *Date               `json:"marriageDate,omitempty"`
	ValuationDate    Date                `json:"valuationDate"`
	Assets           []Asset             `json:"assets"`
	Members          []FamilyMember      `json:"members"`
	Wishes           Wishes              `json:"wishes"`
	Donations        []Donation          `json:"donations,omitempty"`
	Debts            []Debt              `json:"debts,omitempty"`
	Clauses          *MatrimonialClauses `json:"matrimonialAdvantages,omitempty"`
	ResidenceCountry string              `json:"residenceCountry,omitempty"`
}

// Residence returns the deceased's country of residence, defaulting to the modeled jurisdiction.
func (in SimulationInput) Residence() string {
	if in.ResidenceCountry == "" {
		return DefaultCountry
	}
	return in.ResidenceCountry
}

// Member looks up a family member by ID.
func (in SimulationInput) Member(id string) (FamilyMember, bool) {
	return lo.Find(in.Members, func(m FamilyMember) bool { return m.ID == id })
}

// Asset looks up an asset by ID.
func (in SimulationInput) Asset(id string) (Asset, bool) {
	return lo.Find(in.Assets, func(a Asset) bool { return a.ID == id })
}

// ValidationError reports malformed or inconsistent input. It is returned before any computation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid simulation input: " + strings.Join(e.Problems, "; ")
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate checks every structural invariant of the input.
func (in SimulationInput) Validate() error {
	var p problems

	if !in.Regime.Valid() {
		p.addf("unknown matrimonial regime %q", in.Regime)
	}
	if in.ValuationDate.IsZero() {
		p.addf("valuation date is required")
	}

	members := lo.KeyBy(in.Members, func(m FamilyMember) string { return m.ID })
	assets := lo.KeyBy(in.Assets, func(a Asset) string { return a.ID })
	if len(members) != len(in.Members) {
		p.addf("member IDs must be unique")
	}
	if len(assets) != len(in.Assets) {
		p.addf("asset IDs must be unique")
	}

	in.validateMembers(&p, members)
	for _, a := range in.Assets {
		validateAsset(&p, a, members)
	}
	in.validateDonations(&p, members)
	in.validateDebts(&p, assets)
	in.validateWishes(&p, members, assets)
	in.validateClauses(&p)

	if len(p) > 0 {
		return &ValidationError{Problems: p}
	}
	return nil
}

func (in SimulationInput) validateMembers(p *problems, members map[string]FamilyMember) {
	spouses := 0
	for _, m := range in.Members {
		if m.ID == "" {
			p.addf("member without ID")
		}
		if !m.Relationship.Valid() {
			p.addf("member %s: unknown relationship %q", m.ID, m.Relationship)
		}
		if m.Relationship.IsSpouse() {
			spouses++
			if m.BirthDate.IsZero() {
				p.addf("member %s: spouse birth date is required to value the usufruct", m.ID)
			}
		}
		switch m.Acceptance {
		case "", AcceptancePureSimple, AcceptanceNetAssetLimited, AcceptanceRenunciation:
		default:
			p.addf("member %s: unknown acceptance option %q", m.ID, m.Acceptance)
		}
		switch m.Adoption {
		case AdoptionNone, AdoptionFull, AdoptionSimple:
		default:
			p.addf("member %s: unknown adoption type %q", m.ID, m.Adoption)
		}
		switch m.Line {
		case LineUnknown, LinePaternal, LineMaternal:
		default:
			p.addf("member %s: unknown line %q", m.ID, m.Line)
		}
		if m.RepresentsID == "" {
			continue
		}
		if m.RepresentsID == m.ID {
			p.addf("member %s cannot represent itself", m.ID)
			continue
		}
		depth, cur := 0, m
		for cur.RepresentsID != "" {
			depth++
			if depth > maxRepresentationDepth {
				p.addf("member %s: representation chain is cyclic or deeper than %d", m.ID, maxRepresentationDepth)
				break
			}
			next, ok := members[cur.RepresentsID]
			if !ok {
				break
			}
			cur = next
		}
	}
	if spouses > 1 {
		p.addf("at most one spouse or partner is allowed, got %d", spouses)
	}
}

func validateAsset(p *problems, a Asset, members map[string]FamilyMember) {
	if a.ID == "" {
		p.addf("asset without ID")
	}
	if a.Value.IsNegative() || a.ShareholderLoan.IsNegative() {
		p.addf("asset %s: values must be non-negative", a.ID)
	}
	if !a.Ownership.Valid() {
		p.addf("asset %s: unknown ownership mode %q", a.ID, a.Ownership)
	}
	if !a.Origin.Valid() {
		p.addf("asset %s: unknown origin %q", a.ID, a.Origin)
	}
	if a.Kind != "" && !a.Kind.Valid() {
		p.addf("asset %s: unknown kind %q", a.ID, a.Kind)
	}

	switch a.Ownership {
	case OwnershipBare:
		if a.Dismemberment == nil || a.Dismemberment.UsufructuaryBirthDate == nil {
			p.addf("asset %s: bare ownership requires the usufructuary birth date", a.ID)
		}
	case OwnershipUsufruct, OwnershipFull, OwnershipIndivision:
	}
	if d := a.Dismemberment; d != nil {
		switch d.Kind {
		case "", UsufructLifetime:
		case UsufructTemporary:
			if d.DurationYears <= 0 {
				p.addf("asset %s: temporary usufruct requires a positive duration", a.ID)
			}
		default:
			p.addf("asset %s: unknown usufruct kind %q", a.ID, d.Kind)
		}
	}

	if pct := a.CommunityFundingPercent; pct != nil && !inPercentRange(*pct) {
		p.addf("asset %s: community funding percentage must be within 0-100", a.ID)
	}
	if i := a.Indivision; i != nil {
		if !inPercentRange(i.SpouseSharePercent) || !inPercentRange(i.OthersSharePercent) ||
			i.SpouseSharePercent.Add(i.OthersSharePercent).GreaterThan(hundred) {
			p.addf("asset %s: co-owner percentages must be within 0-100 and sum to at most 100", a.ID)
		}
	}

	if e := a.Exemption; e != nil {
		switch e.Kind {
		case ExemptionDutreil:
			if !e.DutreilCollective || !e.DutreilIndividual {
				p.addf("asset %s: Dutreil pact requires both collective and individual commitments", a.ID)
			}
		case ExemptionRuralLease:
			if e.LeaseDurationYears < 18 {
				p.addf("asset %s: rural lease must last at least 18 years", a.ID)
			}
		case ExemptionForestry:
		default:
			p.addf("asset %s: unknown exemption %q", a.ID, e.Kind)
		}
	}

	if a.ReceivedFromParentID != "" {
		if m, ok := members[a.ReceivedFromParentID]; !ok || m.Relationship != RelParent {
			p.addf("asset %s: donor %s is not a listed parent", a.ID, a.ReceivedFromParentID)
		}
	}

	if a.Kind == KindLifeInsurance && a.LifeInsurance == nil {
		p.addf("asset %s: life-insurance asset without contract details", a.ID)
	}
	if c := a.LifeInsurance; c != nil {
		validateContract(p, a.ID, *c, members)
	}
}

func validateContract(p *problems, assetID string, c LifeInsuranceContract, members map[string]FamilyMember) {
	if !c.Regime.Valid() {
		p.addf("contract %s: unknown regime %q", assetID, c.Regime)
	}
	if c.PremiumsBefore.IsNegative() || c.PremiumsAfter.IsNegative() {
		p.addf("contract %s: premiums must be non-negative", assetID)
	}
	if len(c.Beneficiaries) == 0 && c.Dismemberment == nil {
		p.addf("contract %s: no beneficiary designated", assetID)
	}
	total := decimal.Zero
	for _, b := range c.Beneficiaries {
		if _, ok := members[b.MemberID]; !ok {
			p.addf("contract %s: unknown beneficiary %s", assetID, b.MemberID)
		}
		if !b.SharePercent.IsPositive() || b.SharePercent.GreaterThan(hundred) {
			p.addf("contract %s: beneficiary %s share must be within (0, 100]", assetID, b.MemberID)
		}
		total = total.Add(b.SharePercent)
	}
	if total.GreaterThan(hundred) {
		p.addf("contract %s: beneficiary shares exceed 100%%", assetID)
	}
	if d := c.Dismemberment; d != nil {
		if len(c.Beneficiaries) > 0 {
			p.addf("contract %s: use either beneficiary shares or a dismembered designation", assetID)
		}
		u, ok := members[d.UsufructuaryID]
		if !ok {
			p.addf("contract %s: unknown usufructuary %s", assetID, d.UsufructuaryID)
		} else if u.BirthDate.IsZero() {
			p.addf("contract %s: usufructuary %s requires a birth date", assetID, d.UsufructuaryID)
		}
		if len(d.BareOwnerIDs) == 0 {
			p.addf("contract %s: dismembered designation requires bare owners", assetID)
		}
		for _, id := range d.BareOwnerIDs {
			if _, ok := members[id]; !ok {
				p.addf("contract %s: unknown bare owner %s", assetID, id)
			}
		}
	}
}

func (in SimulationInput) validateDonations(p *problems, members map[string]FamilyMember) {
	for _, d := range in.Donations {
		if !d.Kind.Valid() {
			p.addf("donation %s: unknown type %q", d.ID, d.Kind)
		}
		if _, ok := members[d.BeneficiaryID]; !ok {
			p.addf("donation %s: unknown beneficiary %s", d.ID, d.BeneficiaryID)
		}
		if d.OriginalValue.IsNegative() || (d.CurrentValue != nil && d.CurrentValue.IsNegative()) {
			p.addf("donation %s: values must be non-negative", d.ID)
		}
		if d.Date.IsZero() {
			p.addf("donation %s: date is required", d.ID)
		} else if !in.ValuationDate.IsZero() && d.Date.After(in.ValuationDate) {
			p.addf("donation %s: dated after the valuation date", d.ID)
		}
	}
}

func (in SimulationInput) validateDebts(p *problems, assets map[string]Asset) {
	for _, d := range in.Debts {
		if !d.Kind.Valid() {
			p.addf("debt %s: unknown type %q", d.ID, d.Kind)
		}
		if d.Amount.IsNegative() {
			p.addf("debt %s: amount must be non-negative", d.ID)
		}
		if d.LinkedAssetID != "" {
			if _, ok := assets[d.LinkedAssetID]; !ok {
				p.addf("debt %s: unknown linked asset %s", d.ID, d.LinkedAssetID)
			}
		}
	}
}

func (in SimulationInput) validateWishes(p *problems, members map[string]FamilyMember, assets map[string]Asset) {
	w := in.Wishes
	switch w.Distribution {
	case "", DistributionLegal, DistributionBequests, DistributionCustom:
	default:
		p.addf("unknown testament distribution %q", w.Distribution)
	}

	if e := w.SpouseElection; e != nil {
		if !e.Valid() {
			p.addf("unknown spouse election %q", *e)
		}
		if _, ok := FindSpouse(in.Members); !ok {
			p.addf("spouse election %s without a surviving spouse", *e)
		}
		if *e == ElectionDisposableQuota && !w.HasSpouseDonation {
			p.addf("disposable-quota election requires a gift between spouses")
		}
	}

	for _, b := range w.Bequests {
		if _, ok := assets[b.AssetID]; !ok {
			p.addf("bequest: unknown asset %s", b.AssetID)
		}
		if _, ok := members[b.BeneficiaryID]; !ok {
			p.addf("bequest of %s: unknown beneficiary %s", b.AssetID, b.BeneficiaryID)
		}
		if pct := b.Percent(); !pct.IsPositive() || pct.GreaterThan(hundred) {
			p.addf("bequest of %s: share must be within (0, 100]", b.AssetID)
		}
	}
	bequeathed := lo.GroupBy(w.Bequests, func(b Bequest) string { return b.AssetID })
	for _, assetID := range lo.Uniq(lo.Map(w.Bequests, func(b Bequest, _ int) string { return b.AssetID })) {
		if Sum(bequeathed[assetID], Bequest.Percent).GreaterThan(hundred) {
			p.addf("asset %s is bequeathed beyond 100%%", assetID)
		}
	}

	total := decimal.Zero
	for _, c := range w.CustomShares {
		if _, ok := members[c.BeneficiaryID]; !ok {
			p.addf("custom share: unknown beneficiary %s", c.BeneficiaryID)
		}
		if !inPercentRange(c.Percent) {
			p.addf("custom share of %s must be within 0-100", c.BeneficiaryID)
		}
		total = total.Add(c.Percent)
	}
	if total.GreaterThan(hundred) {
		p.addf("custom shares sum to %s%%, above 100%%", total)
	}
}

func (in SimulationInput) validateClauses(p *problems) {
	c := in.Clauses
	if c == nil {
		return
	}
	if pct := c.UnequalSpouseShare; pct != nil {
		if pct.LessThan(decimal.NewFromInt(51)) || pct.GreaterThan(decimal.NewFromInt(99)) {
			p.addf("unequal split spouse percentage must be within 51-99")
		}
	}
	if pc := c.Preciput; pc != nil {
		if len(pc.Kinds) == 0 && len(pc.AssetIDs) == 0 {
			p.addf("preciput clause designates no asset")
		}
		for _, k := range pc.Kinds {
			switch k {
			case PreciputMainResidence, PreciputSecondaryResidence, PreciputVehicle, PreciputFurniture, PreciputJointAccounts:
			default:
				p.addf("unknown preciput kind %q", k)
			}
		}
	}
}

func inPercentRange(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(hundred)
}
