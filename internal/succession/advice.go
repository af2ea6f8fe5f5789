package succession

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mtlprog/succession/internal/domain"
)

// advise adds planning advisories once every heir has been taxed.
func (r *run) advise(heirs []domain.HeirBreakdown) {
	if _, ok := domain.FindSpouse(r.in.Members); ok && r.devolution.Family.HasDescendants && !r.in.Wishes.HasSpouseDonation {
		r.alerts.Optimization("A gift between spouses would widen the surviving spouse's options",
			"It opens the choice of the disposable quota in full ownership alongside the usufruct and the quarter.")
	}

	for _, h := range heirs {
		d := h.TaxDetail
		if d == nil || d.Exempt {
			continue
		}
		if unused := d.Allowance.Sub(h.TaxableBase); unused.IsPositive() && h.Tax.IsZero() {
			r.alerts.Optimization(fmt.Sprintf("%s leaves %s of allowance unused", h.Name, domain.FormatMoney(unused)),
				"Lifetime gifts could use the remaining allowance, renewed every 15 years.")
		}
	}

	if !r.estate.Insolvent {
		return
	}
	exposed := lo.FilterMap(heirs, func(h domain.HeirBreakdown, _ int) (string, bool) {
		m, _ := r.in.Member(h.ID)
		return h.Name, acceptsPurely(m)
	})
	if len(exposed) == 0 {
		r.alerts.LegalInfo("The estate is insolvent",
			"Debts exceed the assets; acceptance up to the net assets limits the heirs' liability.")
		return
	}
	r.alerts.Critical("Insolvent estate accepted purely and simply",
		fmt.Sprintf("%s would answer for the estate debts on their own property; consider acceptance up to the net assets or renunciation.",
			strings.Join(exposed, ", ")))
}

// acceptsPurely reports whether the member accepts without limiting liability, the default option.
func acceptsPurely(m domain.FamilyMember) bool {
	switch m.Acceptance {
	case "", domain.AcceptancePureSimple:
		return true
	case domain.AcceptanceNetAssetLimited, domain.AcceptanceRenunciation:
		return false
	}
	return false
}
