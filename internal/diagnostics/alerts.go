// Package diagnostics collects the alerts and the audit trail of a calculation.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

// Alerts accumulates diagnostics in emission order. It is owned by a single calculation.
type Alerts struct {
	items []domain.Alert
}

// NewAlerts creates an empty collector.
func NewAlerts() *Alerts {
	return &Alerts{}
}

// Add appends an alert.
func (a *Alerts) Add(alert domain.Alert) {
	a.items = append(a.items, alert)
}

// Legal records a civil-law warning.
func (a *Alerts) Legal(audience domain.Audience, message, details string) {
	a.Add(domain.Alert{
		Severity: domain.SeverityWarning,
		Audience: audience,
		Category: domain.CategoryLegal,
		Message:  message,
		Details:  details,
	})
}

// LegalInfo records an informational civil-law note.
func (a *Alerts) LegalInfo(message, details string) {
	a.Add(domain.Alert{
		Severity: domain.SeverityInfo,
		Audience: domain.AudienceUser,
		Category: domain.CategoryLegal,
		Message:  message,
		Details:  details,
	})
}

// Fiscal records an informational tax note.
func (a *Alerts) Fiscal(message, details string) {
	a.Add(domain.Alert{
		Severity: domain.SeverityInfo,
		Audience: domain.AudienceUser,
		Category: domain.CategoryFiscal,
		Message:  message,
		Details:  details,
	})
}

// Data records a data-quality warning for the notary.
func (a *Alerts) Data(format string, args ...any) {
	a.Add(domain.Alert{
		Severity: domain.SeverityWarning,
		Audience: domain.AudienceNotary,
		Category: domain.CategoryData,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Critical records a blocking legal risk.
func (a *Alerts) Critical(message, details string) {
	a.Add(domain.Alert{
		Severity: domain.SeverityCritical,
		Audience: domain.AudienceUser,
		Category: domain.CategoryLegal,
		Message:  message,
		Details:  details,
	})
}

// Optimization records an advisory for reducing the tax burden.
func (a *Alerts) Optimization(message, details string) {
	a.Add(domain.Alert{
		Severity: domain.SeverityInfo,
		Audience: domain.AudienceUser,
		Category: domain.CategoryOptimization,
		Message:  message,
		Details:  details,
	})
}

// Len returns the number of collected alerts.
func (a *Alerts) Len() int {
	return len(a.items)
}

// List returns a copy of the collected alerts.
func (a *Alerts) List() []domain.Alert {
	out := make([]domain.Alert, len(a.items))
	copy(out, a.items)
	return out
}

// International flags a foreign residence and every asset located abroad.
func (a *Alerts) International(in domain.SimulationInput) {
	if country := in.Residence(); country != domain.DefaultCountry {
		a.Legal(domain.AudienceNotary,
			fmt.Sprintf("The deceased resided abroad (%s)", country),
			"The applicable succession law may be that of the residence (EU Regulation 650/2012) unless a choice of law was made.")
	}
	for _, asset := range in.Assets {
		if country := asset.Country(); country != domain.DefaultCountry {
			a.Add(domain.Alert{
				Severity: domain.SeverityInfo,
				Audience: domain.AudienceNotary,
				Category: domain.CategoryFiscal,
				Message:  fmt.Sprintf("Asset %s is located abroad (%s)", asset.Label(), country),
				Details:  "Check the bilateral tax treaty for double taxation.",
			})
		}
	}
}

// DateConsistency flags acquisition dates that contradict the declared origin under a community regime.
func (a *Alerts) DateConsistency(in domain.SimulationInput) {
	if !in.Regime.AllowsCommunity() || in.MarriageDate == nil {
		return
	}
	married := *in.MarriageDate
	for _, asset := range in.Assets {
		if asset.AcquisitionDate == nil {
			continue
		}
		acquired := *asset.AcquisitionDate
		switch asset.Origin {
		case domain.OriginCommunity:
			if acquired.Before(married) {
				a.Data("Asset %s is declared community property but was acquired on %s, before the marriage on %s",
					asset.Label(), acquired, married)
			}
		case domain.OriginPersonal:
			if !acquired.Before(married) {
				a.Data("Asset %s is declared personal property but was acquired on %s, during the marriage",
					asset.Label(), acquired)
			}
		case domain.OriginInheritance, domain.OriginIndivision:
		}
	}
}

// Excluded records that a class of relatives is excluded by a closer order of heirs.
func (a *Alerts) Excluded(members []domain.FamilyMember, by string) {
	if len(members) == 0 {
		return
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Label())
	}
	a.LegalInfo(fmt.Sprintf("%d relative(s) excluded by %s", len(members), by), fmt.Sprint(names))
}

// ReserveBreach reports liberalities reduced because they exceed the disposable quota.
func (a *Alerts) ReserveBreach(excess decimal.Decimal, records []domain.ReductionRecord) {
	var reduced []string
	for _, r := range records {
		if r.Reduction.IsPositive() {
			reduced = append(reduced, fmt.Sprintf("%s %s -%s", strings.ToLower(string(r.Kind)), r.ID, domain.FormatMoney(r.Reduction)))
		}
	}
	a.Legal(domain.AudienceNotary,
		"Liberalities exceed the disposable quota by "+domain.FormatMoney(excess),
		"Reduced: "+strings.Join(reduced, "; "))
}
