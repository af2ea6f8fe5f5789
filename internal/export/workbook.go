package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/succession/internal/domain"
)

const (
	SheetSummary  = "Summary"
	SheetHeirs    = "Heirs"
	SheetBrackets = "Brackets"
	SheetAlerts   = "Alerts"
	SheetSteps    = "Steps"
)

// Workbook renders a calculation result as an XLSX report.
// The caller must Close the returned file.
func Workbook(out domain.SuccessionOutput) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9EAD3"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summaryRows(out)},
		{SheetHeirs, heirRows(out.Heirs)},
		{SheetBrackets, bracketRows(out.Heirs)},
		{SheetAlerts, alertRows(out.Alerts)},
		{SheetSteps, stepRows(out.Steps)},
	}

	for _, s := range sheets {
		if s.name != SheetSummary {
			if _, err := f.NewSheet(s.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("creating sheet %s: %w", s.name, err)
			}
		}
		if err := writeRows(f, s.name, s.rows, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 22)
}

// summaryRows lists the global metrics as label/value pairs.
func summaryRows(out domain.SuccessionOutput) [][]any {
	m := out.Metrics
	return [][]any{
		{"Metric", "Value"},
		{"Legislation year", out.LegislationYear},
		{"Gross estate", toFloat(m.GrossEstate)},
		{"Net estate", toFloat(m.TotalEstateValue)},
		{"Fictitious reunion", toFloat(m.FictitiousReunion)},
		{"Reserve fraction", toFloat(m.ReserveFraction)},
		{"Legal reserve", toFloat(m.LegalReserveValue)},
		{"Disposable quota", toFloat(m.DisposableQuotaValue)},
		{"Inheritance tax", toFloat(m.TotalTax)},
		{"Life insurance tax", toFloat(m.TotalLifeInsuranceTax)},
		{"Heirs", len(out.Heirs)},
		{"Alerts", len(out.Alerts)},
	}
}

func heirRows(heirs []domain.HeirBreakdown) [][]any {
	rows := [][]any{{
		"ID", "Name", "Relationship", "Share %", "Gross share", "Donations",
		"Bequests", "Exempt", "Life insurance", "Taxable", "Allowance", "Tax", "Net share",
	}}
	for _, h := range heirs {
		rows = append(rows, []any{
			h.ID, h.Name, string(h.Relationship),
			toFloat(h.SharePercent),
			toFloat(h.GrossShare),
			toFloat(h.ImputedDonations),
			toFloat(h.Bequests),
			toFloat(h.ExemptAmount),
			toFloat(h.ReintegratedLifeInsurance),
			toFloat(h.TaxableBase),
			toFloat(h.Allowance),
			toFloat(h.Tax),
			toFloat(h.NetShare),
		})
	}
	return rows
}

// bracketRows flattens every heir's progressive brackets. Exempt heirs have none.
func bracketRows(heirs []domain.HeirBreakdown) [][]any {
	rows := [][]any{{"Heir", "Category", "From", "To", "Rate", "Taxable", "Tax"}}
	for _, h := range heirs {
		if h.TaxDetail == nil {
			continue
		}
		for _, b := range h.TaxDetail.Brackets {
			rows = append(rows, []any{
				h.ID, h.TaxDetail.Category,
				toFloat(b.Min), ptrFloat(b.Max),
				toFloat(b.Rate), toFloat(b.Taxable), toFloat(b.Tax),
			})
		}
	}
	return rows
}

func alertRows(alerts []domain.Alert) [][]any {
	rows := [][]any{{"Severity", "Audience", "Category", "Message", "Details"}}
	for _, a := range alerts {
		rows = append(rows, []any{string(a.Severity), string(a.Audience), string(a.Category), a.Message, a.Details})
	}
	return rows
}

// stepRows writes one line per trace step, then one indented line per decision.
func stepRows(steps []domain.TraceStep) [][]any {
	rows := [][]any{{"Step", "Name", "Summary", "Outputs"}}
	for _, s := range steps {
		outputs := make([]string, 0, len(s.Outputs))
		for _, o := range s.Outputs {
			outputs = append(outputs, o.Key+": "+o.Value)
		}
		rows = append(rows, []any{s.Number, s.Name, s.Summary, strings.Join(outputs, "; ")})
		for _, d := range s.Decisions {
			rows = append(rows, []any{"", string(d.Kind), d.Description, d.Reason})
		}
	}
	return rows
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func ptrFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}
