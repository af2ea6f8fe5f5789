package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/succession/internal/domain"
)

func sampleOutput() domain.SuccessionOutput {
	limit := decimal.NewFromInt(8072)
	return domain.SuccessionOutput{
		LegislationYear: 2024,
		Metrics: domain.GlobalMetrics{
			GrossEstate:      decimal.NewFromInt(600000),
			TotalEstateValue: decimal.NewFromInt(600000),
			TotalTax:         decimal.RequireFromString("36388.70"),
		},
		Heirs: []domain.HeirBreakdown{
			{
				ID: "c1", Name: "Alice", Relationship: domain.RelChild,
				GrossShare: decimal.NewFromInt(300000), Tax: decimal.RequireFromString("38194.35"),
				TaxDetail: &domain.TaxDetail{
					Category: "DIRECT_LINE",
					Brackets: []domain.BracketDetail{
						{Min: decimal.Zero, Max: &limit, Rate: decimal.RequireFromString("0.05"), Taxable: limit, Tax: decimal.RequireFromString("403.60")},
						{Min: limit, Rate: decimal.RequireFromString("0.20"), Taxable: decimal.NewFromInt(1000), Tax: decimal.NewFromInt(200)},
					},
				},
			},
			{ID: "s", Name: "Bob", Relationship: domain.RelSpouse},
		},
		Alerts: []domain.Alert{
			{Severity: domain.SeverityInfo, Audience: domain.AudienceUser, Category: domain.CategoryFiscal, Message: "note"},
		},
		Steps: []domain.TraceStep{
			{
				Number: 1, Name: "Matrimonial liquidation", Summary: "Gross estate: 600000.00 EUR",
				Outputs:   []domain.TraceValue{{Key: "gross estate", Value: "600000.00 EUR"}},
				Decisions: []domain.Decision{{Kind: domain.DecisionIncluded, Description: "house", Reason: "personal"}},
			},
		},
	}
}

func TestWorkbookSheets(t *testing.T) {
	f, err := Workbook(sampleOutput())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer f.Close()

	want := []string{SheetSummary, SheetHeirs, SheetBrackets, SheetAlerts, SheetSteps}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	counts := map[string]int{
		SheetHeirs:    3, // header + 2 heirs
		SheetBrackets: 3, // header + 2 brackets of the taxed heir
		SheetAlerts:   2,
		SheetSteps:    3, // header + step + decision
	}
	for sheet, n := range counts {
		rows, err := f.GetRows(sheet)
		if err != nil {
			t.Fatalf("GetRows(%s): %v", sheet, err)
		}
		if len(rows) != n {
			t.Errorf("%s rows = %d, want %d", sheet, len(rows), n)
		}
	}
}

func TestWorkbookCells(t *testing.T) {
	f, err := Workbook(sampleOutput())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer f.Close()

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{SheetSummary, "A1", "Metric"},
		{SheetSummary, "B2", "2024"},
		{SheetSummary, "B9", "36388.7"},
		{SheetHeirs, "B2", "Alice"},
		{SheetHeirs, "C2", "CHILD"},
		{SheetHeirs, "L2", "38194.35"},
		{SheetBrackets, "A2", "c1"},
		{SheetBrackets, "D2", "8072"},
		{SheetBrackets, "D3", ""},
		{SheetSteps, "D2", "gross estate: 600000.00 EUR"},
		{SheetSteps, "B3", "INCLUDED"},
	}

	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(tt.sheet, tt.cell)
			if err != nil {
				t.Fatalf("GetCellValue: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkbookRoundTripsThroughBytes(t *testing.T) {
	f, err := Workbook(sampleOutput())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	reopened, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reopened.Close()

	v, err := reopened.GetCellValue(SheetHeirs, "A3")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "s" {
		t.Errorf("A3 = %q, want s", v)
	}
}
