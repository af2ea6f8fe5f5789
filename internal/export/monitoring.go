package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	sheets "google.golang.org/api/sheets/v4"
)

// monitoringCol describes one column of the MONITORING sheet and how a batch of runs fills it.
type monitoringCol struct {
	header string
	value  func(rows []RunRow) any
}

// monitoringColumns defines the data columns (B onwards) in order.
// Column A (Date) is prepended separately in buildMonitoringRows.
var monitoringColumns = []monitoringCol{
	{header: "Scenarios", value: func(rows []RunRow) any { return float64(len(rows)) }},
	{header: "Passed", value: func(rows []RunRow) any {
		return float64(lo.CountBy(rows, func(r RunRow) bool { return r.Passed }))
	}},
	{header: "Failed", value: func(rows []RunRow) any {
		return float64(lo.CountBy(rows, func(r RunRow) bool { return !r.Passed }))
	}},
	{header: "Legislation year", value: func(rows []RunRow) any {
		if len(rows) == 0 {
			return nil
		}
		return float64(lo.MaxBy(rows, func(a, b RunRow) bool { return a.LegislationYear > b.LegislationYear }).LegislationYear)
	}},
	{header: "Total tax", value: func(rows []RunRow) any {
		return toFloat(sumBy(rows, func(r RunRow) decimal.Decimal { return r.TotalTax }))
	}},
	{header: "Total estate", value: func(rows []RunRow) any {
		return toFloat(sumBy(rows, func(r RunRow) decimal.Decimal { return r.TotalEstate }))
	}},
	{header: "Changed", value: func(rows []RunRow) any {
		return float64(lo.CountBy(rows, func(r RunRow) bool { return r.TaxChange != nil && !r.TaxChange.IsZero() }))
	}},
	{header: "Largest change", value: func(rows []RunRow) any {
		changes := lo.FilterMap(rows, func(r RunRow, _ int) (decimal.Decimal, bool) {
			if r.TaxChange == nil {
				return decimal.Zero, false
			}
			return r.TaxChange.Abs(), true
		})
		if len(changes) == 0 {
			return nil
		}
		return toFloat(decimal.Max(changes[0], changes[1:]...))
	}},
}

func sumBy(rows []RunRow, value func(RunRow) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(value(r))
	}
	return total
}

// buildMonitoringRows builds header rows and a single data row for the MONITORING sheet.
func buildMonitoringRows(rows []RunRow, at time.Time) (headerRows [][]any, dataRow []any) {
	// Row 1: column numbers (A is blank)
	colNums := make([]any, 1+len(monitoringColumns))
	colNums[0] = ""
	for i := range monitoringColumns {
		colNums[i+1] = float64(i + 1)
	}

	// Row 2: header names
	headers := make([]any, 1+len(monitoringColumns))
	headers[0] = "Date"
	for i, col := range monitoringColumns {
		headers[i+1] = col.header
	}

	headerRows = [][]any{colNums, headers}

	data := make([]any, 1+len(monitoringColumns))
	data[0] = at.UTC().Format("02.01.2006")
	for i, col := range monitoringColumns {
		data[i+1] = col.value(rows)
	}

	return headerRows, data
}

// AppendMonitoring ensures the MONITORING sheet exists, writes header rows if the sheet
// is new or empty, then appends one data row for the current replay.
func (w *SheetsWriter) AppendMonitoring(ctx context.Context, rows []RunRow, at time.Time) error {
	meta, err := w.ensureSheets(ctx, monitoringSheet)
	if err != nil {
		return fmt.Errorf("ensuring MONITORING sheet: %w", err)
	}

	headerRows, dataRow := buildMonitoringRows(rows, at)
	lastCol, err := excelize.ColumnNumberToName(len(dataRow))
	if err != nil {
		return err
	}

	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, monitoringSheet+"!A1:A2",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading MONITORING headers: %w", err)
	}

	if len(existing.Values) < 2 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			monitoringSheet+"!A1",
			&sheets.ValueRange{Values: headerRows},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing MONITORING headers: %w", err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		monitoringSheet+"!A:"+lastCol,
		&sheets.ValueRange{Values: [][]any{dataRow}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending MONITORING row: %w", err)
	}

	if err := w.applyMonitoringFormatting(ctx, meta[monitoringSheet], int64(len(dataRow))); err != nil {
		return fmt.Errorf("formatting MONITORING sheet: %w", err)
	}

	return nil
}

// applyMonitoringFormatting gives the header rows a light-green background,
// freezes the date column and the headers, and formats amounts as #,##0.
func (w *SheetsWriter) applyMonitoringFormatting(ctx context.Context, mon sheetMeta, totalCols int64) error {
	lightGreen := &sheets.Color{Red: 0.851, Green: 0.918, Blue: 0.827}

	reqs := []*sheets.Request{
		cellFormatReq(mon.id, 0, 2, 0, totalCols,
			&sheets.CellFormat{
				BackgroundColor:     lightGreen,
				TextFormat:          &sheets.TextFormat{Bold: true, FontSize: 9},
				HorizontalAlignment: "CENTER",
			},
			"userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)"),
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: mon.id,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    2,
						FrozenColumnCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		},
		cellFormatReq(mon.id, 2, 10000, 0, 1,
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "DATE", Pattern: "d.m.yyyy"}},
			"userEnteredFormat.numberFormat"),
	}

	// Total tax and total estate
	for _, col := range []int64{5, 6} {
		reqs = append(reqs, cellFormatReq(mon.id, 2, 10000, col, col+1,
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: "#,##0"}},
			"userEnteredFormat.numberFormat"))
	}
	reqs = append(reqs, cellFormatReq(mon.id, 2, 10000, totalCols-1, totalCols,
		&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "PERCENT", Pattern: "0.00%"}},
		"userEnteredFormat.numberFormat"))

	_, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs},
	).Context(ctx).Do()
	return err
}

func cellFormatReq(sheetID, startRow, endRow, startCol, endCol int64, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}
