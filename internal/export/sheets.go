package export

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

const (
	scenariosSheet  = "SCENARIOS"
	monitoringSheet = "MONITORING"
)

// SheetsWriter implements SheetWriter using the Google Sheets API.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the SCENARIOS sheet exists, then clears and rewrites it.
func (w *SheetsWriter) Write(ctx context.Context, rows []RunRow) error {
	if _, err := w.ensureSheets(ctx, scenariosSheet); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.Clear(
		w.spreadsheetID,
		scenariosSheet+"!A:J",
		&sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: scenariosSheet + "!A1", Values: buildScenarioRows(rows)},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	return nil
}

// buildScenarioRows builds the SCENARIOS sheet data.
// Columns: Scenario | ID | Year | Total tax | Previous tax | Change | Total estate | Passed | Mismatches | Ran at
func buildScenarioRows(rows []RunRow) [][]any {
	data := make([][]any, 0, len(rows)+1)
	data = append(data, []any{
		"Scenario", "ID", "Year", "Total tax", "Previous tax",
		"Change", "Total estate", "Passed", "Mismatches", "Ran at",
	})

	for _, row := range rows {
		passed := 0
		if row.Passed {
			passed = 1
		}
		data = append(data, []any{
			row.ScenarioName,
			row.ScenarioID.String(),
			row.LegislationYear,
			toFloat(row.TotalTax),
			ptrFloat(row.PreviousTax),
			ptrFloat(row.TaxChange),
			toFloat(row.TotalEstate),
			passed,
			strings.Join(row.Mismatches, "; "),
			row.RanAt.UTC().Format("2006-01-02 15:04"),
		})
	}

	return data
}

// sheetMeta identifies an existing sheet within the spreadsheet.
type sheetMeta struct {
	id int64
}

// ensureSheets creates any of the named sheets that do not already exist
// and returns the metadata of all requested sheets.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) (map[string]sheetMeta, error) {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	meta := make(map[string]sheetMeta, len(names))
	for _, s := range spreadsheet.Sheets {
		meta[s.Properties.Title] = sheetMeta{id: s.Properties.SheetId}
	}

	var requests []*sheets.Request
	for _, name := range names {
		if _, ok := meta[name]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return meta, nil
	}

	resp, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("creating sheets: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			p := reply.AddSheet.Properties
			meta[p.Title] = sheetMeta{id: p.SheetId}
		}
	}

	return meta, nil
}
