// Package export renders calculation results as spreadsheets: an XLSX report per
// calculation and a Google Sheets dashboard of scenario replays.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/scenario"
)

// RunRow holds a scenario run with the change since the previous run.
type RunRow struct {
	scenario.Run
	PreviousTax *decimal.Decimal
	TaxChange   *decimal.Decimal
}

// SheetWriter writes scenario runs to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, rows []RunRow) error
	AppendMonitoring(ctx context.Context, rows []RunRow, at time.Time) error
}

// RunHistory provides the stored runs of a scenario, most recent first.
type RunHistory interface {
	LatestRuns(ctx context.Context, id uuid.UUID, limit int) ([]scenario.Run, error)
}

// Service compares runs with their history and delegates writing to a SheetWriter.
type Service struct {
	history RunHistory
	writer  SheetWriter
	now     func() time.Time
}

// NewService creates a new export Service.
func NewService(history RunHistory, writer SheetWriter) *Service {
	return &Service{
		history: history,
		writer:  writer,
		now:     time.Now,
	}
}

// Export writes the runs with their tax drift and appends a monitoring row.
// Implements worker.AfterReplayHook.
func (s *Service) Export(ctx context.Context, runs []scenario.Run) error {
	rows := make([]RunRow, 0, len(runs))
	for _, run := range runs {
		row := RunRow{Run: run}
		if prev := s.previous(ctx, run); prev != nil {
			row.PreviousTax = &prev.TotalTax
			row.TaxChange = computeChange(run.TotalTax, prev.TotalTax)
		}
		rows = append(rows, row)
	}

	if err := s.writer.Write(ctx, rows); err != nil {
		return fmt.Errorf("writing scenario runs: %w", err)
	}
	if err := s.writer.AppendMonitoring(ctx, rows, s.now()); err != nil {
		return fmt.Errorf("appending monitoring row: %w", err)
	}
	return nil
}

// previous returns the run stored before run, or nil when there is none.
func (s *Service) previous(ctx context.Context, run scenario.Run) *scenario.Run {
	history, err := s.history.LatestRuns(ctx, run.ScenarioID, 2)
	if err != nil {
		slog.Warn("export: run history unavailable", "scenario", run.ScenarioID, "error", err)
		return nil
	}
	for i := range history {
		if history[i].ID != run.ID {
			return &history[i]
		}
	}
	return nil
}

// computeChange returns (current - previous) / previous, or nil if previous is zero.
func computeChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	pct := current.Sub(previous).Div(previous)
	return &pct
}
