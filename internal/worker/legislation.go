package worker

import (
	"context"
	"log/slog"
	"time"
)

// LegislationRefresher reloads the legislation tables from their source.
type LegislationRefresher interface {
	Refresh(ctx context.Context) error
}

// LegislationWorker periodically refreshes the cached legislation snapshot so that
// a newly activated year is picked up without a restart.
type LegislationWorker struct {
	refresher LegislationRefresher
	interval  time.Duration
}

// NewLegislationWorker creates a new LegislationWorker.
func NewLegislationWorker(refresher LegislationRefresher, interval time.Duration) *LegislationWorker {
	return &LegislationWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *LegislationWorker) Run(ctx context.Context) {
	slog.Info("LegislationWorker: starting")

	if err := w.refresher.Refresh(ctx); err != nil {
		slog.Error("LegislationWorker: initial refresh failed", "error", err)
	} else {
		slog.Info("LegislationWorker: initial refresh completed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("LegislationWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.refresher.Refresh(ctx); err != nil {
				slog.Error("LegislationWorker: refresh failed", "error", err)
			}
		}
	}
}
