package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/succession/internal/scenario"
)

// ScenarioReplayer replays every stored scenario against the current legislation.
type ScenarioReplayer interface {
	RunAll(ctx context.Context) ([]scenario.Run, error)
}

// AfterReplayHook is called after each successful replay.
type AfterReplayHook interface {
	Export(ctx context.Context, runs []scenario.Run) error
}

// ScenarioWorker periodically replays the stored scenarios.
type ScenarioWorker struct {
	replayer ScenarioReplayer
	interval time.Duration
	hook     AfterReplayHook // optional
}

// NewScenarioWorker creates a new ScenarioWorker with an optional post-replay hook.
func NewScenarioWorker(replayer ScenarioReplayer, interval time.Duration, hook AfterReplayHook) *ScenarioWorker {
	return &ScenarioWorker{
		replayer: replayer,
		interval: interval,
		hook:     hook,
	}
}

// runHook calls the post-replay hook if one is configured.
func (w *ScenarioWorker) runHook(ctx context.Context, runs []scenario.Run) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, runs); err != nil {
		slog.Error("ScenarioWorker: export hook failed", "error", err)
	} else {
		slog.Info("ScenarioWorker: export hook completed")
	}
}

func (w *ScenarioWorker) replay(ctx context.Context, label string) {
	runs, err := w.replayer.RunAll(ctx)
	if err != nil {
		slog.Error("ScenarioWorker: "+label+" failed", "error", err)
		return
	}
	failed := lo.CountBy(runs, func(r scenario.Run) bool { return !r.Passed })
	slog.Info("ScenarioWorker: "+label+" completed", "scenarios", len(runs), "failed", failed)
	w.runHook(ctx, runs)
}

// Run starts the replay loop. It blocks until the context is cancelled.
func (w *ScenarioWorker) Run(ctx context.Context) {
	slog.Info("ScenarioWorker: starting")

	// Replay immediately on startup
	w.replay(ctx, "initial replay")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ScenarioWorker: shutting down")
			return
		case <-ticker.C:
			w.replay(ctx, "replay")
		}
	}
}
