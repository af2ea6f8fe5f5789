package diagnostics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

// Tracer records the audit trail of the pipeline, one step per stage.
type Tracer struct {
	steps   []domain.TraceStep
	current *domain.TraceStep
}

func NewTracer() *Tracer {
	return &Tracer{}
}

// Start opens a new step. An unfinished previous step is closed without summary.
func (t *Tracer) Start(name, description string) {
	if t.current != nil {
		t.End("")
	}
	t.current = &domain.TraceStep{
		Number:      len(t.steps) + 1,
		Name:        name,
		Description: description,
	}
}

// Input records a value consumed by the current step.
func (t *Tracer) Input(key string, value any) {
	if t.current == nil {
		return
	}
	t.current.Inputs = append(t.current.Inputs, domain.TraceValue{Key: key, Value: format(value)})
}

// Output records a value produced by the current step.
func (t *Tracer) Output(key string, value any) {
	if t.current == nil {
		return
	}
	t.current.Outputs = append(t.current.Outputs, domain.TraceValue{Key: key, Value: format(value)})
}

// Decide records a rule applied in the current step.
func (t *Tracer) Decide(kind domain.DecisionKind, description, reason string) {
	if t.current == nil {
		return
	}
	t.current.Decisions = append(t.current.Decisions, domain.Decision{
		Kind:        kind,
		Description: description,
		Reason:      reason,
	})
}

// End closes the current step with a result summary.
func (t *Tracer) End(summary string) {
	if t.current == nil {
		return
	}
	t.current.Summary = summary
	t.steps = append(t.steps, *t.current)
	t.current = nil
}

// Steps returns the closed steps in order.
func (t *Tracer) Steps() []domain.TraceStep {
	out := make([]domain.TraceStep, len(t.steps))
	copy(out, t.steps)
	return out
}

func format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case decimal.Decimal:
		return domain.FormatMoney(v)
	case domain.Fraction:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
