package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

// Calculator settles an estate.
type Calculator interface {
	Calculate(ctx context.Context, in domain.SimulationInput) (domain.SuccessionOutput, error)
}

// Service manages stored scenarios and replays them against the current legislation.
type Service struct {
	repo  Repository
	calc  Calculator
	now   func() time.Time
	newID func() uuid.UUID
}

// NewService creates a new scenario Service.
func NewService(repo Repository, calc Calculator) *Service {
	return &Service{repo: repo, calc: calc, now: time.Now, newID: uuid.New}
}

// Create validates and stores a new scenario.
func (s *Service) Create(ctx context.Context, name, description string, in domain.SimulationInput, expectedTax, expectedEstate *decimal.Decimal) (Scenario, error) {
	if name == "" {
		return Scenario{}, &domain.ValidationError{Problems: []string{"scenario name is required"}}
	}
	if err := in.Validate(); err != nil {
		return Scenario{}, err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return Scenario{}, fmt.Errorf("marshaling scenario input: %w", err)
	}

	sc := Scenario{
		ID:             s.newID(),
		Name:           name,
		Description:    description,
		Input:          data,
		ExpectedTax:    expectedTax,
		ExpectedEstate: expectedEstate,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Get retrieves a scenario by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Scenario, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves the most recent scenarios.
func (s *Service) List(ctx context.Context, limit int) ([]Scenario, error) {
	return s.repo.List(ctx, limit)
}

// Runs retrieves the latest runs of a scenario.
func (s *Service) Runs(ctx context.Context, id uuid.UUID, limit int) ([]Run, error) {
	return s.repo.LatestRuns(ctx, id, limit)
}

// Run replays one scenario, compares it with its expected totals and stores the run.
func (s *Service) Run(ctx context.Context, id uuid.UUID) (Run, error) {
	sc, err := s.repo.Get(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return s.replay(ctx, *sc)
}

// RunAll replays every stored scenario. A scenario that cannot be replayed
// is recorded as a failed run carrying the error.
func (s *Service) RunAll(ctx context.Context) ([]Run, error) {
	scenarios, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}

	runs := make([]Run, 0, len(scenarios))
	for _, sc := range scenarios {
		run, err := s.replay(ctx, sc)
		if err != nil {
			slog.Warn("scenario replay failed", "scenario", sc.ID, "name", sc.Name, "error", err)
			run = s.failedRun(ctx, sc, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *Service) failedRun(ctx context.Context, sc Scenario, cause error) Run {
	run := Run{
		ScenarioID:   sc.ID,
		ScenarioName: sc.Name,
		Mismatches:   []string{"replay failed: " + cause.Error()},
		RanAt:        s.now().UTC(),
	}
	data, err := json.Marshal(map[string]string{"error": cause.Error()})
	if err == nil {
		run.Output = data
	}
	if run.ID, err = s.repo.SaveRun(ctx, run); err != nil {
		slog.Warn("saving failed scenario run", "scenario", sc.ID, "error", err)
	}
	return run
}

func (s *Service) replay(ctx context.Context, sc Scenario) (Run, error) {
	var in domain.SimulationInput
	if err := json.Unmarshal(sc.Input, &in); err != nil {
		return Run{}, fmt.Errorf("decoding scenario %s: %w", sc.ID, err)
	}

	out, err := s.calc.Calculate(ctx, in)
	if err != nil {
		return Run{}, fmt.Errorf("calculating scenario %s: %w", sc.ID, err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return Run{}, fmt.Errorf("marshaling scenario output: %w", err)
	}

	run := Run{
		ScenarioID:      sc.ID,
		ScenarioName:    sc.Name,
		LegislationYear: out.LegislationYear,
		TotalTax:        out.Metrics.TotalTax,
		TotalEstate:     out.Metrics.TotalEstateValue,
		Mismatches:      compare(sc, out),
		Output:          data,
		RanAt:           s.now().UTC(),
	}
	run.Passed = len(run.Mismatches) == 0

	if run.ID, err = s.repo.SaveRun(ctx, run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// compare lists the expected totals the output does not reproduce.
func compare(sc Scenario, out domain.SuccessionOutput) []string {
	var mismatches []string
	if want := sc.ExpectedTax; want != nil && !domain.Money(*want).Equal(out.Metrics.TotalTax) {
		mismatches = append(mismatches, fmt.Sprintf("total tax %s, expected %s", out.Metrics.TotalTax, want))
	}
	if want := sc.ExpectedEstate; want != nil && !domain.Money(*want).Equal(out.Metrics.TotalEstateValue) {
		mismatches = append(mismatches, fmt.Sprintf("total estate %s, expected %s", out.Metrics.TotalEstateValue, want))
	}
	return mismatches
}
