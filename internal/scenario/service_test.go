package scenario

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

type mockCalculator struct {
	out   domain.SuccessionOutput
	err   error
	calls int
	last  domain.SimulationInput
}

func (m *mockCalculator) Calculate(_ context.Context, in domain.SimulationInput) (domain.SuccessionOutput, error) {
	m.calls++
	m.last = in
	return m.out, m.err
}

type mockRepo struct {
	created  []Scenario
	scenario *Scenario
	getErr   error
	list     []Scenario
	listErr  error
	runs     []Run
	saveErr  error
}

func (m *mockRepo) Create(_ context.Context, s Scenario) error {
	m.created = append(m.created, s)
	return nil
}

func (m *mockRepo) Get(_ context.Context, _ uuid.UUID) (*Scenario, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.scenario, nil
}

func (m *mockRepo) List(_ context.Context, _ int) ([]Scenario, error) {
	return m.list, m.listErr
}

func (m *mockRepo) SaveRun(_ context.Context, run Run) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), nil
}

func (m *mockRepo) LatestRuns(_ context.Context, _ uuid.UUID, _ int) ([]Run, error) {
	return m.runs, nil
}

func validInput() domain.SimulationInput {
	return domain.SimulationInput{
		Regime:        domain.RegimeSeparation,
		ValuationDate: domain.NewDate(2024, time.June, 1),
		Assets: []domain.Asset{{
			ID: "house", Value: decimal.NewFromInt(300_000),
			Ownership: domain.OwnershipFull, Origin: domain.OriginPersonal,
		}},
		Members: []domain.FamilyMember{{ID: "c1", Relationship: domain.RelChild}},
	}
}

func storedScenario(t *testing.T, expectedTax string) Scenario {
	t.Helper()
	data, err := json.Marshal(validInput())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sc := Scenario{ID: uuid.New(), Name: "one child", Input: data}
	if expectedTax != "" {
		sc.ExpectedTax = ptr(decimal.RequireFromString(expectedTax))
	}
	return sc
}

func ptr[T any](v T) *T { return &v }

func output(tax string) domain.SuccessionOutput {
	return domain.SuccessionOutput{
		LegislationYear: 2024,
		Metrics: domain.GlobalMetrics{
			TotalTax:         decimal.RequireFromString(tax),
			TotalEstateValue: decimal.NewFromInt(300_000),
		},
	}
}

func TestCreateStoresValidatedInput(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockCalculator{})
	id := uuid.MustParse("7b0e4c1e-2f7a-4a51-9d3c-5b0b8f3c2d10")
	svc.newID = func() uuid.UUID { return id }

	sc, err := svc.Create(context.Background(), "one child", "", validInput(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.ID != id || len(repo.created) != 1 {
		t.Fatalf("created = %+v, want one scenario with fixed id", repo.created)
	}

	var decoded domain.SimulationInput
	if err := json.Unmarshal(repo.created[0].Input, &decoded); err != nil {
		t.Fatalf("stored input is not JSON: %v", err)
	}
	if len(decoded.Members) != 1 || decoded.Members[0].ID != "c1" {
		t.Errorf("decoded members = %+v", decoded.Members)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		mutate   func(in *domain.SimulationInput)
	}{
		{"missing name", "", func(*domain.SimulationInput) {}},
		{"unknown regime", "bad", func(in *domain.SimulationInput) { in.Regime = "TONTINE" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			in := validInput()
			tt.mutate(&in)
			_, err := NewService(repo, &mockCalculator{}).Create(context.Background(), tt.scenario, "", in, nil, nil)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Create() = %v, want ValidationError", err)
			}
			if len(repo.created) != 0 {
				t.Error("invalid scenario should not be stored")
			}
		})
	}
}

func TestRunComparesExpectedTotals(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		got      string
		passed   bool
	}{
		{"no expectation", "", "38194.35", true},
		{"matching", "38194.35", "38194.35", true},
		{"drift", "38000", "38194.35", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := storedScenario(t, tt.expected)
			repo := &mockRepo{scenario: &sc}
			calc := &mockCalculator{out: output(tt.got)}

			run, err := NewService(repo, calc).Run(context.Background(), sc.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if run.Passed != tt.passed {
				t.Errorf("passed = %v, want %v (mismatches %v)", run.Passed, tt.passed, run.Mismatches)
			}
			if len(repo.runs) != 1 || run.ID != 1 {
				t.Errorf("runs saved = %d, id = %d", len(repo.runs), run.ID)
			}
			if calc.last.Members[0].ID != "c1" {
				t.Errorf("calculator received %+v", calc.last)
			}
		})
	}
}

func TestRunNotFound(t *testing.T) {
	repo := &mockRepo{getErr: ErrNotFound}
	_, err := NewService(repo, &mockCalculator{}).Run(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Run() = %v, want ErrNotFound", err)
	}
}

func TestRunAllRecordsFailingScenarios(t *testing.T) {
	good := storedScenario(t, "")
	broken := Scenario{ID: uuid.New(), Name: "broken", Input: json.RawMessage(`{"members":`)}
	repo := &mockRepo{list: []Scenario{broken, good}}
	calc := &mockCalculator{out: output("0")}

	runs, err := NewService(repo, calc).RunAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}

	failed := runs[0]
	if failed.ScenarioID != broken.ID || failed.Passed {
		t.Errorf("first run = %+v, want a failed run of the broken scenario", failed)
	}
	if len(failed.Mismatches) != 1 || !strings.Contains(failed.Mismatches[0], "decoding scenario") {
		t.Errorf("mismatches = %v", failed.Mismatches)
	}
	if failed.ID == 0 || len(failed.Output) == 0 {
		t.Errorf("failed run was not stored with an output: id %d, output %q", failed.ID, failed.Output)
	}
	if !runs[1].Passed || runs[1].ScenarioID != good.ID {
		t.Errorf("second run = %+v, want a passing run", runs[1])
	}
	if len(repo.runs) != 2 {
		t.Errorf("stored runs = %d, want 2", len(repo.runs))
	}
}

func TestRunAllCalculationError(t *testing.T) {
	repo := &mockRepo{list: []Scenario{storedScenario(t, "")}}
	calc := &mockCalculator{err: errors.New("no active legislation")}

	runs, err := NewService(repo, calc).RunAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 1 || runs[0].Passed {
		t.Fatalf("runs = %+v, want one failed run", runs)
	}
	if !strings.Contains(runs[0].Mismatches[0], "no active legislation") {
		t.Errorf("mismatch = %q", runs[0].Mismatches[0])
	}
}

func TestRunAllListError(t *testing.T) {
	repo := &mockRepo{listErr: errors.New("connection refused")}
	if _, err := NewService(repo, &mockCalculator{}).RunAll(context.Background()); err == nil {
		t.Error("expected error")
	}
}
