package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/scenario"
)

type mockScenarioRepo struct {
	scenarios     []scenario.Scenario
	runs          []scenario.Run
	created       []scenario.Scenario
	lastListLimit int
}

func (m *mockScenarioRepo) Create(_ context.Context, s scenario.Scenario) error {
	m.created = append(m.created, s)
	return nil
}

func (m *mockScenarioRepo) Get(_ context.Context, id uuid.UUID) (*scenario.Scenario, error) {
	for _, s := range m.scenarios {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, scenario.ErrNotFound
}

func (m *mockScenarioRepo) List(_ context.Context, limit int) ([]scenario.Scenario, error) {
	m.lastListLimit = limit
	if limit > len(m.scenarios) {
		limit = len(m.scenarios)
	}
	return m.scenarios[:limit], nil
}

func (m *mockScenarioRepo) SaveRun(_ context.Context, run scenario.Run) (int64, error) {
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), nil
}

func (m *mockScenarioRepo) LatestRuns(_ context.Context, _ uuid.UUID, _ int) ([]scenario.Run, error) {
	return m.runs, nil
}

func storedScenario(t *testing.T) scenario.Scenario {
	t.Helper()
	data, err := json.Marshal(validInput())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	tax := decimal.RequireFromString("38194.35")
	return scenario.Scenario{
		ID:          uuid.New(),
		Name:        "one child",
		Input:       data,
		ExpectedTax: &tax,
		CreatedAt:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func newScenarioHandler(repo *mockScenarioRepo) *ScenarioHandler {
	calc := &mockCalculator{out: calculatedOutput()}
	return NewScenarioHandler(scenario.NewService(repo, calc))
}

func TestListScenariosLimit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"default", "", 50},
		{"custom", "?limit=5", 5},
		{"capped", "?limit=10000", 500},
		{"invalid falls back", "?limit=abc", 50},
		{"zero falls back", "?limit=0", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockScenarioRepo{}
			handler := newScenarioHandler(repo)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.ListScenarios(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if repo.lastListLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", repo.lastListLimit, tt.wantLimit)
			}
		})
	}
}

func TestGetScenario(t *testing.T) {
	sc := storedScenario(t)
	repo := &mockScenarioRepo{scenarios: []scenario.Scenario{sc}}
	handler := newScenarioHandler(repo)

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"found", sc.ID.String(), http.StatusOK},
		{"unknown", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.GetScenario(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCreateScenario(t *testing.T) {
	repo := &mockScenarioRepo{}
	handler := newScenarioHandler(repo)

	body, err := json.Marshal(map[string]any{
		"name":             "one child",
		"input":            validInput(),
		"expectedTotalTax": "38194.35",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateScenario(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	got := repo.created[0]
	if got.Name != "one child" {
		t.Errorf("name = %q", got.Name)
	}
	if got.ExpectedTax == nil || !got.ExpectedTax.Equal(decimal.RequireFromString("38194.35")) {
		t.Errorf("expected tax = %v", got.ExpectedTax)
	}
}

func TestCreateScenarioRejectsMissingName(t *testing.T) {
	repo := &mockScenarioRepo{}
	handler := newScenarioHandler(repo)

	body, _ := json.Marshal(map[string]any{"input": validInput()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateScenario(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "scenario name is required") {
		t.Errorf("body = %s", w.Body)
	}
	if len(repo.created) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestRunScenario(t *testing.T) {
	sc := storedScenario(t)
	repo := &mockScenarioRepo{scenarios: []scenario.Scenario{sc}}
	handler := newScenarioHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios/"+sc.ID.String()+"/run", nil)
	req.SetPathValue("id", sc.ID.String())
	w := httptest.NewRecorder()
	handler.RunScenario(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	var run scenario.Run
	if err := json.NewDecoder(w.Body).Decode(&run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !run.Passed {
		t.Errorf("run should pass, mismatches: %v", run.Mismatches)
	}
	if len(repo.runs) != 1 {
		t.Errorf("stored runs = %d, want 1", len(repo.runs))
	}
}

func TestRunScenarioNotFound(t *testing.T) {
	handler := newScenarioHandler(&mockScenarioRepo{})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scenarios/"+id+"/run", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handler.RunScenario(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
