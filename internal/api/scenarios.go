package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/scenario"
)

// ScenarioHandler serves the stored scenario fixtures and their replays.
type ScenarioHandler struct {
	scenarios *scenario.Service
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarios *scenario.Service) *ScenarioHandler {
	return &ScenarioHandler{scenarios: scenarios}
}

type createScenarioRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Input          domain.SimulationInput `json:"input"`
	ExpectedTax    *decimal.Decimal       `json:"expectedTotalTax"`
	ExpectedEstate *decimal.Decimal       `json:"expectedTotalEstate"`
}

type scenarioDetail struct {
	*scenario.Scenario
	Runs []scenario.Run `json:"runs"`
}

// ListScenarios handles GET /api/v1/scenarios.
func (h *ScenarioHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 500
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	scenarios, err := h.scenarios.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list scenarios", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

// GetScenario handles GET /api/v1/scenarios/{id}.
func (h *ScenarioHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	sc, err := h.scenarios.Get(r.Context(), id)
	if err != nil {
		writeScenarioError(w, "failed to get scenario", id, err)
		return
	}
	runs, err := h.scenarios.Runs(r.Context(), id, 10)
	if err != nil {
		writeScenarioError(w, "failed to get scenario runs", id, err)
		return
	}
	writeJSON(w, http.StatusOK, scenarioDetail{Scenario: sc, Runs: runs})
}

// CreateScenario handles POST /api/v1/scenarios.
func (h *ScenarioHandler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req createScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	sc, err := h.scenarios.Create(r.Context(), req.Name, req.Description, req.Input, req.ExpectedTax, req.ExpectedEstate)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeCalculationError(w, err)
			return
		}
		slog.Error("failed to create scenario", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// RunScenario handles POST /api/v1/scenarios/{id}/run.
func (h *ScenarioHandler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	run, err := h.scenarios.Run(r.Context(), id)
	if err != nil {
		if errors.Is(err, scenario.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeCalculationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func scenarioID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return uuid.Nil, false
	}
	return id, true
}

func writeScenarioError(w http.ResponseWriter, msg string, id uuid.UUID, err error) {
	if errors.Is(err, scenario.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	slog.Error(msg, "scenario", id, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
