package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/export"
	"github.com/mtlprog/succession/internal/legislation"
)

const maxBodyBytes = 1 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Calculator settles an estate against the current legislation.
type Calculator interface {
	Calculate(ctx context.Context, in domain.SimulationInput) (domain.SuccessionOutput, error)
}

// Handler provides HTTP endpoints for simulations and legislation tables.
type Handler struct {
	calc        Calculator
	legislation legislation.Provider
	newID       func() uuid.UUID
}

// NewHandler creates a new API handler.
func NewHandler(calc Calculator, provider legislation.Provider) *Handler {
	return &Handler{calc: calc, legislation: provider, newID: uuid.New}
}

// SimulationResponse is a calculation result tagged with its calculation ID.
type SimulationResponse struct {
	CalculationID uuid.UUID `json:"calculationId"`
	domain.SuccessionOutput
}

// Simulate handles POST /api/v1/simulations.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	id, out, ok := h.calculate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SimulationResponse{CalculationID: id, SuccessionOutput: out})
}

// SimulateXLSX handles POST /api/v1/simulations/xlsx.
func (h *Handler) SimulateXLSX(w http.ResponseWriter, r *http.Request) {
	id, out, ok := h.calculate(w, r)
	if !ok {
		return
	}

	f, err := export.Workbook(out)
	if err != nil {
		slog.Error("failed to build workbook", "calculation", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="succession-%s.xlsx"`, id))
	w.Header().Set("X-Calculation-Id", id.String())
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		slog.Warn("failed to write workbook", "calculation", id, "error", err)
	}
}

// calculate decodes the input and runs the calculation, writing the error response on failure.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) (uuid.UUID, domain.SuccessionOutput, bool) {
	var in domain.SimulationInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return uuid.Nil, domain.SuccessionOutput{}, false
	}

	id := h.newID()
	out, err := h.calc.Calculate(r.Context(), in)
	if err != nil {
		writeCalculationError(w, err)
		return uuid.Nil, domain.SuccessionOutput{}, false
	}
	slog.Info("simulation calculated", "calculation", id, "heirs", len(out.Heirs), "totalTax", out.Metrics.TotalTax)
	return id, out, true
}

// GetActiveLegislation handles GET /api/v1/legislation/active.
func (h *Handler) GetActiveLegislation(w http.ResponseWriter, r *http.Request) {
	snap, err := h.legislation.Active(r.Context())
	if err != nil {
		if errors.Is(err, legislation.ErrNoActiveLegislation) {
			writeError(w, http.StatusNotFound, "no active legislation")
			return
		}
		slog.Error("failed to get active legislation", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetLegislationByYear handles GET /api/v1/legislation/{year}.
func (h *Handler) GetLegislationByYear(w http.ResponseWriter, r *http.Request) {
	yearStr := r.PathValue("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "invalid year, expected YYYY")
		return
	}

	snap, err := h.legislation.ForYear(r.Context(), year)
	if err != nil {
		if errors.Is(err, legislation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "legislation not found for year")
			return
		}
		slog.Error("failed to get legislation by year", "year", yearStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeCalculationError maps calculation failures to HTTP statuses.
func writeCalculationError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    "invalid simulation input",
			"problems": verr.Problems,
		})
	case errors.Is(err, legislation.ErrNoActiveLegislation),
		errors.Is(err, legislation.ErrNotFound),
		errors.Is(err, legislation.ErrIncomplete):
		slog.Error("legislation unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "legislation unavailable")
	default:
		slog.Error("calculation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return err
	}
	if len(data) > maxBodyBytes {
		return errors.New("body too large")
	}
	return json.Unmarshal(data, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
