package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/mtlprog/succession/internal/legislation"
	"github.com/mtlprog/succession/internal/scenario"
)

// NewServer creates an HTTP server with all routes configured.
// Scenario routes are only registered when scenarios is non-nil.
func NewServer(port string, calc Calculator, provider legislation.Provider, scenarios *scenario.Service, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewMux(calc, provider, scenarios, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers the API routes.
func NewMux(calc Calculator, provider legislation.Provider, scenarios *scenario.Service, adminAPIKey string) *http.ServeMux {
	handler := NewHandler(calc, provider)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/simulations", handler.Simulate)
	mux.HandleFunc("POST /api/v1/simulations/xlsx", handler.SimulateXLSX)
	mux.HandleFunc("GET /api/v1/legislation/active", handler.GetActiveLegislation)
	mux.HandleFunc("GET /api/v1/legislation/{year}", handler.GetLegislationByYear)

	if scenarios != nil {
		scHandler := NewScenarioHandler(scenarios)
		mux.HandleFunc("GET /api/v1/scenarios", scHandler.ListScenarios)
		mux.HandleFunc("GET /api/v1/scenarios/{id}", scHandler.GetScenario)
		mux.HandleFunc("POST /api/v1/scenarios/{id}/run", scHandler.RunScenario)

		createHandler := http.HandlerFunc(scHandler.CreateScenario)
		if adminAPIKey != "" {
			mux.Handle("POST /api/v1/scenarios", requireAuth(adminAPIKey, createHandler))
		} else {
			mux.Handle("POST /api/v1/scenarios", createHandler)
		}
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
