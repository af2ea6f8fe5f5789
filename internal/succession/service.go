package succession

import (
	"context"
	"fmt"

	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

// Service resolves the legislation once per request and runs the calculation.
type Service struct {
	legislation legislation.Provider
	year        int
}

// NewService creates a Service. A zero year uses the active legislation.
func NewService(provider legislation.Provider, year int) *Service {
	return &Service{legislation: provider, year: year}
}

// Calculate settles an estate. The valuation date must be part of the input
// so that the same request always yields the same result.
func (s *Service) Calculate(ctx context.Context, in domain.SimulationInput) (domain.SuccessionOutput, error) {
	snap, err := legislation.Resolve(ctx, s.legislation, s.year)
	if err != nil {
		return domain.SuccessionOutput{}, fmt.Errorf("resolving legislation: %w", err)
	}
	return Calculate(in, snap)
}

// Legislation returns the snapshot the service calculates with.
func (s *Service) Legislation(ctx context.Context) (legislation.Snapshot, error) {
	return legislation.Resolve(ctx, s.legislation, s.year)
}
