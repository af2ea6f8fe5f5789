package legislation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

var (
	// ErrNoActiveLegislation indicates that no legislation year is flagged active.
	ErrNoActiveLegislation = errors.New("no active legislation")
	// ErrNotFound indicates that the requested legislation year does not exist.
	ErrNotFound = errors.New("legislation not found")
)

// Provider resolves legislation snapshots. Callers fetch one snapshot per calculation.
type Provider interface {
	Active(ctx context.Context) (Snapshot, error)
	ForYear(ctx context.Context, year int) (Snapshot, error)
}

// Resolve returns the snapshot for year, or the active one when year is zero.
func Resolve(ctx context.Context, p Provider, year int) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if year > 0 {
		snap, err = p.ForYear(ctx, year)
	} else {
		snap, err = p.Active(ctx)
	}
	if err != nil {
		return Snapshot{}, err
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Static serves snapshots held in memory.
type Static struct {
	active    int
	snapshots map[int]Snapshot
}

// NewStatic creates a provider over the given snapshots with active as the active year.
func NewStatic(active int, snapshots ...Snapshot) *Static {
	return &Static{
		active:    active,
		snapshots: lo.KeyBy(snapshots, func(s Snapshot) int { return s.Year }),
	}
}

func (p *Static) Active(_ context.Context) (Snapshot, error) {
	s, ok := p.snapshots[p.active]
	if !ok {
		return Snapshot{}, ErrNoActiveLegislation
	}
	return s, nil
}

func (p *Static) ForYear(_ context.Context, year int) (Snapshot, error) {
	s, ok := p.snapshots[year]
	if !ok {
		return Snapshot{}, fmt.Errorf("year %d: %w", year, ErrNotFound)
	}
	return s, nil
}

// ActiveYear returns the year flagged active, zero when none is.
func (p *Static) ActiveYear() int {
	return p.active
}

// Snapshots returns the held snapshots ordered by year.
func (p *Static) Snapshots() []Snapshot {
	out := lo.Values(p.snapshots)
	slices.SortFunc(out, func(a, b Snapshot) int { return cmp.Compare(a.Year, b.Year) })
	return out
}
