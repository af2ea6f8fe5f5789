package legislation

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	active    Snapshot
	activeErr error
	calls     int
}

func (p *countingProvider) Active(_ context.Context) (Snapshot, error) {
	p.calls++
	return p.active, p.activeErr
}

func (p *countingProvider) ForYear(_ context.Context, year int) (Snapshot, error) {
	p.calls++
	if year != p.active.Year {
		return Snapshot{}, ErrNotFound
	}
	return p.active, nil
}

func TestCacheHitAndMiss(t *testing.T) {
	src := &countingProvider{active: Builtin(2024)}
	c := NewCachedProvider(src, time.Minute)

	for range 3 {
		if _, err := c.Active(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}

	if _, err := c.ForYear(context.Background(), 2024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.ForYear(context.Background(), 2030); !errors.Is(err, ErrNotFound) {
		t.Errorf("ForYear(2030) = %v, want ErrNotFound", err)
	}
}

func TestCacheExpiry(t *testing.T) {
	src := &countingProvider{active: Builtin(2024)}
	c := NewCachedProvider(src, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Active(context.Background())
	now = now.Add(2 * time.Minute)
	c.Active(context.Background())

	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2 after expiry", src.calls)
	}
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	src := &countingProvider{activeErr: ErrNoActiveLegislation}
	c := NewCachedProvider(src, time.Minute)

	for range 2 {
		if _, err := c.Active(context.Background()); !errors.Is(err, ErrNoActiveLegislation) {
			t.Errorf("Active() = %v, want ErrNoActiveLegislation", err)
		}
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
}

func TestRefreshReplacesEntries(t *testing.T) {
	src := &countingProvider{active: Builtin(2024)}
	c := NewCachedProvider(src, time.Minute)
	c.Active(context.Background())

	src.active = Builtin(2025)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ := c.Active(context.Background())
	if snap.Year != 2025 {
		t.Errorf("active year after refresh = %d, want 2025", snap.Year)
	}
}

func TestRefreshKeepsEntriesOnFailure(t *testing.T) {
	src := &countingProvider{active: Builtin(2024)}
	c := NewCachedProvider(src, time.Minute)
	c.Active(context.Background())

	src.activeErr = errors.New("database down")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	snap, err := c.Active(context.Background())
	if err != nil || snap.Year != 2024 {
		t.Errorf("Active() = %d, %v; want cached 2024", snap.Year, err)
	}
}
