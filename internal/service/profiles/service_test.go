package profiles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PacePulse/internal/domain/models"
)

type fakeSource struct {
	base    []BaseRow
	adv     []AdvancedRow
	ff      []FourFactorsRow
	err     error
	fetches int
}

func (s *fakeSource) FetchBase(context.Context) ([]BaseRow, error) {
	s.fetches++
	return s.base, s.err
}

func (s *fakeSource) FetchAdvanced(context.Context) ([]AdvancedRow, error) {
	return s.adv, s.err
}

func (s *fakeSource) FetchFourFactors(context.Context) ([]FourFactorsRow, error) {
	return s.ff, s.err
}

func workingSource() *fakeSource {
	return &fakeSource{
		base: []BaseRow{{TeamID: "1", TeamName: "One", PtsQtr1: 30, PtsQtr2: 28, PtsQtr3: 27, PtsQtr4: 25, OppPts: 108}},
		adv:  []AdvancedRow{{TeamID: "1", Pace: 99.0, PaceRank: 10, DefRating: 110.0}},
		ff:   []FourFactorsRow{{TeamID: "1", OppEFGPct: 0.51, OppTovPct: 0.14, DRBPct: f(0.70), OppFTRate: f(0.22)}},
	}
}

func TestProfilesRefreshAndPersist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "season_profiles.json")
	source := workingSource()
	svc := NewService(source, path)

	state, err := svc.Profiles(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := state.Teams["1"]; !ok {
		t.Fatalf("expected team 1 in refreshed state")
	}
	if source.fetches != 1 {
		t.Fatalf("expected one provider fetch, got %d", source.fetches)
	}

	// Snapshot must land on disk and be loadable by a fresh instance.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot on disk: %v", err)
	}
	svc2 := NewService(&fakeSource{err: errors.New("provider down")}, path)
	state2, err := svc2.Profiles(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error from disk-backed load: %v", err)
	}
	if _, ok := state2.Teams["1"]; !ok {
		t.Fatalf("expected team 1 from disk snapshot")
	}
}

func TestProfilesFreshStateServedWithoutFetch(t *testing.T) {
	dir := t.TempDir()
	source := workingSource()
	svc := NewService(source, filepath.Join(dir, "season_profiles.json"))

	if _, err := svc.Profiles(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Profiles(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.fetches != 1 {
		t.Fatalf("expected cached state to be served, fetches=%d", source.fetches)
	}
}

func TestProfilesForceRefreshBypassesCache(t *testing.T) {
	dir := t.TempDir()
	source := workingSource()
	svc := NewService(source, filepath.Join(dir, "season_profiles.json"))

	if _, err := svc.Profiles(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Profiles(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.fetches != 2 {
		t.Fatalf("expected force refresh to hit provider again, fetches=%d", source.fetches)
	}
}

func TestProfilesStaleStateTriggersRefresh(t *testing.T) {
	dir := t.TempDir()
	source := workingSource()
	svc := NewService(source, filepath.Join(dir, "season_profiles.json"), WithFreshness(time.Hour))

	if _, err := svc.Profiles(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Move the clock past the freshness window.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Profiles(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.fetches != 2 {
		t.Fatalf("expected stale state to refresh, fetches=%d", source.fetches)
	}
}

func TestProfilesBundledFallback(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&fakeSource{err: errors.New("provider down")}, filepath.Join(dir, "season_profiles.json"))

	state, err := svc.Profiles(context.Background(), false)
	if err != nil {
		t.Fatalf("expected bundled fallback, got error: %v", err)
	}
	if len(state.Teams) == 0 {
		t.Fatalf("expected bundled teams, got empty state")
	}
	if _, ok := state.Teams["1610612738"]; !ok {
		t.Fatalf("expected bundled sample to include the Celtics")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "season_profiles.json")
	svc := NewService(nil, path)

	state := &models.SeasonProfileState{
		Refreshed: time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC),
		Teams: map[string]models.TeamSeasonProfile{
			"1": {TeamID: "1", TeamName: "One", Pace: 99.5, PtsPG: 110},
		},
	}
	if err := svc.saveToDisk(state); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded := svc.loadFromDisk()
	if loaded == nil {
		t.Fatalf("expected snapshot to load")
	}
	if !loaded.Refreshed.Equal(state.Refreshed) {
		t.Fatalf("refreshed mismatch: %v vs %v", loaded.Refreshed, state.Refreshed)
	}
	if loaded.Teams["1"].Pace != 99.5 {
		t.Fatalf("team payload mismatch: %+v", loaded.Teams["1"])
	}
}
