package livestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PacePulse/internal/domain/models"
	"PacePulse/pkg/cache"
)

func newTestStore(opts ...Option) *Store {
	return New(cache.NewMemoryCache(), opts...)
}

func tick(gameID string, total float64, at time.Time) *models.LineTick {
	return &models.LineTick{GameID: gameID, Total: total, Timestamp: at}
}

func TestSnapshotMiss(t *testing.T) {
	s := newTestStore()
	_, err := s.Snapshot(context.Background(), "nope")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestApplyCreatesAndUpdatesSnapshot(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	base := time.Date(2025, 11, 2, 19, 0, 0, 0, time.UTC)

	if err := s.Apply(ctx, tick("g1", 225.5, base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Apply(ctx, tick("g1", 227.0, base.Add(time.Minute))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := s.Snapshot(ctx, "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.LiveTotal == nil || *snap.LiveTotal != 227.0 {
		t.Fatalf("expected live total 227.0, got %v", snap.LiveTotal)
	}
	if len(snap.LineHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(snap.LineHistory))
	}
	if snap.LineHistory[0].Total != 225.5 {
		t.Fatalf("expected tip total first, got %v", snap.LineHistory[0].Total)
	}
}

func TestApplyCarriesBoxAndRateFlag(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	first := tick("g1", 225.5, time.Now())
	first.LiveBox = &models.LiveBox{Quarter: 1, Clock: "08:00"}
	first.RateOfChange = "FAST"
	if err := s.Apply(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, _ := s.Snapshot(ctx, "g1")
	if snap.RateOfChange == nil || *snap.RateOfChange != "FAST" {
		t.Fatalf("expected FAST flag, got %v", snap.RateOfChange)
	}
	if snap.LiveBox == nil || snap.LiveBox.Quarter != 1 {
		t.Fatalf("expected box carried over, got %+v", snap.LiveBox)
	}

	// A later tick without a box keeps the previous one; an empty rate
	// flag clears the previous flag.
	if err := s.Apply(ctx, tick("g1", 226.0, time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ = s.Snapshot(ctx, "g1")
	if snap.LiveBox == nil || snap.LiveBox.Quarter != 1 {
		t.Fatalf("expected box retained, got %+v", snap.LiveBox)
	}
	if snap.RateOfChange != nil {
		t.Fatalf("expected rate flag cleared, got %v", *snap.RateOfChange)
	}
}

func TestApplyBoundsHistory(t *testing.T) {
	s := newTestStore(WithHistoryLimit(3))
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		if err := s.Apply(ctx, tick("g1", 220+float64(i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap, _ := s.Snapshot(ctx, "g1")
	if len(snap.LineHistory) != 3 {
		t.Fatalf("expected history bounded to 3, got %d", len(snap.LineHistory))
	}
	if snap.LineHistory[0].Total != 222 {
		t.Fatalf("expected oldest retained entry 222, got %v", snap.LineHistory[0].Total)
	}
}

func TestListGames(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_ = s.Apply(ctx, tick("g2", 210, time.Now()))
	_ = s.Apply(ctx, tick("g1", 220, time.Now()))
	_ = s.Apply(ctx, tick("g1", 221, time.Now()))

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].GameID != "g1" || games[1].GameID != "g2" {
		t.Fatalf("expected sorted game ids, got %s %s", games[0].GameID, games[1].GameID)
	}
}

func TestCacheAge(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	at := time.Now().UTC().Add(-30 * time.Second)

	_ = s.Apply(ctx, tick("g1", 220, at))

	age, ok := s.CacheAge(ctx, "g1")
	if !ok {
		t.Fatalf("expected cache age")
	}
	if age < 29 || age > 31 {
		t.Fatalf("expected age near 30s, got %d", age)
	}

	if _, ok := s.CacheAge(ctx, "missing"); ok {
		t.Fatalf("expected no age for missing game")
	}
}

func TestSeedFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live_snapshots.json")
	payload := `{
  "games": [
    {
      "gameId": "0022500001",
      "liveTotal": 228.5,
      "rateOfChange": "FAST",
      "updated": "2025-11-02T19:30:00Z",
      "lineHistory": [{"total": 225.5, "timestamp": "2025-11-02T19:00:00Z"}],
      "liveBox": {
        "quarter": 2,
        "clock": "06:00",
        "home": {"teamId": "1610612738", "fga": 40, "oreb": 5, "tov": 7, "fta": 10},
        "away": {"teamId": "1610612747", "fga": 38, "oreb": 4, "tov": 6, "fta": 5}
      }
    }
  ]
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := newTestStore()
	ctx := context.Background()
	if err := s.SeedFromFile(ctx, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := s.Snapshot(ctx, "0022500001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.LiveTotal == nil || *snap.LiveTotal != 228.5 {
		t.Fatalf("expected seeded total, got %v", snap.LiveTotal)
	}
	if snap.LiveBox == nil || snap.LiveBox.Clock != "06:00" {
		t.Fatalf("expected seeded box, got %+v", snap.LiveBox)
	}

	// Missing seed files are tolerated.
	if err := s.SeedFromFile(ctx, filepath.Join(dir, "absent.json")); err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
}
