package livestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"PacePulse/internal/domain/models"
	"PacePulse/pkg/cache"
	applogger "PacePulse/pkg/logger"
	"PacePulse/pkg/util"
)

const (
	snapshotKeyPrefix = "live:game"
	gamesIndexKey     = "live:games"

	defaultHistoryLimit = 120
	defaultSnapshotTTL  = 6 * time.Hour
)

// ErrSnapshotNotFound is returned when no live snapshot exists for a game.
var ErrSnapshotNotFound = errors.New("live snapshot not found")

// Store keeps the current live snapshot per game in the cache layer.
// Snapshots are serialized as JSON strings so memory, redis, and layered
// backends behave identically.
type Store struct {
	cache        cache.Service
	historyLimit int
	ttl          time.Duration
	logger       *applogger.Logger
	now          func() time.Time
}

// Option configures Store.
type Option func(*Store)

// WithHistoryLimit bounds the retained line history per game.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithSnapshotTTL overrides the cache expiry for snapshots.
func WithSnapshotTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a live store over a cache backend.
func New(c cache.Service, opts ...Option) *Store {
	s := &Store{
		cache:        c,
		historyLimit: defaultHistoryLimit,
		ttl:          defaultSnapshotTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the live snapshot for a game.
func (s *Store) Snapshot(ctx context.Context, gameID string) (*models.LiveGameSnapshot, error) {
	var raw string
	if err := s.cache.Get(ctx, cache.GenerateKey(snapshotKeyPrefix, gameID), &raw); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: game %s", ErrSnapshotNotFound, gameID)
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap models.LiveGameSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// ListGames returns snapshots for every game in the index. Games whose
// snapshot expired are dropped from the result.
func (s *Store) ListGames(ctx context.Context) ([]*models.LiveGameSnapshot, error) {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.LiveGameSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Snapshot(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSnapshotNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Apply folds a line tick into the game's snapshot: updates the current
// total, appends to the bounded history, and replaces the box score when the
// tick carries one.
func (s *Store) Apply(ctx context.Context, t *models.LineTick) error {
	snap, err := s.Snapshot(ctx, t.GameID)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			return err
		}
		snap = &models.LiveGameSnapshot{GameID: t.GameID}
	}

	total := t.Total
	snap.LiveTotal = &total

	if t.RateOfChange != "" {
		flag := t.RateOfChange
		snap.RateOfChange = &flag
	} else {
		snap.RateOfChange = nil
	}

	ts := t.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	snap.Updated = ts.UTC().Format(time.RFC3339)

	snap.LineHistory = append(snap.LineHistory, models.LineHistoryEntry{
		Total:     t.Total,
		Timestamp: snap.Updated,
	})
	if len(snap.LineHistory) > s.historyLimit {
		snap.LineHistory = snap.LineHistory[len(snap.LineHistory)-s.historyLimit:]
	}

	if t.LiveBox != nil {
		snap.LiveBox = t.LiveBox
	}

	if err := s.put(ctx, snap); err != nil {
		return err
	}
	return s.addToIndex(ctx, t.GameID)
}

// CacheAge returns whole seconds since the snapshot was last updated.
func (s *Store) CacheAge(ctx context.Context, gameID string) (int, bool) {
	snap, err := s.Snapshot(ctx, gameID)
	if err != nil || snap.Updated == "" {
		return 0, false
	}
	updated, ok := util.ParseTime(snap.Updated)
	if !ok {
		return 0, false
	}
	return util.AgeSeconds(updated, s.now().UTC()), true
}

// SeedFromFile hydrates the store from a local snapshot file. Used for
// development and tests; missing files are not an error.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if s.logger != nil {
				s.logger.Warn("live snapshot seed file missing", applogger.String("path", path))
			}
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}

	var payload struct {
		Games []models.LiveGameSnapshot `json:"games"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}

	for i := range payload.Games {
		snap := payload.Games[i]
		if err := s.put(ctx, &snap); err != nil {
			return err
		}
		if err := s.addToIndex(ctx, snap.GameID); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded live snapshots",
			applogger.String("path", path),
			applogger.Int("games", len(payload.Games)),
		)
	}
	return nil
}

func (s *Store) put(ctx context.Context, snap *models.LiveGameSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	key := cache.GenerateKey(snapshotKeyPrefix, snap.GameID)
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *Store) loadIndex(ctx context.Context) ([]string, error) {
	var raw string
	if err := s.cache.Get(ctx, gamesIndexKey, &raw); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("load games index: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode games index: %w", err)
	}
	return ids, nil
}

func (s *Store) addToIndex(ctx context.Context, gameID string) error {
	ids, err := s.loadIndex(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == gameID {
			return nil
		}
	}
	ids = append(ids, gameID)
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode games index: %w", err)
	}
	if err := s.cache.Set(ctx, gamesIndexKey, string(data), s.ttl); err != nil {
		return fmt.Errorf("store games index: %w", err)
	}
	return nil
}
