package repository

import (
	"context"
	"time"

	"PacePulse/internal/domain/models"
)

// LineStream is a live odds feed delivering market total updates.
type LineStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.LineTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// LinePublisher ships line ticks to a message broker.
type LinePublisher interface {
	Publish(ctx context.Context, t *models.LineTick) error
	PublishBatch(ctx context.Context, ticks []*models.LineTick) error
	Close() error
}

// LineHistoryStore persists line ticks for durable history and analytics.
type LineHistoryStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, t *models.LineTick) error
	StoreBatch(ctx context.Context, ticks []*models.LineTick) error
	Query(ctx context.Context, gameID string, from, to time.Time, limit int) ([]*models.LineTick, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// LiveStore holds the current live snapshot per game. Snapshots are read by
// the insight engine and updated by the realtime pipeline.
type LiveStore interface {
	Snapshot(ctx context.Context, gameID string) (*models.LiveGameSnapshot, error)
	ListGames(ctx context.Context) ([]*models.LiveGameSnapshot, error)
	Apply(ctx context.Context, t *models.LineTick) error
	CacheAge(ctx context.Context, gameID string) (int, bool)
}

// ProfileSource provides season baselines, refreshing them when stale.
type ProfileSource interface {
	Profiles(ctx context.Context, forceRefresh bool) (*models.SeasonProfileState, error)
}

type Metrics interface {
	RecordInsight(alignment string)
	RecordTickSent(backend, gameID string)
	RecordError(kind string)
	RecordLivePace(gameID string, pace float64)
	RecordLatency(op string, seconds float64)
}
