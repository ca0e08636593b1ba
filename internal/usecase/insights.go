package usecase

import (
	"context"
	"fmt"
	"time"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	"PacePulse/internal/insight"
)

// InsightService is the read-side usecase behind the insight API. It joins
// season baselines with live snapshots and delegates the math to the engine.
type InsightService struct {
	profiles domrepo.ProfileSource
	engine   *insight.Engine
	live     domrepo.LiveStore
	history  domrepo.LineHistoryStore
	timeout  time.Duration
}

func NewInsightService(profiles domrepo.ProfileSource, engine *insight.Engine, live domrepo.LiveStore, history domrepo.LineHistoryStore) *InsightService {
	return &InsightService{
		profiles: profiles,
		engine:   engine,
		live:     live,
		history:  history,
		timeout:  10 * time.Second,
	}
}

// GameInsight renders the betting insight for one game.
func (s *InsightService) GameInsight(ctx context.Context, gameID string) (*models.Insight, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state, err := s.profiles.Profiles(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load season profiles: %w", err)
	}
	return s.engine.BuildInsight(ctx, gameID, state)
}

// LiveGames lists the current live snapshots.
func (s *InsightService) LiveGames(ctx context.Context) ([]*models.LiveGameSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.live.ListGames(ctx)
}

// SeasonProfiles returns the season baseline payload, optionally forcing a
// provider refresh.
func (s *InsightService) SeasonProfiles(ctx context.Context, forceRefresh bool) (*models.SeasonProfilePayload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	state, err := s.profiles.Profiles(ctx, forceRefresh)
	if err != nil {
		return nil, fmt.Errorf("load season profiles: %w", err)
	}
	return state.ToPayload(), nil
}

// LineHistory returns durable line ticks for a game, newest first. When no
// durable store is configured, the bounded snapshot history is served instead.
func (s *InsightService) LineHistory(ctx context.Context, gameID string, limit int) ([]*models.LineTick, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	if s.history != nil {
		to := time.Now().UTC()
		from := to.Add(-24 * time.Hour)
		return s.history.Query(ctx, gameID, from, to, limit)
	}

	snap, err := s.live.Snapshot(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: game %s", insight.ErrLiveDataUnavailable, gameID)
	}
	entries := snap.LineHistory
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]*models.LineTick, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		ts, _ := time.Parse(time.RFC3339, e.Timestamp)
		out = append(out, &models.LineTick{GameID: gameID, Total: e.Total, Timestamp: ts})
	}
	return out, nil
}
