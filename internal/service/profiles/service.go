package profiles

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"PacePulse/internal/domain/models"
	"PacePulse/pkg/cache"
	applogger "PacePulse/pkg/logger"
)

//go:embed sample_season_profiles.json
var sampleProfiles []byte

const (
	defaultFreshness = 24 * time.Hour
	refreshLockKey   = "profiles:refresh:lock"
	refreshLockTTL   = 2 * time.Minute
	callBudgetPrefix = "provider:calls"
)

// StatsSource abstracts the league stats provider for refreshes.
type StatsSource interface {
	FetchBase(ctx context.Context) ([]BaseRow, error)
	FetchAdvanced(ctx context.Context) ([]AdvancedRow, error)
	FetchFourFactors(ctx context.Context) ([]FourFactorsRow, error)
}

// Service manages the season baseline lifecycle: provider refresh, disk
// snapshot caching, and a bundled fallback when everything else fails.
type Service struct {
	source        StatsSource
	cachePath     string
	freshness     time.Duration
	maxCallsMonth int
	cacheSvc      cache.Service
	logger        *applogger.Logger

	mu    sync.Mutex
	state *models.SeasonProfileState

	now func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithFreshness overrides the snapshot freshness window.
func WithFreshness(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.freshness = d
		}
	}
}

// WithCallBudget caps provider refresh calls per calendar month. Zero means
// unlimited.
func WithCallBudget(max int) Option {
	return func(s *Service) { s.maxCallsMonth = max }
}

// WithCache attaches a cache service used for refresh locks and the monthly
// call budget counter.
func WithCache(c cache.Service) Option {
	return func(s *Service) { s.cacheSvc = c }
}

// WithServiceLogger attaches a structured logger.
func WithServiceLogger(l *applogger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a season profile service writing snapshots to cachePath.
func NewService(source StatsSource, cachePath string, opts ...Option) *Service {
	s := &Service{
		source:    source,
		cachePath: cachePath,
		freshness: defaultFreshness,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profiles returns the current season baselines, refreshing from the provider
// when the cached state is stale or forceRefresh is set.
func (s *Service) Profiles(ctx context.Context, forceRefresh bool) (*models.SeasonProfileState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh {
		state := s.state
		if state == nil {
			state = s.loadFromDisk()
			s.state = state
		}
		if state != nil && s.isFresh(state.Refreshed) {
			return state, nil
		}
	}

	s.logInfo("refreshing season profiles from source")
	state := s.refresh(ctx)
	if state == nil {
		return nil, fmt.Errorf("season profiles unavailable from provider, disk, and bundle")
	}

	s.state = state
	if err := s.saveToDisk(state); err != nil {
		s.logWarn("failed to persist season profile snapshot", applogger.Error(err))
	}
	return state, nil
}

func (s *Service) isFresh(refreshed time.Time) bool {
	return s.now().UTC().Sub(refreshed.UTC()) <= s.freshness
}

// refresh walks the source chain: live provider, then disk snapshot (even if
// stale), then the bundled sample.
func (s *Service) refresh(ctx context.Context) *models.SeasonProfileState {
	if state := s.refreshFromProvider(ctx); state != nil {
		return state
	}
	if state := s.loadFromDisk(); state != nil {
		s.logWarn("provider refresh failed, serving disk snapshot")
		return state
	}
	if state := s.loadBundled(); state != nil {
		s.logWarn("provider and disk unavailable, serving bundled sample profiles")
		return state
	}
	return nil
}

func (s *Service) refreshFromProvider(ctx context.Context) *models.SeasonProfileState {
	if s.source == nil {
		return nil
	}
	if !s.withinCallBudget(ctx) {
		s.logWarn("provider call budget exhausted for this month")
		return nil
	}
	if !s.acquireRefreshLock(ctx) {
		s.logInfo("another instance is refreshing profiles, skipping provider call")
		return nil
	}
	defer s.releaseRefreshLock(ctx)

	base, err := s.source.FetchBase(ctx)
	if err != nil {
		s.logError("base dashboard fetch failed", applogger.Error(err))
		return nil
	}
	advanced, err := s.source.FetchAdvanced(ctx)
	if err != nil {
		s.logError("advanced dashboard fetch failed", applogger.Error(err))
		return nil
	}
	fourFactors, err := s.source.FetchFourFactors(ctx)
	if err != nil {
		s.logError("four factors dashboard fetch failed", applogger.Error(err))
		return nil
	}

	teams, err := BuildProfiles(base, advanced, fourFactors)
	if err != nil {
		s.logError("profile merge failed", applogger.Error(err))
		return nil
	}

	return &models.SeasonProfileState{Refreshed: s.now().UTC(), Teams: teams}
}

func (s *Service) withinCallBudget(ctx context.Context) bool {
	if s.maxCallsMonth <= 0 || s.cacheSvc == nil {
		return true
	}
	key := cache.GenerateKey(callBudgetPrefix, s.now().UTC().Format("2006-01"))
	calls, err := s.cacheSvc.Increment(ctx, key)
	if err != nil {
		// Budget tracking is advisory; never block a refresh on cache errors.
		s.logWarn("call budget counter unavailable", applogger.Error(err))
		return true
	}
	if calls == 1 {
		_, _ = s.cacheSvc.Expire(ctx, key, 32*24*time.Hour)
	}
	return calls <= int64(s.maxCallsMonth)
}

func (s *Service) acquireRefreshLock(ctx context.Context) bool {
	if s.cacheSvc == nil {
		return true
	}
	ok, err := s.cacheSvc.TryLock(ctx, refreshLockKey, refreshLockTTL)
	if err != nil {
		s.logWarn("refresh lock unavailable", applogger.Error(err))
		return true
	}
	return ok
}

func (s *Service) releaseRefreshLock(ctx context.Context) {
	if s.cacheSvc == nil {
		return
	}
	_ = s.cacheSvc.Unlock(ctx, refreshLockKey)
}

func (s *Service) loadFromDisk() *models.SeasonProfileState {
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil
	}
	state, err := decodeState(data)
	if err != nil {
		s.logWarn("failed to load cached season profiles", applogger.Error(err))
		return nil
	}
	return state
}

func (s *Service) loadBundled() *models.SeasonProfileState {
	state, err := decodeState(sampleProfiles)
	if err != nil {
		s.logError("bundled sample profiles are corrupt", applogger.Error(err))
		return nil
	}
	return state
}

// saveToDisk writes the snapshot atomically via tmp file and rename.
func (s *Service) saveToDisk(state *models.SeasonProfileState) error {
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err != nil {
		return fmt.Errorf("ensure snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(state.ToPayload(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot tmp: %w", err)
	}
	if err := os.Rename(tmp, s.cachePath); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

func decodeState(data []byte) (*models.SeasonProfileState, error) {
	var payload models.SeasonProfilePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload.ToState()
}

func (s *Service) logInfo(msg string, fields ...applogger.Field) {
	if s.logger != nil {
		s.logger.Info(msg, fields...)
	}
}

func (s *Service) logWarn(msg string, fields ...applogger.Field) {
	if s.logger != nil {
		s.logger.Warn(msg, fields...)
	}
}

func (s *Service) logError(msg string, fields ...applogger.Field) {
	if s.logger != nil {
		s.logger.Error(msg, fields...)
	}
}
