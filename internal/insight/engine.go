package insight

import (
	"context"
	"errors"
	"fmt"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	applogger "PacePulse/pkg/logger"
	"PacePulse/pkg/util"
)

var (
	// ErrProfileNotFound signals a missing season baseline for a team.
	ErrProfileNotFound = errors.New("season profile not found")
	// ErrLiveDataUnavailable signals missing or unusable live data.
	ErrLiveDataUnavailable = errors.New("live data unavailable")
)

// Engine computes betting insights from live snapshots and season baselines.
type Engine struct {
	live    domrepo.LiveStore
	memory  *PaceMemory
	logger  *applogger.Logger
	metrics domrepo.Metrics
}

// EngineOption configures Engine.
type EngineOption func(*Engine)

// WithLogger attaches a structured logger for telemetry.
func WithLogger(l *applogger.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m domrepo.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithMemory replaces the default pace memory.
func WithMemory(m *PaceMemory) EngineOption {
	return func(e *Engine) { e.memory = m }
}

// NewEngine creates an insight engine over a live store.
func NewEngine(live domrepo.LiveStore, opts ...EngineOption) *Engine {
	e := &Engine{
		live:   live,
		memory: NewPaceMemory(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildInsight renders the full insight for one game. The call is read-only
// apart from the pace memory, so repeated calls on unchanged inputs yield
// identical output.
func (e *Engine) BuildInsight(ctx context.Context, gameID string, profiles *models.SeasonProfileState) (*models.Insight, error) {
	snap, err := e.live.Snapshot(ctx, gameID)
	if err != nil || snap == nil || snap.LiveTotal == nil || snap.LiveBox == nil {
		return nil, fmt.Errorf("%w: game %s", ErrLiveDataUnavailable, gameID)
	}

	liveTotal := *snap.LiveTotal
	box := snap.LiveBox

	minutesElapsed, err := ElapsedMinutes(box.Quarter, box.Clock)
	if err != nil {
		return nil, fmt.Errorf("%w: game %s: %v", ErrLiveDataUnavailable, gameID, err)
	}
	paceValid := minutesElapsed >= MinElapsedMinutes

	homeProfile, ok := profiles.Team(box.Home.TeamID)
	if !ok {
		return nil, fmt.Errorf("%w: team %s", ErrProfileNotFound, box.Home.TeamID)
	}
	awayProfile, ok := profiles.Team(box.Away.TeamID)
	if !ok {
		return nil, fmt.Errorf("%w: team %s", ErrProfileNotFound, box.Away.TeamID)
	}

	livePace := Pace(Possessions(box.Home), Possessions(box.Away), minutesElapsed)

	if !paceValid || livePace < PaceMin || livePace > PaceMax {
		if last, found := e.memory.LastValid(gameID); found {
			livePace = last
		}
		paceValid = false
	} else {
		e.memory.Remember(gameID, livePace)
	}

	if e.metrics != nil {
		e.metrics.RecordLivePace(gameID, livePace)
	}

	paceDeltaPct := PaceDeltaPct(livePace, homeProfile, awayProfile)
	expectedTotal := ExpectedTotal(minutesElapsed, homeProfile, awayProfile)
	alignment := Alignment(liveTotal, expectedTotal)

	anchor := ChooseDefensiveAnchor(homeProfile, awayProfile, paceDeltaPct)
	summary := AssembleSummary(paceDeltaPct, alignment, snap.RateOfChange, box.Quarter, anchor)
	bias := BuildBias(snap.LineHistory, paceDeltaPct)

	lineChangeSinceTip := 0.0
	if len(snap.LineHistory) > 0 {
		lineChangeSinceTip = util.Round(liveTotal-snap.LineHistory[0].Total, 1)
	}

	cacheAge, hasAge := e.live.CacheAge(ctx, gameID)

	if e.logger != nil {
		fields := []applogger.Field{
			applogger.String("gameId", gameID),
			applogger.Bool("pace_valid", paceValid),
			applogger.String("alignment", alignment),
			applogger.Int("summary_length", len(summary)),
		}
		if hasAge {
			fields = append(fields, applogger.Int("cache_age", cacheAge))
		} else {
			fields = append(fields, applogger.Any("cache_age", nil))
		}
		e.logger.Info("insight_render", fields...)
	}
	if e.metrics != nil {
		e.metrics.RecordInsight(alignment)
	}

	return &models.Insight{
		Summary:      summary,
		Alignment:    alignment,
		PaceDeltaPct: util.Round(paceDeltaPct, 4),
		DefenseContext: models.DefenseContext{
			DefTeam:        anchor.TeamName,
			PSI:            anchor.PSI,
			TempoClampRate: anchor.TempoClampRate,
			DefDragScore:   anchor.DefDragScore,
		},
		Bias: bias,
		Supporting: models.Supporting{
			RateOfChange:       snap.RateOfChange,
			LineChangeSinceTip: lineChangeSinceTip,
			LiveTotal:          liveTotal,
			ExpectedTotalNow:   util.Round(expectedTotal, 1),
			Quarter:            box.Quarter,
			TimeRemaining:      box.Clock,
		},
	}, nil
}
