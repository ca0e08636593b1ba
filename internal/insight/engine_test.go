package insight

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"PacePulse/internal/domain/models"
)

type fakeLiveStore struct {
	snapshots map[string]*models.LiveGameSnapshot
	ages      map[string]int
}

func (f *fakeLiveStore) Snapshot(_ context.Context, gameID string) (*models.LiveGameSnapshot, error) {
	snap, ok := f.snapshots[gameID]
	if !ok {
		return nil, errors.New("not found")
	}
	return snap, nil
}

func (f *fakeLiveStore) ListGames(_ context.Context) ([]*models.LiveGameSnapshot, error) {
	out := make([]*models.LiveGameSnapshot, 0, len(f.snapshots))
	for _, s := range f.snapshots {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeLiveStore) Apply(_ context.Context, _ *models.LineTick) error { return nil }

func (f *fakeLiveStore) CacheAge(_ context.Context, gameID string) (int, bool) {
	age, ok := f.ages[gameID]
	return age, ok
}

func floatPtr(v float64) *float64 { return &v }

func seasonState() *models.SeasonProfileState {
	home := models.TeamSeasonProfile{
		TeamID: "1610612738", TeamName: "Boston Celtics",
		Pace: 100, PtsPG: 110,
		Q1Share: 0.25, Q2Share: 0.25, Q3Share: 0.25, Q4Share: 0.25,
		PSI: -5, TempoClampRate: 0.55, DefDragScore: 50,
	}
	away := models.TeamSeasonProfile{
		TeamID: "1610612747", TeamName: "Los Angeles Lakers",
		Pace: 98, PtsPG: 105,
		Q1Share: 0.25, Q2Share: 0.25, Q3Share: 0.25, Q4Share: 0.25,
		PSI: -5, TempoClampRate: 0.55, DefDragScore: 50,
	}
	return &models.SeasonProfileState{
		Teams: map[string]models.TeamSeasonProfile{
			home.TeamID: home,
			away.TeamID: away,
		},
	}
}

func midGameSnapshot() *models.LiveGameSnapshot {
	return &models.LiveGameSnapshot{
		GameID:    "0022500001",
		LiveTotal: floatPtr(230.0),
		LineHistory: []models.LineHistoryEntry{
			{Total: 225.5}, {Total: 227.0}, {Total: 230.0},
		},
		LiveBox: &models.LiveBox{
			Quarter: 2,
			Clock:   "06:00",
			Home:    models.TeamBoxLine{TeamID: "1610612738", FGA: 40, OReb: 5, TOV: 7, FTA: 10},
			Away:    models.TeamBoxLine{TeamID: "1610612747", FGA: 38, OReb: 4, TOV: 6, FTA: 5},
		},
	}
}

func TestBuildInsightEndToEnd(t *testing.T) {
	store := &fakeLiveStore{
		snapshots: map[string]*models.LiveGameSnapshot{"0022500001": midGameSnapshot()},
		ages:      map[string]int{"0022500001": 12},
	}
	engine := NewEngine(store)

	got, err := engine.BuildInsight(context.Background(), "0022500001", seasonState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 18 min elapsed, possessions 46.4 and 42.2, pace 48*44.3/18 = 118.133...
	// baseline 99 so delta rounds to 0.1933.
	if got.PaceDeltaPct != 0.1933 {
		t.Fatalf("expected paceDeltaPct 0.1933, got %v", got.PaceDeltaPct)
	}
	// Expected so far 80.625 extrapolates to 215.0; 230/215 = 1.0698 -> above.
	if got.Alignment != "above" {
		t.Fatalf("expected above, got %s", got.Alignment)
	}
	if got.Supporting.ExpectedTotalNow != 215.0 {
		t.Fatalf("expected expectedTotalNow 215.0, got %v", got.Supporting.ExpectedTotalNow)
	}

	want := "Tempo is a bit faster than normal. The line looks a little high. Watch for confirmation before acting."
	if got.Summary != want {
		t.Fatalf("summary mismatch:\nwant %q\ngot  %q", want, got.Summary)
	}

	// Anchor is the lower-pace away team.
	if got.DefenseContext.DefTeam != "Los Angeles Lakers" {
		t.Fatalf("expected Lakers anchor, got %s", got.DefenseContext.DefTeam)
	}
	if got.DefenseContext.PSI != -5 || got.DefenseContext.TempoClampRate != 0.55 || got.DefenseContext.DefDragScore != 50 {
		t.Fatalf("unexpected defense context: %+v", got.DefenseContext)
	}

	if got.Bias.Status != "active" || got.Bias.Direction == nil || *got.Bias.Direction != "up" {
		t.Fatalf("unexpected bias: %+v", got.Bias)
	}
	if got.Bias.Confidence != 0.55 || got.Bias.AvgMovement != 2.25 || got.Bias.WindowMin != 3 || got.Bias.SampleSize != 3 {
		t.Fatalf("unexpected bias numbers: %+v", got.Bias)
	}

	if got.Supporting.LineChangeSinceTip != 4.5 {
		t.Fatalf("expected lineChangeSinceTip 4.5, got %v", got.Supporting.LineChangeSinceTip)
	}
	if got.Supporting.LiveTotal != 230.0 || got.Supporting.Quarter != 2 || got.Supporting.TimeRemaining != "06:00" {
		t.Fatalf("unexpected supporting block: %+v", got.Supporting)
	}
	if got.Supporting.RateOfChange != nil {
		t.Fatalf("expected null rateOfChange, got %v", *got.Supporting.RateOfChange)
	}
}

func TestBuildInsightIdempotent(t *testing.T) {
	store := &fakeLiveStore{
		snapshots: map[string]*models.LiveGameSnapshot{"0022500001": midGameSnapshot()},
	}
	engine := NewEngine(store)
	state := seasonState()

	first, err := engine.BuildInsight(context.Background(), "0022500001", state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.BuildInsight(context.Background(), "0022500001", state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical insights, got\n%+v\n%+v", first, second)
	}
}

func TestBuildInsightPaceMemoryFallback(t *testing.T) {
	snap := midGameSnapshot()
	store := &fakeLiveStore{
		snapshots: map[string]*models.LiveGameSnapshot{"0022500001": snap},
	}
	engine := NewEngine(store)
	state := seasonState()

	first, err := engine.BuildInsight(context.Background(), "0022500001", state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Early-game snapshot: under two elapsed minutes the estimate is
	// rejected and the remembered pace takes over.
	snap.LiveBox.Quarter = 1
	snap.LiveBox.Clock = "11:30"

	second, err := engine.BuildInsight(context.Background(), "0022500001", state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.PaceDeltaPct != first.PaceDeltaPct {
		t.Fatalf("expected remembered pace to hold delta at %v, got %v", first.PaceDeltaPct, second.PaceDeltaPct)
	}
}

func TestBuildInsightNoMemoryKeepsComputedPace(t *testing.T) {
	snap := midGameSnapshot()
	snap.LiveBox.Quarter = 1
	snap.LiveBox.Clock = "11:30"
	store := &fakeLiveStore{
		snapshots: map[string]*models.LiveGameSnapshot{"0022500001": snap},
	}
	engine := NewEngine(store)

	got, err := engine.BuildInsight(context.Background(), "0022500001", seasonState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.5 elapsed minutes inflates pace far above baseline; without a
	// remembered value the computed estimate is kept.
	if got.PaceDeltaPct < 10 {
		t.Fatalf("expected inflated delta from raw pace, got %v", got.PaceDeltaPct)
	}
}

func TestBuildInsightMissingProfile(t *testing.T) {
	store := &fakeLiveStore{
		snapshots: map[string]*models.LiveGameSnapshot{"0022500001": midGameSnapshot()},
	}
	engine := NewEngine(store)
	state := seasonState()
	delete(state.Teams, "1610612747")

	_, err := engine.BuildInsight(context.Background(), "0022500001", state)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestBuildInsightMissingLiveData(t *testing.T) {
	store := &fakeLiveStore{snapshots: map[string]*models.LiveGameSnapshot{}}
	engine := NewEngine(store)

	_, err := engine.BuildInsight(context.Background(), "0022500999", seasonState())
	if !errors.Is(err, ErrLiveDataUnavailable) {
		t.Fatalf("expected ErrLiveDataUnavailable, got %v", err)
	}

	// Snapshot without a box score is just as unusable.
	store.snapshots["0022500001"] = &models.LiveGameSnapshot{
		GameID:    "0022500001",
		LiveTotal: floatPtr(230.0),
	}
	_, err = engine.BuildInsight(context.Background(), "0022500001", seasonState())
	if !errors.Is(err, ErrLiveDataUnavailable) {
		t.Fatalf("expected ErrLiveDataUnavailable for missing box, got %v", err)
	}
}
