package profiles

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestBuildProfilesMergesAndDerives(t *testing.T) {
	base := []BaseRow{
		{TeamID: "1", TeamName: "One", PtsQtr1: 30, PtsQtr2: 28, PtsQtr3: 27, PtsQtr4: 25, OppPts: 108},
		{TeamID: "2", TeamName: "Two", PtsQtr1: 25, PtsQtr2: 25, PtsQtr3: 25, PtsQtr4: 25, OppPts: 112},
		{TeamID: "3", TeamName: "Three", PtsQtr1: 28, PtsQtr2: 27, PtsQtr3: 28, PtsQtr4: 29, OppPts: 115},
	}
	advanced := []AdvancedRow{
		{TeamID: "1", Pace: 99.0, PaceRank: 10, DefRating: 110.0},
		{TeamID: "2", Pace: 101.5, PaceRank: 5, DefRating: 112.0},
		{TeamID: "3", Pace: 97.2, PaceRank: 20, DefRating: 114.0},
	}
	fourFactors := []FourFactorsRow{
		{TeamID: "1", OppEFGPct: 0.51, OppTovPct: 0.14, DRBPct: f(0.70), OppFTRate: f(0.22)},
		{TeamID: "2", OppEFGPct: 0.53, OppTovPct: 0.13, DRBPct: f(0.72), OppFTRate: f(0.24)},
		{TeamID: "3", OppEFGPct: 0.55, OppTovPct: 0.12, DRBPct: f(0.74), OppFTRate: f(0.26)},
	}

	teams, err := BuildProfiles(base, advanced, fourFactors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}

	one := teams["1"]
	if one.PtsPG != 110 {
		t.Fatalf("expected pts_pg 110, got %v", one.PtsPG)
	}
	if math.Abs(one.Q1Share-30.0/110.0) > 1e-9 {
		t.Fatalf("unexpected q1 share: %v", one.Q1Share)
	}
	if one.Pace != 99.0 || one.PaceRank != 10 || one.DefRating != 110.0 {
		t.Fatalf("advanced merge failed: %+v", one)
	}
	if one.DRBPct != 0.70 || one.OppFTRateAllowed != 0.22 {
		t.Fatalf("four factors merge failed: %+v", one)
	}
	if one.PSI != -5 || one.TempoClampRate != 0.55 || one.TransitionKillRate != 0.5 || one.LateSlowTendency != 0.4 {
		t.Fatalf("placeholder defaults missing: %+v", one)
	}

	// All three columns increase from team 1 to team 3, so the drag score
	// decreases from 100-100/3 to 100-100.
	if math.Abs(teams["1"].DefDragScore-(100-100.0/3)) > 1e-9 {
		t.Fatalf("unexpected drag for team 1: %v", teams["1"].DefDragScore)
	}
	if math.Abs(teams["3"].DefDragScore-0) > 1e-9 {
		t.Fatalf("unexpected drag for team 3: %v", teams["3"].DefDragScore)
	}
}

func TestBuildProfilesMissingDashboardRow(t *testing.T) {
	base := []BaseRow{{TeamID: "1", TeamName: "One"}}
	if _, err := BuildProfiles(base, nil, nil); err == nil {
		t.Fatalf("expected error for missing advanced row")
	}
}

func TestFourFactorsAliases(t *testing.T) {
	row := FourFactorsRow{DRebPct: f(0.71), OppFTARate: f(0.25)}
	if row.ReboundPct() != 0.71 {
		t.Fatalf("expected DREB_PCT alias, got %v", row.ReboundPct())
	}
	if row.FTRate() != 0.25 {
		t.Fatalf("expected OPP_FTA_RATE alias, got %v", row.FTRate())
	}

	empty := FourFactorsRow{}
	if empty.ReboundPct() != 0.0 || empty.FTRate() != 0.0 {
		t.Fatalf("expected zero defaults for missing columns")
	}
}

func TestPercentileRanksTies(t *testing.T) {
	ranks := percentileRanks([]float64{1, 2, 2, 4})
	want := []float64{0.25, 0.625, 0.625, 1.0}
	for i := range want {
		if math.Abs(ranks[i]-want[i]) > 1e-9 {
			t.Fatalf("rank %d: want %v, got %v", i, want[i], ranks[i])
		}
	}
}
