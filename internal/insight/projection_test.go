package insight

import (
	"math"
	"testing"

	"PacePulse/internal/domain/models"
)

func profileWith(pace, ptsPG float64) models.TeamSeasonProfile {
	return models.TeamSeasonProfile{
		Pace:    pace,
		PtsPG:   ptsPG,
		Q1Share: 0.25,
		Q2Share: 0.25,
		Q3Share: 0.25,
		Q4Share: 0.25,
	}
}

func TestPaceDeltaPct(t *testing.T) {
	home := profileWith(100, 110)
	away := profileWith(98, 105)

	got := PaceDeltaPct(108.9, home, away)
	want := (108.9 - 99.0) / 99.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPaceDeltaPctZeroBaseline(t *testing.T) {
	if got := PaceDeltaPct(100, profileWith(0, 0), profileWith(0, 0)); got != 0.0 {
		t.Fatalf("expected 0.0 on zero baseline, got %v", got)
	}
}

func TestExpectedPointsSoFarMidSecondQuarter(t *testing.T) {
	home := profileWith(100, 110)
	away := profileWith(98, 105)

	// 18 elapsed minutes: full Q1 plus half of Q2.
	got := ExpectedPointsSoFar(18, home, away)
	want := 110*0.25*1.0 + 110*0.25*0.5 + 105*0.25*1.0 + 105*0.25*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpectedPointsSoFarPregame(t *testing.T) {
	home := profileWith(100, 110)
	away := profileWith(98, 105)
	if got := ExpectedPointsSoFar(0, home, away); got != 215 {
		t.Fatalf("expected combined pts_pg 215, got %v", got)
	}
}

func TestExpectedTotalExtrapolates(t *testing.T) {
	home := profileWith(100, 110)
	away := profileWith(98, 105)

	got := ExpectedTotal(18, home, away)
	soFar := ExpectedPointsSoFar(18, home, away)
	want := soFar / (18.0 / 48.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpectedTotalFloorsAtOne(t *testing.T) {
	home := profileWith(100, 0)
	away := profileWith(98, 0)
	if got := ExpectedTotal(18, home, away); got != 1.0 {
		t.Fatalf("expected floor 1.0, got %v", got)
	}
}

func TestAlignmentBands(t *testing.T) {
	cases := []struct {
		live, expected float64
		want           string
	}{
		{103, 100, "above"},
		{97, 100, "below"},
		{102.9, 100, "aligned"},
		{97.1, 100, "aligned"},
		{100, 100, "aligned"},
		{50, 0, "aligned"},
	}
	for _, c := range cases {
		if got := Alignment(c.live, c.expected); got != c.want {
			t.Fatalf("live=%v expected=%v: want %q, got %q", c.live, c.expected, c.want, got)
		}
	}
}

func TestChooseDefensiveAnchor(t *testing.T) {
	home := profileWith(100, 110)
	home.TeamName = "Home"
	away := profileWith(98, 105)
	away.TeamName = "Away"

	// Fast game: lower-pace team anchors.
	if got := ChooseDefensiveAnchor(home, away, 0.1); got.TeamName != "Away" {
		t.Fatalf("expected Away, got %s", got.TeamName)
	}
	// Tie on positive delta resolves to home.
	if got := ChooseDefensiveAnchor(home, home, 0.1); got.TeamName != "Home" {
		t.Fatalf("expected Home on tie, got %s", got.TeamName)
	}
	// Slow game mirrors the choice.
	if got := ChooseDefensiveAnchor(away, home, -0.1); got.TeamName != "Away" {
		t.Fatalf("expected Away, got %s", got.TeamName)
	}
	if got := ChooseDefensiveAnchor(home, home, -0.1); got.TeamName != "Home" {
		t.Fatalf("expected Home on tie, got %s", got.TeamName)
	}
}
