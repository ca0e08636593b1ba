package insight

import (
	"strings"
	"testing"

	"PacePulse/internal/domain/models"
)

func strPtr(s string) *string { return &s }

func TestTempoSummaryBands(t *testing.T) {
	cases := []struct {
		delta float64
		want  string
	}{
		{0.20, "Tempo is much faster than normal."},
		{0.10, "Tempo is a bit faster than normal."},
		{-0.20, "Tempo is much slower than normal."},
		{-0.10, "Tempo is a bit slower than normal."},
		{0.0, "Tempo is near normal."},
		{0.099, "Tempo is near normal."},
	}
	for _, c := range cases {
		if got := tempoSummary(c.delta); got != c.want {
			t.Fatalf("delta=%v: want %q, got %q", c.delta, c.want, got)
		}
	}
}

func TestActionHintLateVolatilityWins(t *testing.T) {
	got := actionHint("below", 0.15, strPtr("FAST"), 4)
	if got != "Late volatility. Manage risk." {
		t.Fatalf("expected late volatility hint, got %q", got)
	}
}

func TestActionHintValueCalls(t *testing.T) {
	if got := actionHint("below", 0.10, nil, 2); got != "Over could have value." {
		t.Fatalf("expected over call, got %q", got)
	}
	if got := actionHint("above", -0.10, nil, 2); got != "Under could have value." {
		t.Fatalf("expected under call, got %q", got)
	}
	if got := actionHint("aligned", 0.0, nil, 2); got != "No clear edge right now." {
		t.Fatalf("expected no edge, got %q", got)
	}
	if got := actionHint("above", 0.15, nil, 2); got != "Watch for confirmation before acting." {
		t.Fatalf("expected watch hint, got %q", got)
	}
}

func TestAssembleSummaryClampPrefix(t *testing.T) {
	anchor := models.TeamSeasonProfile{PSI: -5, TempoClampRate: 0.6, DefDragScore: 50}
	got := AssembleSummary(0, "aligned", nil, 2, anchor)
	if !strings.HasPrefix(got, "Defensive clamp likely. Pace may regress. ") {
		t.Fatalf("expected clamp prefix, got %q", got)
	}
}

func TestAssembleSummaryDragOverrides(t *testing.T) {
	anchor := models.TeamSeasonProfile{DefDragScore: 80}
	got := AssembleSummary(0.15, "above", nil, 2, anchor)
	if !strings.HasSuffix(got, "Under could have value.") {
		t.Fatalf("expected drag override to under, got %q", got)
	}

	anchor = models.TeamSeasonProfile{DefDragScore: 40}
	got = AssembleSummary(-0.15, "below", nil, 2, anchor)
	if !strings.HasSuffix(got, "Over could have value.") {
		t.Fatalf("expected drag override to over, got %q", got)
	}
}

func TestAssembleSummaryVolatilitySuffix(t *testing.T) {
	anchor := models.TeamSeasonProfile{DefDragScore: 50}
	got := AssembleSummary(0, "aligned", strPtr("FAST"), 2, anchor)
	if !strings.HasSuffix(got, " Moves are fast. Expect swings.") {
		t.Fatalf("expected volatility suffix, got %q", got)
	}

	got = AssembleSummary(0, "aligned", strPtr("SLOW"), 2, anchor)
	if strings.Contains(got, "Expect swings") {
		t.Fatalf("unexpected volatility suffix for non-FAST flag: %q", got)
	}
}

func TestAssembleSummaryJoinsWithSingleSpaces(t *testing.T) {
	anchor := models.TeamSeasonProfile{DefDragScore: 50}
	got := AssembleSummary(0.05, "aligned", nil, 1, anchor)
	want := "Tempo is near normal. The line already reflects it. No clear edge right now."
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
