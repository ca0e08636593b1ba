package insight

import (
	"strings"

	"PacePulse/internal/domain/models"
)

func tempoSummary(paceDeltaPct float64) string {
	pct := paceDeltaPct * 100
	switch {
	case pct >= 20:
		return "Tempo is much faster than normal."
	case pct >= 10:
		return "Tempo is a bit faster than normal."
	case pct <= -20:
		return "Tempo is much slower than normal."
	case pct <= -10:
		return "Tempo is a bit slower than normal."
	default:
		return "Tempo is near normal."
	}
}

func marketClause(alignment string) string {
	switch alignment {
	case "above":
		return "The line looks a little high."
	case "below":
		return "The line looks a little low."
	default:
		return "The line already reflects it."
	}
}

func actionHint(alignment string, paceDeltaPct float64, rateFlag *string, quarter int) string {
	pct := paceDeltaPct * 100
	if quarter == 4 && rateFlag != nil && *rateFlag == "FAST" {
		return "Late volatility. Manage risk."
	}
	if alignment == "below" && pct >= 10 {
		return "Over could have value."
	}
	if alignment == "above" && pct <= -10 {
		return "Under could have value."
	}
	if alignment == "aligned" {
		return "No clear edge right now."
	}
	return "Watch for confirmation before acting."
}

func volatilityTag(rateFlag *string) string {
	if rateFlag != nil && *rateFlag == "FAST" {
		return " Moves are fast. Expect swings."
	}
	return ""
}

// AssembleSummary builds the narrative: tempo clause, market clause, action
// hint, with defensive overrides applied before joining.
func AssembleSummary(paceDeltaPct float64, alignment string, rateFlag *string, quarter int, anchor models.TeamSeasonProfile) string {
	parts := []string{
		tempoSummary(paceDeltaPct),
		marketClause(alignment),
		actionHint(alignment, paceDeltaPct, rateFlag, quarter),
	}

	if anchor.PSI <= -5 && anchor.TempoClampRate >= 0.6 {
		parts = append([]string{"Defensive clamp likely. Pace may regress."}, parts...)
	}
	if anchor.DefDragScore >= 80 && alignment == "above" {
		parts[len(parts)-1] = "Under could have value."
	}
	if anchor.DefDragScore <= 40 && alignment == "below" {
		parts[len(parts)-1] = "Over could have value."
	}

	return strings.Join(parts, " ") + volatilityTag(rateFlag)
}
