package insight

import "PacePulse/internal/domain/models"

const (
	PaceMin = 60.0
	PaceMax = 120.0
	// MinElapsedMinutes is the minimum playing time before a pace estimate
	// is trusted.
	MinElapsedMinutes = 2.0
)

// Possessions estimates possessions used from counting stats.
func Possessions(t models.TeamBoxLine) float64 {
	return t.FGA - t.OReb + t.TOV + 0.44*t.FTA
}

// Pace extrapolates the per-48 possession rate from both teams' possession
// counts. Returns the floor value when no time has elapsed.
func Pace(possA, possB, minutesElapsed float64) float64 {
	if minutesElapsed <= 0 {
		return PaceMin
	}
	avg := (possA + possB) / 2.0
	return 48 * (avg / minutesElapsed)
}
