package insight

import "PacePulse/internal/domain/models"

// PaceDeltaPct compares live pace against the season baseline of both teams.
func PaceDeltaPct(livePace float64, home, away models.TeamSeasonProfile) float64 {
	baseline := (home.Pace + away.Pace) / 2.0
	if baseline <= 0 {
		return 0.0
	}
	return (livePace - baseline) / baseline
}

// ExpectedPointsSoFar walks each team's quarter scoring shares over the
// elapsed minutes to estimate how many points should be on the board.
func ExpectedPointsSoFar(minutesElapsed float64, home, away models.TeamSeasonProfile) float64 {
	if minutesElapsed <= 0 {
		return home.PtsPG + away.PtsPG
	}
	return expectedPoints(minutesElapsed, home) + expectedPoints(minutesElapsed, away)
}

func expectedPoints(minutesElapsed float64, team models.TeamSeasonProfile) float64 {
	shares := []float64{team.Q1Share, team.Q2Share, team.Q3Share, team.Q4Share}
	total := 0.0
	remaining := minutesElapsed
	for _, share := range shares {
		quarterMinutes := remaining
		if quarterMinutes > 12.0 {
			quarterMinutes = 12.0
		}
		if quarterMinutes < 0.0 {
			quarterMinutes = 0.0
		}
		remaining -= 12.0
		fraction := quarterMinutes / 12.0
		if fraction > 1.0 {
			fraction = 1.0
		}
		total += team.PtsPG * share * fraction
		if remaining <= 0 {
			break
		}
	}
	return total
}

// ExpectedTotal extrapolates the expected points so far to a full game.
func ExpectedTotal(minutesElapsed float64, home, away models.TeamSeasonProfile) float64 {
	if minutesElapsed <= 0 {
		return home.PtsPG + away.PtsPG
	}
	soFar := ExpectedPointsSoFar(minutesElapsed, home, away)
	total := soFar / (minutesElapsed / 48.0)
	if total < 1.0 {
		return 1.0
	}
	return total
}

// Alignment classifies the market total against the expected total.
func Alignment(liveTotal, expectedTotal float64) string {
	if expectedTotal <= 0 {
		return "aligned"
	}
	ratio := liveTotal / expectedTotal
	if ratio >= 1.03 {
		return "above"
	}
	if ratio <= 0.97 {
		return "below"
	}
	return "aligned"
}

// ChooseDefensiveAnchor picks the lower-pace team on fast games and mirrors
// the choice when tempo is below baseline.
func ChooseDefensiveAnchor(home, away models.TeamSeasonProfile, paceDeltaPct float64) models.TeamSeasonProfile {
	if paceDeltaPct >= 0 {
		if away.Pace < home.Pace {
			return away
		}
		return home
	}
	if home.Pace < away.Pace {
		return home
	}
	return away
}
