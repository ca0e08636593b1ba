package profiles

import (
	"fmt"
	"sort"

	"PacePulse/internal/domain/models"
)

// Placeholder values for defensive indicators the dashboards do not carry.
// They match the upstream snapshot contract until a dedicated source exists.
const (
	placeholderPSI                = -5.0
	placeholderTempoClampRate     = 0.55
	placeholderTransitionKillRate = 0.5
	placeholderLateSlowTendency   = 0.4
)

// BuildProfiles merges the three dashboards into full team profiles and
// derives the composite drag score.
func BuildProfiles(base []BaseRow, advanced []AdvancedRow, fourFactors []FourFactorsRow) (map[string]models.TeamSeasonProfile, error) {
	advByTeam := make(map[string]AdvancedRow, len(advanced))
	for _, row := range advanced {
		advByTeam[row.TeamID] = row
	}
	ffByTeam := make(map[string]FourFactorsRow, len(fourFactors))
	for _, row := range fourFactors {
		ffByTeam[row.TeamID] = row
	}

	teams := make(map[string]models.TeamSeasonProfile, len(base))
	for _, row := range base {
		adv, ok := advByTeam[row.TeamID]
		if !ok {
			return nil, fmt.Errorf("team %s missing from advanced dashboard", row.TeamID)
		}
		ff, ok := ffByTeam[row.TeamID]
		if !ok {
			return nil, fmt.Errorf("team %s missing from four factors dashboard", row.TeamID)
		}

		ptsPG := row.PtsQtr1 + row.PtsQtr2 + row.PtsQtr3 + row.PtsQtr4
		share := func(qtr float64) float64 {
			if ptsPG <= 0 {
				return 0.0
			}
			return qtr / ptsPG
		}

		teams[row.TeamID] = models.TeamSeasonProfile{
			TeamID:             row.TeamID,
			TeamName:           row.TeamName,
			Pace:               adv.Pace,
			PaceRank:           adv.PaceRank,
			PtsPG:              ptsPG,
			Q1Share:            share(row.PtsQtr1),
			Q2Share:            share(row.PtsQtr2),
			Q3Share:            share(row.PtsQtr3),
			Q4Share:            share(row.PtsQtr4),
			DefRating:          adv.DefRating,
			OppPtsPG:           row.OppPts,
			OppEFGAllowed:      ff.OppEFGPct,
			OppTovForcedPct:    ff.OppTovPct,
			DRBPct:             ff.ReboundPct(),
			OppFTRateAllowed:   ff.FTRate(),
			PSI:                placeholderPSI,
			TempoClampRate:     placeholderTempoClampRate,
			TransitionKillRate: placeholderTransitionKillRate,
			LateSlowTendency:   placeholderLateSlowTendency,
		}
	}

	applyDragScores(teams)
	return teams, nil
}

// applyDragScores sets DEF_DRAG_SCORE from the mean percentile rank of the
// three defensive four-factor columns. Higher drag means a defense that slows
// and suppresses scoring.
func applyDragScores(teams map[string]models.TeamSeasonProfile) {
	ids := make([]string, 0, len(teams))
	efg := make([]float64, 0, len(teams))
	drb := make([]float64, 0, len(teams))
	ftr := make([]float64, 0, len(teams))
	for id, t := range teams {
		ids = append(ids, id)
		efg = append(efg, t.OppEFGAllowed)
		drb = append(drb, t.DRBPct)
		ftr = append(ftr, t.OppFTRateAllowed)
	}

	efgRank := percentileRanks(efg)
	drbRank := percentileRanks(drb)
	ftrRank := percentileRanks(ftr)

	for i, id := range ids {
		t := teams[id]
		t.DefDragScore = 100 - 100*(efgRank[i]+drbRank[i]+ftrRank[i])/3
		teams[id] = t
	}
}

// percentileRanks computes fractional ranks in (0,1], averaging ties.
func percentileRanks(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// average rank across the tie group, 1-based
		avg := float64(i+j+2) / 2.0
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg / float64(n)
		}
		i = j + 1
	}
	return ranks
}
