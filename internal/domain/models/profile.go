package models

import "time"

// TeamSeasonProfile is a season-long baseline for one team. Profiles are
// immutable for the lifetime of a refresh cycle; updates replace the whole
// state wholesale.
type TeamSeasonProfile struct {
	TeamID             string  `json:"TEAM_ID"`
	TeamName           string  `json:"TEAM_NAME"`
	Pace               float64 `json:"PACE"`
	PaceRank           int     `json:"PACE_RANK"`
	PtsPG              float64 `json:"PTS_PG"`
	Q1Share            float64 `json:"Q1_SHARE"`
	Q2Share            float64 `json:"Q2_SHARE"`
	Q3Share            float64 `json:"Q3_SHARE"`
	Q4Share            float64 `json:"Q4_SHARE"`
	DefRating          float64 `json:"DEF_RATING"`
	OppPtsPG           float64 `json:"OPP_PTS_PG"`
	OppEFGAllowed      float64 `json:"OPP_EFG_ALLOWED"`
	OppTovForcedPct    float64 `json:"OPP_TOV_FORCED_PCT"`
	DRBPct             float64 `json:"DRB_PCT"`
	OppFTRateAllowed   float64 `json:"OPP_FT_RATE_ALLOWED"`
	OppFBPtsAllowed    float64 `json:"OPP_FB_PTS_ALLOWED"`
	OppPITPAllowed     float64 `json:"OPP_PITP_ALLOWED"`
	Opp2ndChPtsAllowed float64 `json:"OPP_2NDCH_PTS_ALLOWED"`
	PSI                float64 `json:"PSI"`
	TempoClampRate     float64 `json:"TEMPO_CLAMP_RATE"`
	DefDragScore       float64 `json:"DEF_DRAG_SCORE"`
	TransitionKillRate float64 `json:"TRANSITION_KILL_RATE"`
	LateSlowTendency   float64 `json:"LATE_SLOW_TENDENCY"`
}

// SeasonProfileState is the full set of team baselines plus the refresh
// timestamp used for freshness checks.
type SeasonProfileState struct {
	Refreshed time.Time
	Teams     map[string]TeamSeasonProfile
}

// Team returns the profile for a team id, false when absent.
func (s *SeasonProfileState) Team(teamID string) (TeamSeasonProfile, bool) {
	p, ok := s.Teams[teamID]
	return p, ok
}

// SeasonProfilePayload is the wire/disk form of SeasonProfileState. Teams are
// serialized as a list so the payload matches the upstream snapshot shape.
type SeasonProfilePayload struct {
	Refreshed string              `json:"refreshed"`
	Teams     []TeamSeasonProfile `json:"teams"`
}

// ToPayload converts state into its serialized form.
func (s *SeasonProfileState) ToPayload() *SeasonProfilePayload {
	teams := make([]TeamSeasonProfile, 0, len(s.Teams))
	for _, p := range s.Teams {
		teams = append(teams, p)
	}
	return &SeasonProfilePayload{
		Refreshed: s.Refreshed.UTC().Format(time.RFC3339),
		Teams:     teams,
	}
}

// ToState converts a payload back into indexed state.
func (p *SeasonProfilePayload) ToState() (*SeasonProfileState, error) {
	refreshed, err := time.Parse(time.RFC3339, p.Refreshed)
	if err != nil {
		return nil, err
	}
	teams := make(map[string]TeamSeasonProfile, len(p.Teams))
	for _, t := range p.Teams {
		teams[t.TeamID] = t
	}
	return &SeasonProfileState{Refreshed: refreshed, Teams: teams}, nil
}
