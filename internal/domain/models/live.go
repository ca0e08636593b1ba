package models

import "time"

// TeamBoxLine holds the live counting stats needed for possession math.
type TeamBoxLine struct {
	TeamID string  `json:"teamId"`
	FGA    float64 `json:"fga"`
	OReb   float64 `json:"oreb"`
	TOV    float64 `json:"tov"`
	FTA    float64 `json:"fta"`
}

// LiveBox is the in-game box score snapshot for both teams.
type LiveBox struct {
	Quarter int         `json:"quarter"`
	Clock   string      `json:"clock"` // "MM:SS" remaining in quarter
	Home    TeamBoxLine `json:"home"`
	Away    TeamBoxLine `json:"away"`
}

// LineHistoryEntry is one recorded market total for a game.
type LineHistoryEntry struct {
	Total     float64 `json:"total"`
	Timestamp string  `json:"timestamp"`
}

// LiveGameSnapshot is the cached live state for one game: the current market
// total, its recent history, and the live box score.
type LiveGameSnapshot struct {
	GameID       string             `json:"gameId"`
	LiveTotal    *float64           `json:"liveTotal"`
	RateOfChange *string            `json:"rateOfChange,omitempty"`
	Updated      string             `json:"updated,omitempty"`
	LineHistory  []LineHistoryEntry `json:"lineHistory"`
	LiveBox      *LiveBox           `json:"liveBox"`
}

// LineTick is a single live market total update flowing through the pipeline.
type LineTick struct {
	GameID       string    `json:"gameId"`
	Total        float64   `json:"total"`
	RateOfChange string    `json:"rateOfChange,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	LiveBox      *LiveBox  `json:"liveBox,omitempty"`
}
