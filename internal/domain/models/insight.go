package models

// DefenseContext describes the defensive anchor team chosen for the insight.
type DefenseContext struct {
	DefTeam        string  `json:"defTeam"`
	PSI            float64 `json:"psi"`
	TempoClampRate float64 `json:"tempoClampRate"`
	DefDragScore   float64 `json:"defDragScore"`
}

// Bias summarizes recent line movement. Direction is null unless the bias is
// active (three or more history samples).
type Bias struct {
	Status      string  `json:"status"` // "active" or "inactive"
	Direction   *string `json:"direction"`
	Confidence  float64 `json:"confidence"`
	AvgMovement float64 `json:"avgMovement"`
	WindowMin   int     `json:"windowMin"`
	SampleSize  int     `json:"sampleSize"`
}

// Supporting carries the raw numbers behind the verdict.
type Supporting struct {
	RateOfChange       *string `json:"rateOfChange"`
	LineChangeSinceTip float64 `json:"lineChangeSinceTip"`
	LiveTotal          float64 `json:"liveTotal"`
	ExpectedTotalNow   float64 `json:"expectedTotalNow"`
	Quarter            int     `json:"quarter"`
	TimeRemaining      string  `json:"timeRemaining"`
}

// Insight is the full betting insight payload for one game.
type Insight struct {
	Summary        string         `json:"summary"`
	Alignment      string         `json:"alignment"` // "above", "below", "aligned"
	PaceDeltaPct   float64        `json:"paceDeltaPct"`
	DefenseContext DefenseContext `json:"defenseContext"`
	Bias           Bias           `json:"bias"`
	Supporting     Supporting     `json:"supporting"`
}
