package profiles

import (
	"context"
	"fmt"
	"time"

	xhttp "PacePulse/pkg/http"
)

// Measure types exposed by the league stats provider.
const (
	MeasureBase        = "Base"
	MeasureAdvanced    = "Advanced"
	MeasureFourFactors = "Four Factors"
)

// BaseRow is a per-team row from the Base measure.
type BaseRow struct {
	TeamID   string  `json:"TEAM_ID"`
	TeamName string  `json:"TEAM_NAME"`
	PtsQtr1  float64 `json:"PTS_QTR1"`
	PtsQtr2  float64 `json:"PTS_QTR2"`
	PtsQtr3  float64 `json:"PTS_QTR3"`
	PtsQtr4  float64 `json:"PTS_QTR4"`
	OppPts   float64 `json:"OPP_PTS"`
}

// AdvancedRow is a per-team row from the Advanced measure.
type AdvancedRow struct {
	TeamID    string  `json:"TEAM_ID"`
	Pace      float64 `json:"PACE"`
	PaceRank  int     `json:"PACE_RANK"`
	DefRating float64 `json:"DEF_RATING"`
}

// FourFactorsRow is a per-team row from the Four Factors measure. The
// rebounding and free-throw-rate columns vary by provider version, so each
// carries its known aliases.
type FourFactorsRow struct {
	TeamID    string  `json:"TEAM_ID"`
	OppEFGPct float64 `json:"OPP_EFG_PCT"`
	OppTovPct float64 `json:"OPP_TOV_PCT"`

	DRBPct    *float64 `json:"DRB_PCT"`
	DRebPct   *float64 `json:"DREB_PCT"`
	DefRebPct *float64 `json:"DEF_REB_PCT"`

	OppFTRate        *float64 `json:"OPP_FT_RATE"`
	OppFTARate       *float64 `json:"OPP_FTA_RATE"`
	OppFTRateAllowed *float64 `json:"OPP_FT_RATE_ALLOWED"`
}

// ReboundPct resolves the defensive rebound column across aliases.
func (r *FourFactorsRow) ReboundPct() float64 {
	for _, v := range []*float64{r.DRBPct, r.DRebPct, r.DefRebPct} {
		if v != nil {
			return *v
		}
	}
	return 0.0
}

// FTRate resolves the opponent free-throw-rate column across aliases.
func (r *FourFactorsRow) FTRate() float64 {
	for _, v := range []*float64{r.OppFTRate, r.OppFTARate, r.OppFTRateAllowed} {
		if v != nil {
			return *v
		}
	}
	return 0.0
}

// ProviderConfig holds the league stats API settings.
type ProviderConfig struct {
	BaseURL    string
	APIKey     string
	Season     string
	SeasonType string
	Timeout    time.Duration
}

// Provider fetches per-game league dashboards from the stats API.
type Provider struct {
	cfg    ProviderConfig
	client *xhttp.Client
}

// NewProvider creates a stats API client.
func NewProvider(cfg ProviderConfig) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		cfg:    cfg,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type dashResponse[T any] struct {
	Rows []T `json:"rows"`
}

func fetchDash[T any](ctx context.Context, p *Provider, measure string) ([]T, error) {
	var resp dashResponse[T]
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.cfg.BaseURL + "/leagueDashTeamStats",
		Headers: map[string]string{
			"Authorization": "Bearer " + p.cfg.APIKey,
		},
		QueryParams: map[string][]string{
			"measure":    {measure},
			"season":     {p.cfg.Season},
			"seasonType": {p.cfg.SeasonType},
			"perMode":    {"PerGame"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s dashboard: %w", measure, err)
	}
	return resp.Rows, nil
}

// FetchBase returns the Base measure rows.
func (p *Provider) FetchBase(ctx context.Context) ([]BaseRow, error) {
	return fetchDash[BaseRow](ctx, p, MeasureBase)
}

// FetchAdvanced returns the Advanced measure rows.
func (p *Provider) FetchAdvanced(ctx context.Context) ([]AdvancedRow, error) {
	return fetchDash[AdvancedRow](ctx, p, MeasureAdvanced)
}

// FetchFourFactors returns the Four Factors measure rows.
func (p *Provider) FetchFourFactors(ctx context.Context) ([]FourFactorsRow, error) {
	return fetchDash[FourFactorsRow](ctx, p, MeasureFourFactors)
}
