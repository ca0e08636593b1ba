package models

// Requests for insight HTTP endpoints. Defined in domain for consistency and reuse.

type InsightRequest struct {
	GameID string `param:"id" json:"gameId" validate:"required"`
}

type SeasonProfilesRequest struct {
	ForceRefresh bool `query:"force_refresh" json:"forceRefresh"`
}

type LineHistoryRequest struct {
	GameID string `param:"id" json:"gameId" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}
