package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	models "PacePulse/internal/domain/models"
	"PacePulse/internal/insight"
	icache "PacePulse/internal/service/cache"
	"PacePulse/internal/usecase"
	xhttp "PacePulse/pkg/http"
	xlogger "PacePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const profilesResponseTTL = 60 * time.Second

// InsightsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type InsightsEchoHandler struct {
	logger         *xlogger.Logger
	svc            *usecase.InsightService
	cache          icache.BytesCache
	healthFn       func(ctx context.Context) error
	insightEnabled bool
}

func NewInsightsEchoHandler(logger *xlogger.Logger, svc *usecase.InsightService, insightEnabled bool) *InsightsEchoHandler {
	return &InsightsEchoHandler{logger: logger, svc: svc, insightEnabled: insightEnabled}
}

// SetCache injects a response cache for the season profiles endpoint.
func (h *InsightsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetHealthCheck injects a dependency health probe for /health.
func (h *InsightsEchoHandler) SetHealthCheck(fn func(ctx context.Context) error) { h.healthFn = fn }

func (h *InsightsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/games/live", h.LiveGames)
	g.GET("/games/:id/insight", h.GameInsight)
	g.GET("/games/:id/lines", h.LineHistory)
	g.GET("/seasonProfiles", h.SeasonProfiles)
}

// Index reports service identity and the insight feature flag.
func (h *InsightsEchoHandler) Index(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"message":                 "NBA Pace Pulse API",
		"feature_betting_insight": h.insightEnabled,
	})
}

// Health reports liveness, probing downstream dependencies when a check is
// configured.
func (h *InsightsEchoHandler) Health(c echo.Context) error {
	if h.healthFn != nil {
		if err := h.healthFn(c.Request().Context()); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("dependency unhealthy").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *InsightsEchoHandler) LiveGames(c echo.Context) error {
	games, err := h.svc.LiveGames(c.Request().Context())
	if err != nil {
		h.logger.Error("live games usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, games)
}

func (h *InsightsEchoHandler) GameInsight(c echo.Context) error {
	req := &models.InsightRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.GameInsight(c.Request().Context(), req.GameID)
	if err != nil {
		h.logger.Error("insight usecase error",
			xlogger.String("gameId", req.GameID),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapInsightError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) LineHistory(c echo.Context) error {
	req := &models.LineHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ticks, err := h.svc.LineHistory(c.Request().Context(), req.GameID, req.Limit)
	if err != nil {
		h.logger.Error("line history usecase error",
			xlogger.String("gameId", req.GameID),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapInsightError(err))
	}
	return xhttp.SuccessResponse(c, ticks)
}

func (h *InsightsEchoHandler) SeasonProfiles(c echo.Context) error {
	req := &models.SeasonProfilesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	const cacheKey = "resp:seasonProfiles"
	if h.cache != nil && !req.ForceRefresh {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("season profiles cache_get_error", xlogger.Error(err))
		} else if ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	payload, err := h.svc.SeasonProfiles(c.Request().Context(), req.ForceRefresh)
	if err != nil {
		h.logger.Error("season profiles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := encodeResponse(payload); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, profilesResponseTTL); err != nil {
				h.logger.Warn("season profiles cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, payload)
}

// encodeResponse marshals data in the standard response envelope so cached
// bytes match what SuccessResponse would have written.
func encodeResponse(data interface{}) ([]byte, error) {
	return json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
}

// mapInsightError translates engine sentinels to HTTP application errors.
func mapInsightError(err error) error {
	switch {
	case errors.Is(err, insight.ErrProfileNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, insight.ErrLiveDataUnavailable):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	default:
		return err
	}
}
