package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/OldStager01/f1-predictor/pkg/config"
	"github.com/OldStager01/f1-predictor/pkg/database/queries"
	"github.com/OldStager01/f1-predictor/pkg/validation"
	"github.com/gin-gonic/gin"
)

// LapsHandler serves stored lap telemetry. The repository is nil when the
// server runs without a database.
type LapsHandler struct {
	lapRepo *queries.LapRepository
	config  *config.APIConfig
}

func NewLapsHandler(lapRepo *queries.LapRepository, cfg *config.APIConfig) *LapsHandler {
	return &LapsHandler{lapRepo: lapRepo, config: cfg}
}

// List godoc
// @Summary List stored laps
// @Description Query collected lap telemetry by season, event and driver
// @Tags Laps
// @Produce json
// @Security BearerAuth
// @Param season query int false "Championship season"
// @Param event query string false "Grand Prix name"
// @Param driver query string false "Driver code"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{} "Laps and count"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /api/v1/laps [get]
func (h *LapsHandler) List(c *gin.Context) {
	if h.lapRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	laps, err := h.lapRepo.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch laps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"laps":  laps,
		"count": len(laps),
	})
}

func (h *LapsHandler) parseFilter(c *gin.Context) (queries.LapFilter, bool) {
	var filter queries.LapFilter

	if raw := c.Query("season"); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "season must be an integer"})
			return filter, false
		}
		if err := validation.ValidateSeason(season); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return filter, false
		}
		filter.Season = season
	}

	if raw := c.Query("event"); raw != "" {
		if err := validation.ValidateEventName(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return filter, false
		}
		filter.Event = validation.SanitizeString(raw)
	}

	if raw := c.Query("driver"); raw != "" {
		if err := validation.ValidateDriverCode(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return filter, false
		}
		filter.Driver = validation.SanitizeString(raw)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Limit = validation.ClampLimit(limit, h.config.DefaultLimit, h.config.MaxLimit)

	return filter, true
}
