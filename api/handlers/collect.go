package handlers

import (
	"errors"
	"net/http"

	"github.com/OldStager01/f1-predictor/internal/collector"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/pipeline"
	"github.com/OldStager01/f1-predictor/internal/resilience"
	"github.com/OldStager01/f1-predictor/pkg/validation"
	"github.com/gin-gonic/gin"
)

type CollectHandler struct {
	pipeline *pipeline.Pipeline
}

func NewCollectHandler(p *pipeline.Pipeline) *CollectHandler {
	return &CollectHandler{pipeline: p}
}

type CollectRequest struct {
	Season int    `json:"season" binding:"required" example:"2023"`
	Event  string `json:"event" binding:"required" example:"Monza"`
}

// Collect godoc
// @Summary Collect a race session
// @Description Fetch a session from the timing provider, write datasets and store laps
// @Tags Collection
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pipeline.Summary "Collection summary"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 502 {object} map[string]string "Provider failure"
// @Router /api/v1/collect [post]
func (h *CollectHandler) Collect(c *gin.Context) {
	var req CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := validation.ValidateSeason(req.Season); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateEventName(req.Event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event := validation.SanitizeString(req.Event)

	summary, err := h.pipeline.Run(c.Request.Context(), req.Season, event)
	if err != nil {
		logger.WithRace(req.Season, event).Errorf("Collection failed: %v", err)

		if isProviderFailure(err) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "collection failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "collection pipeline failed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// isProviderFailure separates upstream trouble, which is the provider's
// fault and maps to 502, from local processing or storage errors.
func isProviderFailure(err error) bool {
	return errors.Is(err, collector.ErrCollectionFailed) ||
		errors.Is(err, collector.ErrTimeout) ||
		errors.Is(err, collector.ErrSessionNotFound) ||
		errors.Is(err, collector.ErrInvalidResponse) ||
		errors.Is(err, resilience.ErrCircuitOpen)
}
