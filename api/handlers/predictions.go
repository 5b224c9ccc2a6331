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

// PredictionsHandler serves the prediction audit log.
type PredictionsHandler struct {
	predRepo *queries.PredictionRepository
	config   *config.APIConfig
}

func NewPredictionsHandler(predRepo *queries.PredictionRepository, cfg *config.APIConfig) *PredictionsHandler {
	return &PredictionsHandler{predRepo: predRepo, config: cfg}
}

// Recent godoc
// @Summary Recent predictions
// @Description Most recently served prediction rows
// @Tags Predictions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows"
// @Success 200 {object} map[string]interface{} "Prediction log rows"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /api/v1/predictions/recent [get]
func (h *PredictionsHandler) Recent(c *gin.Context) {
	if h.predRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	limit = validation.ClampLimit(limit, h.config.DefaultLimit, h.config.MaxLimit)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	logs, err := h.predRepo.Recent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": logs,
		"count":       len(logs),
	})
}

// Stats godoc
// @Summary Prediction statistics
// @Description Aggregate counts over the prediction log
// @Tags Predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PredictionStats "Aggregates"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /api/v1/predictions/stats [get]
func (h *PredictionsHandler) Stats(c *gin.Context) {
	if h.predRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.predRepo.Stats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prediction stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
