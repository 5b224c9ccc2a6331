package handlers

import (
	"net/http"

	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/metrics"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/gin-gonic/gin"
)

type ModelHandler struct {
	store     *model.Store
	publisher *events.Publisher
}

func NewModelHandler(store *model.Store, publisher *events.Publisher) *ModelHandler {
	return &ModelHandler{store: store, publisher: publisher}
}

// Get godoc
// @Summary Model metadata
// @Description Describe the currently loaded artifact
// @Tags Model
// @Produce json
// @Success 200 {object} model.Info "Artifact metadata"
// @Failure 503 {object} map[string]string "Model not loaded"
// @Router /model [get]
func (h *ModelHandler) Get(c *gin.Context) {
	artifact := h.store.Current()
	if artifact == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
		return
	}

	c.JSON(http.StatusOK, artifact.Metadata())
}

// Reload godoc
// @Summary Reload the model artifact
// @Description Re-read the configured artifact path and swap it in atomically
// @Tags Model
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Info "New artifact metadata"
// @Failure 502 {object} map[string]string "Reload failed, previous artifact still serving"
// @Router /api/v1/model/reload [post]
func (h *ModelHandler) Reload(c *gin.Context) {
	info, err := h.store.Load()
	if err != nil {
		logger.Errorf("Model reload failed: %v", err)
		h.publisher.ModelReloadFailed(err)
		metrics.Get().IncModelReload("failure")

		c.JSON(http.StatusBadGateway, gin.H{"error": "model reload failed"})
		return
	}

	h.publisher.ModelReloaded(info.Version, info.FeatureCount, info.TreeCount)
	metrics.Get().IncModelReload("success")
	metrics.Get().SetModelLoaded(true)

	logger.Infof("Model reloaded: version %s, %d features, %d trees",
		info.Version, info.FeatureCount, info.TreeCount)

	c.JSON(http.StatusOK, info)
}
