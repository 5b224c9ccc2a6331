package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/pkg/database"
	"github.com/gin-gonic/gin"
)

// HealthHandler gates health on the model store: the service exists to
// serve predictions, so readiness means an artifact is installed. The
// database is reported by Status but never gates health.
type HealthHandler struct {
	store *model.Store
	db    *database.DB
}

func NewHealthHandler(store *model.Store, db *database.DB) *HealthHandler {
	return &HealthHandler{store: store, db: db}
}

// Health godoc
// @Summary Service health
// @Description Healthy iff a model artifact is loaded
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Model loaded"
// @Failure 503 {object} map[string]string "Model not loaded"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if !h.store.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"reason": "model not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready is the readiness probe; it applies the same gate as Health.
func (h *HealthHandler) Ready(c *gin.Context) {
	h.Health(c)
}

// Live godoc
// @Summary Liveness probe
// @Description Always 200 while the process runs
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Process alive"
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Status godoc
// @Summary Operational status
// @Description Model, storage and pool details for operators
// @Tags Health
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Status report"
// @Router /api/v1/status [get]
func (h *HealthHandler) Status(c *gin.Context) {
	report := gin.H{
		"model_loaded": h.store.Loaded(),
		"model_path":   h.store.Path(),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	if artifact := h.store.Current(); artifact != nil {
		report["model"] = artifact.Metadata()
	}

	if h.db == nil {
		report["database"] = gin.H{"enabled": false}
		c.JSON(http.StatusOK, report)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbReport := gin.H{"enabled": true}
	if err := h.db.HealthCheck(ctx); err != nil {
		dbReport["status"] = "unhealthy: " + err.Error()
	} else {
		dbReport["status"] = "healthy"
		if version, err := h.db.GetVersion(ctx); err == nil {
			dbReport["version"] = version
		}
		if exists, err := h.db.TableExists(ctx, "laps"); err == nil {
			dbReport["migrated"] = exists
		}
		stats := h.db.GetConnectionStats()
		dbReport["connections"] = gin.H{
			"open":   stats.OpenConnections,
			"in_use": stats.InUse,
			"idle":   stats.Idle,
		}
	}
	report["database"] = dbReport

	c.JSON(http.StatusOK, report)
}
