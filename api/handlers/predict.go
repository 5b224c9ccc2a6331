package handlers

import (
	"net/http"
	"time"

	"github.com/OldStager01/f1-predictor/api/middleware"
	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/logger"
	"github.com/OldStager01/f1-predictor/internal/metrics"
	"github.com/OldStager01/f1-predictor/internal/predictor"
	"github.com/OldStager01/f1-predictor/pkg/models"
	"github.com/gin-gonic/gin"
)

type PredictHandler struct {
	service   *predictor.Service
	publisher *events.Publisher
}

func NewPredictHandler(service *predictor.Service, publisher *events.Publisher) *PredictHandler {
	return &PredictHandler{service: service, publisher: publisher}
}

// Predict godoc
// @Summary Predict race winners
// @Description Run the winner classifier over one lap record or a batch
// @Tags Predictions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "winner flag, or an array of them for batch input"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Preprocessing or inference failed"
// @Failure 503 {object} map[string]string "Model not loaded"
// @Router /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	start := time.Now()
	pub := h.publisher.WithTraceID(middleware.GetTraceID(c))

	body, err := c.GetRawData()
	if err != nil {
		body = nil
	}

	result, perr := h.service.Predict(body)
	if perr != nil {
		h.reject(c, pub, perr, len(body))
		return
	}

	latency := time.Since(start)

	metrics.Get().IncPredictions()
	metrics.Get().AddPredictionRows(result.Rows())
	metrics.Get().ObservePredictionLatency(latency)

	pub.TransformWarnings(result.Warnings)
	for _, w := range result.Warnings {
		metrics.Get().IncTransformWarning(string(w.Code))
	}

	logs := make([]*models.PredictionLog, result.Rows())
	for i, winner := range result.Winners {
		logs[i] = models.NewPredictionLog(
			middleware.GetTraceID(c), result.Rows(), i, winner,
			result.ModelVersion, latency,
		)
	}
	pub.PredictionServed(logs)

	if result.Single {
		c.JSON(http.StatusOK, gin.H{"winner": result.Winners[0]})
		return
	}

	response := make([]gin.H, result.Rows())
	for i, winner := range result.Winners {
		response[i] = gin.H{"winner": winner}
	}
	c.JSON(http.StatusOK, response)
}

// reject renders a ladder failure. The client sees the stable reason; the
// detail stays in the log line keyed by trace ID.
func (h *PredictHandler) reject(c *gin.Context, pub *events.Publisher, perr *predictor.Error, bodyBytes int) {
	status := perr.Kind.HTTPStatus()

	logger.WithFields(map[string]interface{}{
		"kind":       perr.Kind.String(),
		"status":     status,
		"body_bytes": bodyBytes,
		"detail":     perr.Detail,
		"trace_id":   middleware.GetTraceID(c),
	}).Warn("Prediction rejected")

	metrics.Get().IncPredictionError(perr.Kind.String())
	pub.PredictionRejected(perr.Kind.String(), status)

	response := gin.H{"error": perr.Kind.Message()}
	if perr.Kind == predictor.KindFeatureMismatch {
		response["expected"] = perr.Expected
		response["actual"] = perr.Actual
	}

	c.JSON(status, response)
}
