package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/internal/model"
)

func healthRouter(store *model.Store) *gin.Engine {
	h := NewHealthHandler(store, nil)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/health/ready", h.Ready)
	router.GET("/health/live", h.Live)
	router.GET("/status", h.Status)
	return router
}

func TestHealth_ModelLoaded(t *testing.T) {
	store, _ := loadedStore(t)
	router := healthRouter(store)

	w := performRequest(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
}

func TestHealth_ModelNotLoaded(t *testing.T) {
	router := healthRouter(emptyStore(t))

	w := performRequest(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status": "unhealthy", "reason": "model not loaded"}`, w.Body.String())
}

func TestReady_SameGateAsHealth(t *testing.T) {
	router := healthRouter(emptyStore(t))

	w := performRequest(router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	store, _ := loadedStore(t)
	w = performRequest(healthRouter(store), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLive_AlwaysUp(t *testing.T) {
	// Liveness ignores the model: the process is alive even when degraded.
	router := healthRouter(emptyStore(t))

	w := performRequest(router, http.MethodGet, "/health/live", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "alive"}`, w.Body.String())
}

func TestStatus_WithoutDatabase(t *testing.T) {
	store, _ := loadedStore(t)
	router := healthRouter(store)

	w := performRequest(router, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.Equal(t, true, report["model_loaded"])
	assert.NotEmpty(t, report["model_path"])

	modelInfo, ok := report["model"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1.2.0", modelInfo["version"])

	db, ok := report["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, db["enabled"])
}

func TestStatus_ModelNotLoaded(t *testing.T) {
	router := healthRouter(emptyStore(t))

	w := performRequest(router, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, false, report["model_loaded"])
	_, hasModel := report["model"]
	assert.False(t, hasModel)
}
