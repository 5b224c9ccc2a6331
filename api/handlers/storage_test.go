package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/pkg/config"
)

func storageAPIConfig() *config.APIConfig {
	return &config.APIConfig{DefaultLimit: 50, MaxLimit: 500}
}

func TestLaps_StorageNotConfigured(t *testing.T) {
	h := NewLapsHandler(nil, storageAPIConfig())
	router := gin.New()
	router.GET("/laps", h.List)

	w := performRequest(router, http.MethodGet, "/laps", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "storage not configured"}`, w.Body.String())
}

func TestPredictions_StorageNotConfigured(t *testing.T) {
	h := NewPredictionsHandler(nil, storageAPIConfig())
	router := gin.New()
	router.GET("/predictions/recent", h.Recent)
	router.GET("/predictions/stats", h.Stats)

	for _, path := range []string{"/predictions/recent", "/predictions/stats"} {
		w := performRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.JSONEq(t, `{"error": "storage not configured"}`, w.Body.String(), path)
	}
}

func filterContext(t *testing.T, rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/laps?"+rawQuery, nil)
	return c, w
}

func TestParseFilter_DefaultLimit(t *testing.T) {
	h := NewLapsHandler(nil, storageAPIConfig())
	c, _ := filterContext(t, "")

	filter, ok := h.parseFilter(c)

	require.True(t, ok)
	assert.Zero(t, filter.Season)
	assert.Empty(t, filter.Event)
	assert.Empty(t, filter.Driver)
	assert.Equal(t, 50, filter.Limit)
}

func TestParseFilter_FullQuery(t *testing.T) {
	h := NewLapsHandler(nil, storageAPIConfig())
	c, _ := filterContext(t, "season=2023&event=Monza&driver=VER&limit=10")

	filter, ok := h.parseFilter(c)

	require.True(t, ok)
	assert.Equal(t, 2023, filter.Season)
	assert.Equal(t, "Monza", filter.Event)
	assert.Equal(t, "VER", filter.Driver)
	assert.Equal(t, 10, filter.Limit)
}

func TestParseFilter_ClampsOversizedLimit(t *testing.T) {
	h := NewLapsHandler(nil, storageAPIConfig())
	c, _ := filterContext(t, "limit=9999")

	filter, ok := h.parseFilter(c)

	require.True(t, ok)
	assert.Equal(t, 500, filter.Limit)
}

func TestParseFilter_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantError string
	}{
		{
			name:      "non numeric season",
			query:     "season=abc",
			wantError: "season must be an integer",
		},
		{
			name:      "season out of range",
			query:     "season=1900",
			wantError: "season must be 1950 or later",
		},
		{
			name:      "event too short",
			query:     "event=x",
			wantError: "event name",
		},
		{
			name:      "driver code too long",
			query:     "driver=VERSTAPPEN",
			wantError: "driver code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLapsHandler(nil, storageAPIConfig())
			c, w := filterContext(t, tt.query)

			_, ok := h.parseFilter(c)

			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}
