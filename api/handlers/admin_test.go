package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/f1-predictor/internal/auth"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/pkg/config"
)

func modelRouter(t *testing.T, store *model.Store) *gin.Engine {
	t.Helper()

	pub, _ := newPublisher(t)
	h := NewModelHandler(store, pub)
	router := gin.New()
	router.GET("/model", h.Get)
	router.POST("/model/reload", h.Reload)
	return router
}

func TestModelGet_ReturnsMetadata(t *testing.T) {
	store, _ := loadedStore(t)
	router := modelRouter(t, store)

	w := performRequest(router, http.MethodGet, "/model", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.0"`)
	assert.Contains(t, w.Body.String(), `"algorithm":"random_forest"`)
}

func TestModelGet_NotLoaded(t *testing.T) {
	router := modelRouter(t, emptyStore(t))

	w := performRequest(router, http.MethodGet, "/model", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "model not loaded"}`, w.Body.String())
}

func TestModelReload_SwapsArtifact(t *testing.T) {
	store, path := loadedStore(t)
	router := modelRouter(t, store)

	writeArtifact(t, path, "2.0.0", fullSchema)

	w := performRequest(router, http.MethodPost, "/model/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"2.0.0"`)

	w = performRequest(router, http.MethodGet, "/model", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"2.0.0"`)
}

func TestModelReload_FailureKeepsPreviousArtifact(t *testing.T) {
	store, path := loadedStore(t)
	router := modelRouter(t, store)

	require.NoError(t, os.Remove(path))

	w := performRequest(router, http.MethodPost, "/model/reload", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error": "model reload failed"}`, w.Body.String())

	// The broken reload must not disturb the serving artifact.
	w = performRequest(router, http.MethodGet, "/model", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.0"`)
}

const testAPIKey = "telemetry-admin-key"

func authRouter(t *testing.T, hash string) *gin.Engine {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:     "unit-test-secret",
		TokenDuration: time.Hour,
		Issuer:        "f1-predictor",
		APIKeyHash:    hash,
	}
	svc := auth.NewService(cfg.JWTSecret, cfg.Issuer, cfg.TokenDuration)
	h := NewAuthHandler(cfg, svc)

	router := gin.New()
	router.POST("/auth/token", h.Token)
	return router
}

func apiKeyHash(t *testing.T) string {
	t.Helper()

	hash, err := auth.HashAPIKey(testAPIKey)
	require.NoError(t, err)
	return hash
}

func TestToken_IssuesValidJWT(t *testing.T) {
	router := authRouter(t, apiKeyHash(t))

	body := fmt.Sprintf(`{"api_key": %q}`, testAPIKey)
	w := performRequest(router, http.MethodPost, "/auth/token", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	// The minted token must pass the same service it came from.
	svc := auth.NewService("unit-test-secret", "f1-predictor", time.Hour)
	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestToken_Rejections(t *testing.T) {
	hash := apiKeyHash(t)

	tests := []struct {
		name       string
		hash       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			hash:       hash,
			body:       `{"api_key": 42}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing key",
			hash:       hash,
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "key too short",
			hash:       hash,
			body:       `{"api_key": "short"}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid credentials",
		},
		{
			name:       "wrong key",
			hash:       hash,
			body:       `{"api_key": "plausible-but-wrong"}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid credentials",
		},
		{
			name:       "no hash configured",
			hash:       "",
			body:       fmt.Sprintf(`{"api_key": %q}`, testAPIKey),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "auth not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authRouter(t, tt.hash)

			w := performRequest(router, http.MethodPost, "/auth/token", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}
