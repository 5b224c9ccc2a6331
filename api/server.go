package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OldStager01/f1-predictor/api/handlers"
	"github.com/OldStager01/f1-predictor/api/middleware"
	"github.com/OldStager01/f1-predictor/api/websocket"
	_ "github.com/OldStager01/f1-predictor/docs"
	"github.com/OldStager01/f1-predictor/internal/auth"
	"github.com/OldStager01/f1-predictor/internal/events"
	"github.com/OldStager01/f1-predictor/internal/model"
	"github.com/OldStager01/f1-predictor/internal/pipeline"
	"github.com/OldStager01/f1-predictor/internal/predictor"
	"github.com/OldStager01/f1-predictor/pkg/config"
	"github.com/OldStager01/f1-predictor/pkg/database"
	"github.com/OldStager01/f1-predictor/pkg/database/queries"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the shared components the server exposes over HTTP. DB
// is nil when storage is disabled; everything else is required.
type Dependencies struct {
	DB        *database.DB
	Store     *model.Store
	Service   *predictor.Service
	Bus       *events.EventBus
	Publisher *events.Publisher
	Pipeline  *pipeline.Pipeline
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	deps        Dependencies
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	switch cfg.App.Mode {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	authService := auth.NewService(
		cfg.API.Auth.JWTSecret,
		cfg.API.Auth.Issuer,
		cfg.API.Auth.TokenDuration,
	)
	wsHub := websocket.NewHub(&cfg.WebSocket)

	s := &Server{
		router:      router,
		config:      cfg,
		deps:        deps,
		authService: authService,
		wsHub:       wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	// Start WebSocket hub
	go wsHub.Run()

	// Bridge bus events to WebSocket clients
	s.wsBridge = websocket.NewEventBridge(wsHub, deps.Bus.SubscribeAll())
	s.wsBridge.Start()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.RequestSizeLimit(s.config.API.MaxBodyBytes))
	s.router.Use(middleware.CORS(s.corsConfig()))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())

	rateLimiter := middleware.NewRateLimiter(s.config.API.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))
}

func (s *Server) corsConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(s.config.API.CORS.AllowedOrigins) > 0 {
		cfg.AllowOrigins = s.config.API.CORS.AllowedOrigins
	}
	if len(s.config.API.CORS.AllowedMethods) > 0 {
		cfg.AllowMethods = s.config.API.CORS.AllowedMethods
	}
	if len(s.config.API.CORS.AllowedHeaders) > 0 {
		cfg.AllowHeaders = s.config.API.CORS.AllowedHeaders
	}
	if len(s.config.API.CORS.ExposedHeaders) > 0 {
		cfg.ExposeHeaders = s.config.API.CORS.ExposedHeaders
	}
	cfg.AllowCredentials = s.config.API.CORS.AllowCredentials
	return cfg
}

func (s *Server) setupRoutes() {
	// Repositories exist only when a database does
	var lapRepo *queries.LapRepository
	var predRepo *queries.PredictionRepository
	if s.deps.DB != nil {
		lapRepo = queries.NewLapRepository(s.deps.DB.DB)
		predRepo = queries.NewPredictionRepository(s.deps.DB.DB)
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(s.deps.Store, s.deps.DB)
	predictHandler := handlers.NewPredictHandler(s.deps.Service, s.deps.Publisher)
	modelHandler := handlers.NewModelHandler(s.deps.Store, s.deps.Publisher)
	authHandler := handlers.NewAuthHandler(s.config.API.Auth, s.authService)
	lapsHandler := handlers.NewLapsHandler(lapRepo, &s.config.API)
	predictionsHandler := handlers.NewPredictionsHandler(predRepo, &s.config.API)
	collectHandler := handlers.NewCollectHandler(s.deps.Pipeline)

	// Public routes
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	s.router.POST("/predict", predictHandler.Predict)
	s.router.GET("/model", modelHandler.Get)

	// WebSocket route
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	// Swagger UI
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Token exchange gets its own tight limit on top of the global one
	s.router.POST("/api/v1/auth/token", middleware.AuthRateLimiter(), authHandler.Token)

	// Collection is expensive upstream; budget it per endpoint
	endpointLimits := middleware.NewEndpointRateLimiter()
	endpointLimits.AddEndpoint("/api/v1/collect", 10, time.Minute)

	// Protected routes
	protected := s.router.Group("/api/v1")
	protected.Use(middleware.JWTAuth(s.authService))
	protected.Use(endpointLimits.Middleware())
	{
		protected.POST("/model/reload", modelHandler.Reload)
		protected.POST("/collect", collectHandler.Collect)
		protected.GET("/laps", lapsHandler.List)
		protected.GET("/predictions/recent", predictionsHandler.Recent)
		protected.GET("/predictions/stats", predictionsHandler.Stats)
		protected.GET("/status", healthHandler.Status)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  s.config.API.IdleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
