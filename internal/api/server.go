package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/api/handlers"
	"sentinel-monitor-go/internal/api/middleware"
	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/services"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	healthHandler    *handlers.HealthHandler
	cameraHandler    *handlers.CameraHandler
	incidentHandler  *handlers.IncidentHandler
	dashboardHandler *handlers.DashboardHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		config:           cfg,
		router:           gin.New(),
		healthHandler:    handlers.NewHealthHandler(cfg.MonitorID, cfg.Version),
		cameraHandler:    handlers.NewCameraHandler(container.Registry, container.Store),
		incidentHandler:  handlers.NewIncidentHandler(container.Store),
		dashboardHandler: handlers.NewDashboardHandler(container.Registry, container.Store),
	}
}

func (s *Server) Setup() {
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestID())
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.MonitorInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	cameras := s.router.Group("/cameras")
	{
		cameras.GET("", s.cameraHandler.ListCameras)
		cameras.POST("", s.cameraHandler.AddCamera)
		cameras.DELETE("/:id", s.cameraHandler.RemoveCamera)
		cameras.GET("/:id", s.cameraHandler.GetCamera)
		cameras.POST("/refresh", s.cameraHandler.RefreshRegistry)
	}

	incidents := s.router.Group("/incidents")
	{
		incidents.GET("", s.incidentHandler.ListIncidents)
		incidents.PUT("/:id/status", s.incidentHandler.SetStatus)
	}

	s.router.GET("/dashboard/summary", s.dashboardHandler.Summary)
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting Sentinel Monitor API")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
