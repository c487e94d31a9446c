package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tara/pkg/astro"
	"tara/pkg/chat"
	"tara/pkg/classify"
	"tara/pkg/inference"
	"tara/pkg/metrics"
	"tara/pkg/persona"
	"tara/pkg/segment"
)

// Config carries the server's collaborators. Astro may be nil: the
// astrology endpoints then report the unconfigured state instead of
// probing a missing client.
type Config struct {
	Registry   *persona.Registry
	Store      *chat.Store
	Inferencer inference.Inferencer
	Classifier *classify.Service
	Segmenter  *segment.Segmenter
	Summarizer chat.Summarizer
	Astro      *astro.Client
	Status     *astro.StatusCache
	Metrics    *metrics.Metrics
}

type Server struct {
	Echo *echo.Echo
	Ctx  context.Context

	registry   *persona.Registry
	store      *chat.Store
	inferencer inference.Inferencer
	classifier *classify.Service
	segmenter  *segment.Segmenter
	summarizer chat.Summarizer
	astro      *astro.Client
	status     *astro.StatusCache
	metrics    *metrics.Metrics
}

func NewServer(ctx context.Context, cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:       e,
		Ctx:        ctx,
		registry:   cfg.Registry,
		store:      cfg.Store,
		inferencer: cfg.Inferencer,
		classifier: cfg.Classifier,
		segmenter:  cfg.Segmenter,
		summarizer: cfg.Summarizer,
		astro:      cfg.Astro,
		status:     cfg.Status,
		metrics:    cfg.Metrics,
	}

	if s.metrics != nil {
		e.Use(s.observeRequests)
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/api/characters", s.handleGetCharacters)
	s.Echo.GET("/api/astrology-api-status", s.handleGetAstrologyStatus)

	api := s.Echo.Group("/api")
	api.POST("/chat", s.handlePostChat)
	api.POST("/astrology/d1-chart", s.handlePostD1Chart)
	api.POST("/astrology/planets", s.handlePostPlanetsProxy)
	api.GET("/astrology/test-credentials", s.handleGetTestCredentials)

	if s.metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

func (s *Server) observeRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		route := c.Path()
		if route == "" {
			route = c.Request().URL.Path
		}
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

// handleGetRoot reports liveness.
func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Tara Chat API",
		"status":  "ok",
	})
}

// handleGetCharacters lists the selectable personas.
func (s *Server) handleGetCharacters(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"characters": s.registry.List(),
	})
}
