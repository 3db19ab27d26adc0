package dashboard

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/backend"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/config"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/queue"
)

//go:embed dashboard.html
var dashboardHTML []byte

const (
	// cloudTimeout bounds the control plane calls made on behalf of
	// dashboard requests.
	cloudTimeout = 15 * time.Second

	// feedPushInterval is how often the feed socket re-polls the
	// control plane.
	feedPushInterval = 3 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Options wires a Server.
type Options struct {
	Config  *config.Config
	Client  *backend.Client
	Version string

	// Queue is the local offline queue, read-only from here: the
	// dashboard previews it but never mutates or replays it.
	Queue *queue.Queue

	// Collector refreshes queue depth and live worker gauges while
	// the server runs. Optional.
	Collector *metrics.Collector
}

// Server is the local command center: it serves the embedded
// dashboard page, a JSON API over the control plane, a live feed
// socket and the Prometheus endpoint.
type Server struct {
	cfg       *config.Config
	client    *backend.Client
	version   string
	queue     *queue.Queue
	collector *metrics.Collector
	logger    zerolog.Logger
	engine    *gin.Engine
	httpSrv   *http.Server
}

// New creates a dashboard server and mounts its routes.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:       opts.Config,
		client:    opts.Client,
		version:   opts.Version,
		queue:     opts.Queue,
		collector: opts.Collector,
		logger:    log.WithComponent("dashboard"),
		engine:    engine,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.engine.GET("/ws/feed", s.feedSocket)

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/status", s.status)
		api.GET("/feed", s.feed)
		api.GET("/agents", s.agents)
		api.GET("/models", s.models)
		api.GET("/queue", s.queuePreview)
		api.POST("/task", s.queueTask)
		api.POST("/config", s.updateConfig)
	}
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.collector != nil {
		s.collector.Start()
		defer s.collector.Stop()
	}

	s.httpSrv = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("Dashboard listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info().Msg("Dashboard stopped")
	return nil
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}
