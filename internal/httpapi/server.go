// Package httpapi exposes the clock engine over HTTP: JSON endpoints to read,
// synchronize and adjust the clock, a websocket stream of readings, Prometheus
// metrics and an optional static front end.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/acolita/ringclock/internal/adapters/realclock"
	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/config"
	"github.com/acolita/ringclock/internal/driver"
	"github.com/acolita/ringclock/internal/metrics"
	"github.com/acolita/ringclock/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
)

const (
	httpTimeout        = 1 * time.Minute
	httpMaxHeaderBytes = 1 << 20
	streamWriteTimeout = 10 * time.Second
)

// Server is the HTTP driver for a shared clock engine.
type Server struct {
	echo     *echo.Echo
	httpd    *http.Server
	cfg      config.HTTPConfig
	shared   *clock.Shared
	hub      *driver.Hub
	recorder *metrics.Recorder
	gatherer prometheus.Gatherer
	clock    ports.Clock
	logger   *slog.Logger
	lazyTick bool
	upgrader websocket.Upgrader

	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithHub enables /api/stream, fed by hub. The hub must also be registered as
// an observer of the shared engine.
func WithHub(h *driver.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithRecorder reports live stream client counts to r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithGatherer sets the metrics source for /metrics.
// The default is prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithClock sets the clock used to pace stream polling.
func WithClock(c ports.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithLogger sets the request logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRequestTicking makes reads advance the clock when a tick is due,
// instead of relying on a background timer.
func WithRequestTicking(on bool) Option {
	return func(s *Server) { s.lazyTick = on }
}

// NewServer builds the router for shared.
func NewServer(cfg config.HTTPConfig, shared *clock.Shared, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		shared:   shared,
		gatherer: prometheus.DefaultGatherer,
		clock:    realclock.New(),
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.allowOrigin,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(slogecho.New(s.logger))
	e.Use(middleware.Recover())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		}))
	}

	e.GET("/_health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/time", s.handleTime)
	api.GET("/sync", s.handleSync)
	api.POST("/sync", s.handleSync)
	api.GET("/adjust", s.handleAdjust)
	api.POST("/adjust", s.handleAdjust)
	if s.hub != nil {
		api.GET("/stream", s.handleStream)
	}

	if cfg.StaticDir != "" {
		e.GET("/*", s.handleStatic)
	}

	s.echo = e
	s.httpd = &http.Server{
		Handler:        s,
		Addr:           cfg.Listen,
		ReadTimeout:    httpTimeout,
		WriteTimeout:   httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	s.echo.ServeHTTP(rw, req)
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting HTTP server", slog.String("listen", s.cfg.Listen))
	if err := s.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, ends live streams and waits for
// in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	s.logger.Info("shutting down HTTP server")
	return s.httpd.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= 500 {
		s.logger.Warn("http internal error", slog.String("error", err.Error()))
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: msg})
}

func (s *Server) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
