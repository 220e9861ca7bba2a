package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/articles"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/internal/pipeline"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

// Chatter answers one conversation turn.
type Chatter interface {
	Handle(ctx context.Context, text string) (pipeline.Response, error)
}

// Catalog yields the current article list.
type Catalog interface {
	Load(ctx context.Context) ([]models.ArticleRef, error)
}

// Deps are the collaborators the HTTP surface serves.
type Deps struct {
	Pipeline Chatter
	Index    Catalog
	Ranker   articles.Ranker
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	TopK     int
}

type Server struct {
	echo   *echo.Echo
	cfg    config.ServerConfig
	logger *zap.Logger
}

func New(cfg config.ServerConfig, telemetry config.TelemetryConfig, d Deps) *Server {
	cfg = cfg.Normalize()
	telemetry = telemetry.Normalize()
	logger := logging.OrNop(d.Logger).Named("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	registerDocs(e)
	if telemetry.Enabled {
		e.GET(telemetry.MetricsPath, echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")
	ch := &ChatHandler{Pipeline: d.Pipeline}
	ch.Register(api)
	ah := &ArticlesHandler{Index: d.Index, Ranker: d.Ranker, TopK: d.TopK}
	ah.Register(api.Group("/articles"))

	return &Server{echo: e, cfg: cfg, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Address))
		errCh <- s.echo.Start(s.cfg.Address)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ReadTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// errorHandler renders every error as {"error": msg} and logs it.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		fields := []zap.Field{
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("remote", c.RealIP()),
			zap.Error(err),
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Debug("request rejected", fields...)
		}
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}
}
