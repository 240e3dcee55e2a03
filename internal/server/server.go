// Package server exposes the learner and teacher services over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhisek/naturepower/internal/badges"
	"github.com/abhisek/naturepower/internal/catalog"
	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/gallery"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/prefs"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/teacher"
)

// Deps are the services the API serves.
type Deps struct {
	Catalog  *catalog.Catalog
	Progress *progress.Service
	Journal  *journal.Service
	Badges   *badges.Service
	Prefs    *prefs.Service
	Learn    *learn.Service
	Gallery  *gallery.Service
	Teacher  *teacher.Service
	Bus      *events.Bus
}

// Server is the HTTP API.
type Server struct {
	addr string
	echo *echo.Echo
	log  *logging.Logger
}

type appValidator struct {
	validate *validator.Validate
}

func (v appValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// New builds the router.
func New(addr string, d *Deps, log *logging.Logger) *Server {
	log = logging.OrNop(log).With("component", "server")
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				kv = append(kv, "error", v.Error)
			}
			log.Debug("request", kv...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.Validator = &appValidator{validate: validator.New()}
	e.HTTPErrorHandler = errorHandler(log)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Nature Power learning API")
	})

	v1 := e.Group("/v1")
	a := &api{Deps: d}
	a.registerProgress(v1)
	a.registerJournal(v1)
	a.registerBadges(v1)
	a.registerPrefs(v1)
	a.registerCatalog(v1)
	a.registerLearn(v1)
	a.registerGallery(v1)
	a.registerTeacher(v1)
	a.registerWidgets(v1)
	v1.GET("/events", a.streamEvents)

	return &Server{addr: addr, echo: e, log: log}
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.addr)
		errc <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type api struct {
	*Deps
}
