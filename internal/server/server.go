// Package server exposes the birthday services over a JSON API, serves each
// user's iCalendar feed and publishes health and Prometheus endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-birthday-web/internal/auth"
	"github.com/tartampluch/go-birthday-web/internal/birthdays"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/engine"
	"github.com/tartampluch/go-birthday-web/internal/i18n"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers delegate to.
type Deps struct {
	Auth      *auth.Service
	Birthdays *birthdays.Service
	Importer  *engine.Importer
	Calendar  *engine.Generator
	Catalog   *i18n.Catalog
	Health    Pinger
	Metrics   *Metrics
}

// Server is the HTTP front of the application.
type Server struct {
	Addr string

	auth      *auth.Service
	birthdays *birthdays.Service
	importer  *engine.Importer
	calendar  *engine.Generator
	catalog   *i18n.Catalog
	health    Pinger
	metrics   *Metrics

	handler http.Handler
}

// New builds the router. Nil optional deps get working defaults.
func New(addr string, d Deps) *Server {
	s := &Server{
		Addr:      addr,
		auth:      d.Auth,
		birthdays: d.Birthdays,
		importer:  d.Importer,
		calendar:  d.Calendar,
		catalog:   d.Catalog,
		health:    d.Health,
		metrics:   d.Metrics,
	}
	if s.importer == nil {
		s.importer = &engine.Importer{Fetcher: engine.NewHTTPFetcher(config.HTTPTimeout, false)}
	}
	if s.calendar == nil {
		s.calendar = &engine.Generator{}
	}
	if s.catalog == nil {
		s.catalog = i18n.NewCatalog(config.DefaultLanguage)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.observe)
	r.Use(s.contentLanguage)

	r.Get(config.RouteHealth, s.handleHealth)
	r.Method(http.MethodGet, config.RouteMetrics, s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession(true))
		r.Get(config.RouteCalendar, s.handleCalendar)
		r.Head(config.RouteCalendar, s.handleCalendar)
	})

	r.Route(config.RouteAPI, func(r chi.Router) {
		r.Post(config.RouteRegister, s.handleRegister)
		r.Post(config.RouteLogin, s.handleLogin)
		r.Post(config.RouteLogout, s.handleLogout)

		r.Route(config.RouteBirthdays, func(r chi.Router) {
			r.Use(s.requireSession(false))
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get(config.RouteUpcoming, s.handleUpcoming)
			r.Post(config.RouteImport, s.handleImport)
			r.Get(config.RouteByID, s.handleGet)
			r.Put(config.RouteByID, s.handleUpdate)
			r.Delete(config.RouteByID, s.handleDelete)
		})
	})

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			slog.WarnContext(r.Context(), config.ErrDBQuery,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: config.HealthUnavailable})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: config.HealthOK})
}

// Start serves until ctx is cancelled, then drains open requests for at most
// config.ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.handler,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}
