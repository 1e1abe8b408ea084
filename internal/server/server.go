package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/handlers"
	"github.com/exercise-tracker/apiserver/internal/logger"
	"github.com/exercise-tracker/apiserver/internal/metrics"
	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wraps the HTTP server, the router and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	store      UserStore
	events     *mq.MQ
	log        *slog.Logger
}

// New opens the configured store and broker and builds the HTTP server.
// Everything opened here is released by Shutdown.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*Server, error) {
	userStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events, err := mq.Open(ctx, cfg.MQ)
	if err != nil && !errors.Is(err, mq.ErrDisabled) {
		_ = userStore.Close(context.Background())
		return nil, err
	}

	return NewWithStore(cfg, userStore, events, log), nil
}

// NewWithStore builds the server around an already opened store. events may be nil.
func NewWithStore(cfg config.Config, userStore UserStore, events *mq.MQ, log *slog.Logger) *Server {
	m := metrics.New()
	opts := []services.Option{
		services.WithLogger(log),
		services.WithRecorder(m),
	}
	if events != nil {
		opts = append(opts, services.WithPublisher(events))
	}
	userService := services.NewUserService(userStore, opts...)

	router := NewRouter(cfg, userService, m, log)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		store:      userStore,
		events:     events,
		log:        log,
	}
}

// NewRouter mounts the API, health, metrics and static routes.
func NewRouter(cfg config.Config, users *services.UserService, m *metrics.Metrics, log *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logger.Middleware(log),
		middleware.Recoverer,
		m.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}),
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz(users, log))
	router.Method(http.MethodGet, "/metrics", m.Handler())
	router.Route("/api/exercise", func(r chi.Router) {
		handlers.ExerciseRouter(r, users, log)
	})
	router.Get("/", handlers.Index(cfg.StaticDir))
	router.NotFound(handlers.Static(cfg.StaticDir).ServeHTTP)

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the broker and the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.events != nil {
		err = errors.Join(err, s.events.Close())
	}
	if s.store != nil {
		err = errors.Join(err, s.store.Close(ctx))
	}
	return err
}
