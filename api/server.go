package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer builds the Content API server. store may be nil, in which case uploads answer 503.
func NewServer(database database.Database, c map[string]string, store MediaStore) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	secret := config.GetString(c, "ADMIN_JWT_SECRET", "")
	if secret == "" {
		log.Warn().Msg("ADMIN_JWT_SECRET is not defined, write routes will reject every request")
	}

	startupTime := time.Now()

	router := newRouter(database,
		withConfig(c),
		withStartupTime(startupTime),
		withMediaStore(store),
		withRequestLogging(config.GetBool(c, "LOG_REQUESTS", true)),
	)

	return NewHTTPServer(c, address, router, startupTime), nil
}

// NewHTTPServer wraps handler in a Server using the configured timeouts.
func NewHTTPServer(c map[string]string, address string, handler http.Handler, startupTime time.Time) Server {
	server := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}
	return Server{server, startupTime}
}

type router struct {
	config         map[string]string
	startupTime    time.Time
	store          MediaStore
	requestLogging bool
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withMediaStore(store MediaStore) func(*router) {
	return func(r *router) {
		r.store = store
	}
}

func withRequestLogging(enabled bool) func(*router) {
	return func(r *router) {
		r.requestLogging = enabled
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	if router.requestLogging {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	}

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"http://localhost:3000"}
	}
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	handlers := initializeHandlers(database, router.store, router.startupTime)
	authMiddleware := newAuthMiddleware(config.GetString(router.config, "ADMIN_JWT_SECRET", ""))

	setupContentRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
