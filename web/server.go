// Package web is the presentation server: the profile home page, the blog
// rendered from the Content API, the contact relay and the memory game.
package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/game"
	"github.com/rpupo63/portfolio-site/profile"
	"github.com/rs/zerolog/log"
)

const (
	contactLimit  = 5
	contactWindow = 10 * time.Minute
)

// Dependencies are the collaborators of the presentation server. Sender and
// Notifier may be nil.
type Dependencies struct {
	Content      ContentSource
	Profile      *profile.Profile
	Sender       ContactSender
	Notifier     ContactNotifier
	Games        *game.Registry
	MediaBaseURL string
}

// NewServer builds the presentation server listening on WEB_PORT.
func NewServer(c map[string]string, deps Dependencies) (api.Server, error) {
	port := config.GetString(c, "WEB_PORT", "3000")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	router, err := NewRouter(deps, config.GetBool(c, "LOG_REQUESTS", true))
	if err != nil {
		return api.Server{}, err
	}
	return api.NewHTTPServer(c, address, router, time.Now()), nil
}

// NewRouter mounts every page and endpoint of the presentation server.
func NewRouter(deps Dependencies, requestLogging bool) (*chi.Mux, error) {
	if deps.Content == nil || deps.Profile == nil || deps.Games == nil {
		return nil, fmt.Errorf("web: content source, profile and game registry are required")
	}

	logger := log.With().Str("component", "web").Logger()
	renderer, err := newRenderer(logger, deps.MediaBaseURL)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	pages := newPageHandler(renderer, deps.Content, deps.Profile)
	contact := newContactHandler(deps.Sender, deps.Notifier, NewLimiter(contactLimit, contactWindow))
	games := newGameHandler(deps.Games)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(api.LogInternalServerErrors)
	if requestLogging {
		r.Use(api.ColoredHTTPLoggingMiddleware)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.Get("/", pages.home())
	r.Get("/blog", pages.blogListing())
	r.Get("/blogs", pages.blogListing())
	r.Get("/blog/category/{category}/tags/{tags}/slug/{slug}", pages.blogPost())

	r.Post("/api/send", contact.sendContact())

	r.Get("/game", games.getGame())
	r.Post("/game/start", games.startGame())
	r.Post("/game/cards/{id}", games.selectCard())

	r.NotFound(pages.notFound())
	return r, nil
}
