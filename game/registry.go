package game

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName    = "memory-game"
	sessionGame    = "gameID"
	DefaultIdleTTL = 30 * time.Minute
)

type entry struct {
	game     *Game
	lastSeen time.Time
}

// Registry keeps one game per browser, keyed by an id stored in a signed
// session cookie. Games idle for longer than the TTL are dropped.
type Registry struct {
	mu    sync.Mutex
	games map[string]*entry
	store sessions.Store
	ttl   time.Duration
	now   func() time.Time
	opts  []Option
}

// NewRegistry returns a registry whose games are built with opts.
func NewRegistry(store sessions.Store, ttl time.Duration, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		games: make(map[string]*entry),
		store: store,
		ttl:   ttl,
		now:   time.Now,
		opts:  opts,
	}
}

// NewSessionStore builds the cookie store used for game sessions.
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return store
}

// Game returns the caller's game, creating it and setting the session cookie
// when the request carries none.
func (r *Registry) Game(w http.ResponseWriter, req *http.Request) (*Game, error) {
	// A cookie that fails verification yields a fresh session, not an error.
	session, _ := r.store.Get(req, sessionName)

	id, _ := session.Values[sessionGame].(string)

	r.mu.Lock()
	now := r.now()
	r.sweep(now)
	e, ok := r.games[id]
	if !ok {
		id = uuid.NewString()
		e = &entry{game: New(r.opts...)}
		r.games[id] = e
	}
	e.lastSeen = now
	r.mu.Unlock()

	if !ok {
		session.Values[sessionGame] = id
		if err := session.Save(req, w); err != nil {
			return nil, err
		}
	}
	return e.game, nil
}

// Len reports how many games are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

func (r *Registry) sweep(now time.Time) {
	for id, e := range r.games {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.games, id)
		}
	}
}
