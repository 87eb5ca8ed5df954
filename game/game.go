// Package game is the memory-matching game played on the home page.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

type State string

const (
	Idle     State = "idle"
	Playing  State = "playing"
	Complete State = "complete"
)

const (
	MatchDelay    = 500 * time.Millisecond
	MismatchDelay = 1000 * time.Millisecond
)

var (
	ErrNotPlaying  = errors.New("game is not in progress")
	ErrUnknownCard = errors.New("unknown card")
)

type Symbol struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
}

// Symbols are the eight faces; each appears on exactly two cards.
var Symbols = [8]Symbol{
	{Icon: "⚛️", Name: "React"},
	{Icon: "📘", Name: "TypeScript"},
	{Icon: "🟢", Name: "Node.js"},
	{Icon: "🐍", Name: "Python"},
	{Icon: "☕", Name: "Java"},
	{Icon: "🔥", Name: "Firebase"},
	{Icon: "🎨", Name: "CSS"},
	{Icon: "⚡", Name: "JavaScript"},
}

type card struct {
	symbol  Symbol
	flipped bool
	matched bool
}

// Game is one board. It is safe for concurrent use; pending pairs resolve
// lazily against the clock the next time the game is read or played.
type Game struct {
	mu   sync.Mutex
	now  func() time.Time
	intn func(n int) int

	state       State
	cards       []card
	flipped     []int
	moves       int
	startedAt   time.Time
	completedAt time.Time
	resolveAt   time.Time
	pairMatched bool
}

type Option func(*Game)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// WithRand replaces the shuffle's source of randomness; intn must return a
// value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(g *Game) {
		g.intn = intn
	}
}

func New(opts ...Option) *Game {
	g := &Game{
		now:   time.Now,
		intn:  rand.IntN,
		state: Idle,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start deals a fresh shuffled board and resets moves and the timer.
func (g *Game) Start() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	cards := make([]card, 0, 2*len(Symbols))
	for _, symbol := range Symbols {
		cards = append(cards, card{symbol: symbol}, card{symbol: symbol})
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := g.intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	g.cards = cards
	g.flipped = nil
	g.moves = 0
	g.state = Playing
	g.startedAt = g.now()
	g.completedAt = time.Time{}
	g.resolveAt = time.Time{}
	return g.snapshot(g.startedAt)
}

// Select turns card id face up. Selecting while a pair awaits resolution, a
// matched card, or the single card already face up changes nothing.
func (g *Game) Select(id int) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.settle(now)

	if g.state != Playing {
		return g.snapshot(now), ErrNotPlaying
	}
	if id < 0 || id >= len(g.cards) {
		return g.snapshot(now), ErrUnknownCard
	}
	if len(g.flipped) == 2 || g.cards[id].matched || len(g.flipped) == 1 && g.flipped[0] == id {
		return g.snapshot(now), nil
	}

	g.cards[id].flipped = true
	g.flipped = append(g.flipped, id)

	if len(g.flipped) == 2 {
		g.moves++
		first, second := g.cards[g.flipped[0]], g.cards[g.flipped[1]]
		g.pairMatched = first.symbol == second.symbol
		if g.pairMatched {
			g.resolveAt = now.Add(MatchDelay)
		} else {
			g.resolveAt = now.Add(MismatchDelay)
		}
	}
	return g.snapshot(now), nil
}

// Snapshot returns the current board as the player may see it.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.settle(now)
	return g.snapshot(now)
}

func (g *Game) settle(now time.Time) {
	if g.resolveAt.IsZero() || now.Before(g.resolveAt) {
		return
	}

	for _, id := range g.flipped {
		if g.pairMatched {
			g.cards[id].matched = true
		} else {
			g.cards[id].flipped = false
		}
	}
	g.flipped = nil

	if g.pairMatched && g.allMatched() {
		g.state = Complete
		g.completedAt = g.resolveAt
	}
	g.resolveAt = time.Time{}
}

func (g *Game) allMatched() bool {
	for _, c := range g.cards {
		if !c.matched {
			return false
		}
	}
	return true
}

// CardView is a card as sent to the browser; face-down cards hide their symbol.
type CardView struct {
	ID      int     `json:"id"`
	Flipped bool    `json:"isFlipped"`
	Matched bool    `json:"isMatched"`
	Symbol  *Symbol `json:"symbol,omitempty"`
}

type Snapshot struct {
	State          State      `json:"state"`
	Cards          []CardView `json:"cards"`
	Moves          int        `json:"moves"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	Pending        bool       `json:"pending"`
}

func (g *Game) snapshot(now time.Time) Snapshot {
	s := Snapshot{
		State:   g.state,
		Cards:   make([]CardView, len(g.cards)),
		Moves:   g.moves,
		Pending: !g.resolveAt.IsZero(),
	}
	for i, c := range g.cards {
		view := CardView{ID: i, Flipped: c.flipped, Matched: c.matched}
		if c.flipped || c.matched {
			symbol := c.symbol
			view.Symbol = &symbol
		}
		s.Cards[i] = view
	}

	switch g.state {
	case Playing:
		s.ElapsedSeconds = int(now.Sub(g.startedAt) / time.Second)
	case Complete:
		s.ElapsedSeconds = int(g.completedAt.Sub(g.startedAt) / time.Second)
	}
	return s
}

// FormatElapsed renders seconds as m:ss.
func FormatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
