// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Holds live chess games for the HTTP layer.
//
// Characteristics:
//   - Stores *game.Game values keyed by ID in a map guarded by an RWMutex.
//   - Each game carries its own mutex; Update and View hold it for the
//     duration of the callback, so one engine has one owner at a time.
//   - Sessions idle longer than the configured TTL are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/apps/chess-server/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds a game, replacing any session with the same ID.
	Save(ctx context.Context, g *game.Game) error

	// Update runs fn with exclusive access to the game.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error

	// View runs fn with exclusive access; fn must not mutate the game.
	View(ctx context.Context, id string, fn func(g *game.Game) error) error

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// session pairs a game with the lock that serialises access to it.
type session struct {
	mu       sync.Mutex
	g        *game.Game
	lastUsed time.Time
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu    sync.RWMutex        // guards games map
	games map[string]*session // keyed by Game.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{games: make(map[string]*session), now: time.Now}
}

func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	if g == nil || g.ID == "" {
		return errors.New("game without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &session{g: g, lastUsed: m.now()}
	return nil
}

func (m *Memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) error {
	return m.with(ctx, id, fn)
}

func (m *Memory) View(ctx context.Context, id string, fn func(g *game.Game) error) error {
	return m.with(ctx, id, fn)
}

func (m *Memory) with(ctx context.Context, id string, fn func(g *game.Game) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	s, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = m.now()
	return fn(s.g)
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Sweep removes sessions idle for longer than ttl and returns how many were dropped.
func (m *Memory) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.games {
		s.mu.Lock()
		idle := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (m *Memory) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ttl); n > 0 {
				log.Info().Int("dropped", n).Msg("swept idle games")
			}
		}
	}
}
