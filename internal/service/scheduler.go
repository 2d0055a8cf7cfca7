package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/repository"
)

// AutoDrawScheduler triggers DrawNext on a fixed interval for games with
// automatic pacing. All timer state lives in the table owned by this
// component; nothing else may mutate it. At most one draw attempt is in
// flight per game at any time; a tick firing while the previous one is
// still completing is skipped, never queued.
type AutoDrawScheduler struct {
	draws    *DrawService
	gameRepo repository.GameRepository

	mu     sync.Mutex
	timers map[uuid.UUID]*gameTimer
}

type gameTimer struct {
	interval time.Duration
	stop     chan struct{}
	inFlight bool
	mu       sync.Mutex
}

// tryAcquire marks the timer in flight. Returns false if a draw attempt for
// this game is already running.
func (t *gameTimer) tryAcquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight {
		return false
	}
	t.inFlight = true
	return true
}

func (t *gameTimer) release() {
	t.mu.Lock()
	t.inFlight = false
	t.mu.Unlock()
}

func NewAutoDrawScheduler(draws *DrawService, gameRepo repository.GameRepository) *AutoDrawScheduler {
	return &AutoDrawScheduler{
		draws:    draws,
		gameRepo: gameRepo,
		timers:   make(map[uuid.UUID]*gameTimer),
	}
}

// Start begins auto-drawing for a game. Idempotent: an existing timer is
// replaced, so disable-then-enable never leaves two timers running for the
// same game.
func (s *AutoDrawScheduler) Start(gameID uuid.UUID, interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[gameID]; ok {
		close(old.stop)
	}

	t := &gameTimer{
		interval: interval,
		stop:     make(chan struct{}),
	}
	s.timers[gameID] = t

	go s.run(gameID, t)
}

// Stop removes a game's timer. Effective immediately for future ticks; a
// tick already in flight completes or fails on its own.
func (s *AutoDrawScheduler) Stop(gameID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(gameID)
}

func (s *AutoDrawScheduler) stopLocked(gameID uuid.UUID) {
	if t, ok := s.timers[gameID]; ok {
		close(t.stop)
		delete(s.timers, gameID)
	}
}

// IsRunning reports whether a timer exists for the game.
func (s *AutoDrawScheduler) IsRunning(gameID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[gameID]
	return ok
}

// StopAll removes every timer; used during shutdown.
func (s *AutoDrawScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for gameID := range s.timers {
		s.stopLocked(gameID)
	}
}

func (s *AutoDrawScheduler) run(gameID uuid.UUID, t *gameTimer) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			s.tick(gameID, t)
		}
	}
}

// remove deletes the timer iff it is still the current one for the game, so
// a tick from a replaced timer cannot kill its successor.
func (s *AutoDrawScheduler) remove(gameID uuid.UUID, t *gameTimer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.timers[gameID]; ok && current == t {
		s.stopLocked(gameID)
	}
}

func (s *AutoDrawScheduler) tick(gameID uuid.UUID, t *gameTimer) {
	if !t.tryAcquire() {
		// Previous draw attempt still completing; skip this tick.
		return
	}
	defer t.release()

	ctx := context.Background()

	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			s.remove(gameID, t)
			return
		}
		log.Printf("scheduler: failed to read game %s: %v", gameID, err)
		return
	}

	switch {
	case game.Status.IsTerminal():
		s.remove(gameID, t)
		return
	case game.Status == domain.GameStatusPaused || game.Status == domain.GameStatusLobby:
		// Keep the timer alive; pacing resumes once the game is active again.
		return
	}

	_, err = s.draws.DrawNext(ctx, gameID, domain.ActorScheduler)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrGameNotFound), errors.Is(err, domain.ErrDrawsExhausted):
		s.remove(gameID, t)
	default:
		// Transient; the next tick retries.
		log.Printf("scheduler: auto-draw for game %s failed: %v", gameID, err)
	}
}
