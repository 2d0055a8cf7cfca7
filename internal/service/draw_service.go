package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/events"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/seed"
)

// drawAttempts bounds how often DrawNext retries after losing the version
// race. One retry is enough: a second loss means another writer is actively
// advancing the same game and the caller should back off.
const drawAttempts = 2

// DrawService owns per-game draw state. The next number is always the
// permutation element at the current sequence index, so draws are
// unpredictable to clients yet fully reproducible from the seed, and never
// repeat.
type DrawService struct {
	gameRepo  repository.GameRepository
	publisher events.Publisher
	secret    []byte
}

func NewDrawService(gameRepo repository.GameRepository, publisher events.Publisher, cfg *config.Config) *DrawService {
	return &DrawService{
		gameRepo:  gameRepo,
		publisher: publisher,
		secret:    []byte(cfg.GameSeedSecret),
	}
}

// DrawPayload is the event body broadcast for each draw.
type DrawPayload struct {
	Sequence  int    `json:"sequence"`
	Number    int    `json:"number"`
	Letter    string `json:"letter"`
	DrawnBy   string `json:"drawnBy"`
	DrawCount int    `json:"drawCount"`
}

// DrawNext reveals the next number for a game. Two concurrent calls for the
// same game never both advance the same sequence: the commit is guarded by
// the game's version column, and the loser retries against fresh state or
// fails with domain.ErrConcurrencyConflict.
func (s *DrawService) DrawNext(ctx context.Context, gameID uuid.UUID, actor string) (*domain.Draw, error) {
	for attempt := 1; ; attempt++ {
		game, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if !game.Status.Drawable() {
			return nil, domain.ErrInvalidGameState
		}
		if game.DrawCount >= domain.TotalNumbers {
			return nil, domain.ErrDrawsExhausted
		}

		perm := seed.Permutation(seed.Derive(s.secret, game.ID, game.SeedNonce))
		number := perm[game.DrawCount]
		sequence := game.DrawCount + 1

		draw := &domain.Draw{
			ID:        uuid.New(),
			GameID:    game.ID,
			Sequence:  sequence,
			Number:    number,
			Letter:    domain.LetterForNumber(number),
			DrawnBy:   actor,
			Signature: seed.Sign(s.secret, seed.DrawContext(game.ID, sequence, number)),
			CreatedAt: time.Now(),
		}

		game.DrawCount = sequence
		completed := false
		if game.DrawCount >= domain.TotalNumbers {
			now := time.Now()
			game.Status = domain.GameStatusCompleted
			game.CompletedAt = &now
			completed = true
		}

		err = s.gameRepo.CommitDraw(ctx, game, draw)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			if attempt >= drawAttempts {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publisher.Publish(ctx, events.Event{
			Room: game.Room(),
			Name: events.EventDraw,
			Data: DrawPayload{
				Sequence:  draw.Sequence,
				Number:    draw.Number,
				Letter:    draw.Letter,
				DrawnBy:   draw.DrawnBy,
				DrawCount: game.DrawCount,
			},
		})
		if completed {
			s.publisher.Publish(ctx, events.Event{
				Room: game.Room(),
				Name: events.EventGameCompleted,
				Data: map[string]interface{}{"reason": "exhausted", "drawCount": game.DrawCount},
			})
		}

		return draw, nil
	}
}
