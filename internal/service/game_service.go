package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/events"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/seed"
)

// GameService owns game creation, the status machine and player admission.
type GameService struct {
	gameRepo   repository.GameRepository
	playerRepo repository.PlayerRepository
	drawRepo   repository.DrawRepository
	cards      *CardService
	scheduler  *AutoDrawScheduler
	publisher  events.Publisher
	cfg        *config.Config
}

func NewGameService(repos *repository.Repositories, cards *CardService, scheduler *AutoDrawScheduler, publisher events.Publisher, cfg *config.Config) *GameService {
	return &GameService{
		gameRepo:   repos.Game,
		playerRepo: repos.Player,
		drawRepo:   repos.Draw,
		cards:      cards,
		scheduler:  scheduler,
		publisher:  publisher,
		cfg:        cfg,
	}
}

type CreateGameInput struct {
	HostID             uuid.UUID
	WinnerLimit        int
	AutoDrawEnabled    bool
	AutoDrawIntervalMs int
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (*domain.Game, error) {
	winnerLimit := input.WinnerLimit
	if winnerLimit <= 0 {
		winnerLimit = s.cfg.DefaultWinnerLimit
	}
	intervalMs := input.AutoDrawIntervalMs
	if intervalMs <= 0 {
		intervalMs = int(s.cfg.DefaultAutoDrawInterval.Milliseconds())
	}

	game := &domain.Game{
		ID:                 uuid.New(),
		ShortCode:          generateShortCode(),
		HostID:             input.HostID,
		Status:             domain.GameStatusLobby,
		SeedNonce:          seed.NewNonce(),
		WinnerLimit:        winnerLimit,
		AutoDrawEnabled:    input.AutoDrawEnabled,
		AutoDrawIntervalMs: intervalMs,
		CreatedAt:          time.Now(),
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, idOrCode string) (*domain.Game, error) {
	if id, err := uuid.Parse(idOrCode); err == nil {
		return s.gameRepo.GetByID(ctx, id)
	}
	return s.gameRepo.GetByShortCode(ctx, strings.ToUpper(idOrCode))
}

// SetStatus drives the game status machine. Transitioning to active starts
// the auto-draw timer when pacing is enabled; reaching a terminal state
// stops it.
func (s *GameService) SetStatus(ctx context.Context, gameID uuid.UUID, next domain.GameStatus) (*domain.Game, error) {
	for attempt := 1; ; attempt++ {
		game, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if !game.Status.CanTransitionTo(next) {
			return nil, domain.ErrInvalidGameState
		}

		now := time.Now()
		game.Status = next
		switch next {
		case domain.GameStatusActive:
			if game.StartedAt == nil {
				game.StartedAt = &now
			}
		case domain.GameStatusCompleted, domain.GameStatusCancelled:
			game.CompletedAt = &now
		}

		err = s.gameRepo.UpdateWithVersion(ctx, game)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			if attempt >= drawAttempts {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		if next == domain.GameStatusActive && game.AutoDrawEnabled {
			s.scheduler.Start(game.ID, time.Duration(game.AutoDrawIntervalMs)*time.Millisecond)
		}
		if next.IsTerminal() {
			s.scheduler.Stop(game.ID)
		}

		s.publisher.Publish(ctx, events.Event{
			Room: game.Room(),
			Name: events.EventGameStatus,
			Data: map[string]interface{}{"status": game.Status},
		})
		return game, nil
	}
}

// SetAutoDraw enables or disables automatic pacing mid-game.
func (s *GameService) SetAutoDraw(ctx context.Context, gameID uuid.UUID, enabled bool, intervalMs int) (*domain.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status.IsTerminal() {
		return nil, domain.ErrInvalidGameState
	}

	game.AutoDrawEnabled = enabled
	if intervalMs > 0 {
		game.AutoDrawIntervalMs = intervalMs
	}
	if err := s.gameRepo.UpdateWithVersion(ctx, game); err != nil {
		return nil, err
	}

	if enabled && game.Status.Drawable() {
		s.scheduler.Start(game.ID, time.Duration(game.AutoDrawIntervalMs)*time.Millisecond)
	} else if !enabled {
		s.scheduler.Stop(game.ID)
	}
	return game, nil
}

// JoinGame registers a user as a player and issues their cards. Rejoining
// returns the existing player.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID uuid.UUID, displayName string) (*domain.Player, []*domain.Card, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Status.IsTerminal() {
		return nil, nil, domain.ErrInvalidGameState
	}

	if existing, err := s.playerRepo.GetByGameAndUser(ctx, gameID, userID); err == nil {
		cards, err := s.cardsForPlayer(ctx, existing)
		return existing, cards, err
	} else if !errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, nil, err
	}

	now := time.Now()
	player := &domain.Player{
		ID:          uuid.New(),
		GameID:      gameID,
		UserID:      userID,
		DisplayName: displayName,
		Status:      domain.PlayerStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, nil, err
	}

	cards := make([]*domain.Card, 0, s.cfg.CardsPerPlayer)
	for i := 0; i < s.cfg.CardsPerPlayer; i++ {
		card, err := s.cards.IssueCard(ctx, game, player.ID)
		if err != nil {
			return nil, nil, err
		}
		cards = append(cards, card)
	}

	s.publisher.Publish(ctx, events.Event{
		Room: game.Room(),
		Name: events.EventPlayerJoined,
		Data: map[string]interface{}{
			"playerId":    player.ID,
			"displayName": player.DisplayName,
		},
	})
	return player, cards, nil
}

func (s *GameService) cardsForPlayer(ctx context.Context, player *domain.Player) ([]*domain.Card, error) {
	return s.cards.cardRepo.GetByPlayerID(ctx, player.ID)
}

// Snapshot is the full game state a reconnecting client re-fetches instead
// of relying on event replay.
type Snapshot struct {
	Game    *domain.Game     `json:"game"`
	Draws   []*domain.Draw   `json:"draws"`
	Players []*domain.Player `json:"players"`
}

func (s *GameService) Snapshot(ctx context.Context, gameID uuid.UUID) (*Snapshot, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	draws, err := s.drawRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Game: game, Draws: draws, Players: players}, nil
}

func generateShortCode() string {
	buf := make([]byte, 3)
	rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
