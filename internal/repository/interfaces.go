package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// GameRepository persists games. Draw advancement and winner accounting go
// through the versioned commit methods, which compare-and-swap the game's
// version column and return domain.ErrConcurrencyConflict when a concurrent
// writer got there first.
type GameRepository interface {
	Create(ctx context.Context, game *domain.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	GetByShortCode(ctx context.Context, code string) (*domain.Game, error)

	// UpdateWithVersion saves the game iff its version column still matches
	// game.Version, then increments it.
	UpdateWithVersion(ctx context.Context, game *domain.Game) error

	// CommitDraw atomically advances the game (version-checked) and appends
	// the draw in one transaction.
	CommitDraw(ctx context.Context, game *domain.Game, draw *domain.Draw) error

	// CommitClaim atomically updates the game's winner state
	// (version-checked), the claim and the player in one transaction.
	CommitClaim(ctx context.Context, game *domain.Game, claim *domain.Claim, player *domain.Player) error
}

type DrawRepository interface {
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Draw, error)
}

type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	GetByPlayerID(ctx context.Context, playerID uuid.UUID) ([]*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
}

type PlayerRepository interface {
	Create(ctx context.Context, player *domain.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByGameAndUser(ctx context.Context, gameID, userID uuid.UUID) (*domain.Player, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Player, error)
	Update(ctx context.Context, player *domain.Player) error
}

type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	// GetLatest returns the most recently submitted claim for the
	// (game, player, card, pattern) tuple, or nil when none exists.
	GetLatest(ctx context.Context, gameID, playerID, cardID uuid.UUID, pattern domain.Pattern) (*domain.Claim, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Claim, error)
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Game    GameRepository
	Draw    DrawRepository
	Card    CardRepository
	Player  PlayerRepository
	Claim   ClaimRepository
}
