package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlockett42/bingo-live/internal/domain"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *gameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(ctx context.Context, game *domain.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *gameRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) GetByShortCode(ctx context.Context, code string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).First(&game, "short_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) UpdateWithVersion(ctx context.Context, game *domain.Game) error {
	return saveVersioned(r.db.WithContext(ctx), game)
}

func (r *gameRepository) CommitDraw(ctx context.Context, game *domain.Game, draw *domain.Draw) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, game); err != nil {
			return err
		}
		return tx.Create(draw).Error
	})
}

func (r *gameRepository) CommitClaim(ctx context.Context, game *domain.Game, claim *domain.Claim, player *domain.Player) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, game); err != nil {
			return err
		}
		if err := tx.Create(claim).Error; err != nil {
			return err
		}
		return tx.Save(player).Error
	})
}

// saveVersioned writes every column of the game guarded by a
// compare-and-swap on the version column. A writer that lost the race sees
// zero affected rows and gets domain.ErrConcurrencyConflict; it must re-read
// the game before retrying.
func saveVersioned(tx *gorm.DB, game *domain.Game) error {
	current := game.Version
	game.Version = current + 1

	res := tx.Model(&domain.Game{}).
		Where("id = ? AND version = ?", game.ID, current).
		Select("*").
		Omit("id", "created_at").
		Updates(game)
	if res.Error != nil {
		game.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		game.Version = current
		return domain.ErrConcurrencyConflict
	}
	return nil
}
