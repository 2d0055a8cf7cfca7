package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlockett42/bingo-live/internal/domain"
)

type drawRepository struct {
	db *gorm.DB
}

func NewDrawRepository(db *gorm.DB) *drawRepository {
	return &drawRepository{db: db}
}

func (r *drawRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Draw, error) {
	var draws []*domain.Draw
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("sequence ASC").
		Find(&draws).Error
	if err != nil {
		return nil, err
	}
	return draws, nil
}
