package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlockett42/bingo-live/internal/domain"
)

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *claimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *claimRepository) GetLatest(ctx context.Context, gameID, playerID, cardID uuid.UUID, pattern domain.Pattern) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND player_id = ? AND card_id = ? AND pattern = ?",
			gameID, playerID, cardID, pattern).
		Order("submitted_at DESC").
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Claim, error) {
	var claims []*domain.Claim
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("submitted_at ASC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}
