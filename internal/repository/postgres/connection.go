package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/repository"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Game{},
		&domain.Draw{},
		&domain.Player{},
		&domain.Card{},
		&domain.Claim{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(db),
		Session: NewSessionRepository(db),
		Game:    NewGameRepository(db),
		Draw:    NewDrawRepository(db),
		Card:    NewCardRepository(db),
		Player:  NewPlayerRepository(db),
		Claim:   NewClaimRepository(db),
	}
}
