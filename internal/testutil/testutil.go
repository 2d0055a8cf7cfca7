package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/events"
)

// NewTestDB opens an in-memory SQLite database with the full schema. Each
// call returns an isolated database, so tests never share state.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Game{},
		&domain.Draw{},
		&domain.Player{},
		&domain.Card{},
		&domain.Claim{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                    "0", // Random port
		Environment:             "test",
		JWTSecret:               "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours:      1,
		GameSeedSecret:          "test-game-seed-secret",
		DefaultAutoDrawInterval: 10 * time.Millisecond, // Fast timer for tests
		DefaultWinnerLimit:      1,
		StrikeThreshold:         3,
		CooldownDuration:        time.Minute,
		CardsPerPlayer:          1,
	}
}

// RecordingPublisher captures published events in memory instead of hitting
// a broker.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far.
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// EventsNamed filters recorded events by name.
func (p *RecordingPublisher) EventsNamed(name string) []events.Event {
	var out []events.Event
	for _, e := range p.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
