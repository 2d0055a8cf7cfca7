package domain

import (
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	GameStatusLobby     GameStatus = "lobby"
	GameStatusOpen      GameStatus = "open"
	GameStatusActive    GameStatus = "active"
	GameStatusPaused    GameStatus = "paused"
	GameStatusCompleted GameStatus = "completed"
	GameStatusCancelled GameStatus = "cancelled"
)

// TotalNumbers is the size of the bingo number pool (B1 through O75).
const TotalNumbers = 75

type Game struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	ShortCode string     `json:"shortCode" gorm:"uniqueIndex;not null"`
	HostID    uuid.UUID  `json:"hostId" gorm:"type:uuid;not null"`
	Status    GameStatus `json:"status" gorm:"not null;default:'lobby'"`

	// SeedNonce is mixed with the deployment secret to derive this game's
	// draw permutation and card grids. Generated once at creation, never
	// reused across games and never sent to clients.
	SeedNonce string `json:"-" gorm:"not null"`

	DrawCount   int `json:"drawCount" gorm:"not null;default:0"`
	WinnerLimit int `json:"winnerLimit" gorm:"not null;default:1"`
	WinnerCount int `json:"winnerCount" gorm:"not null;default:0"`

	AutoDrawEnabled    bool `json:"autoDrawEnabled" gorm:"not null;default:false"`
	AutoDrawIntervalMs int  `json:"autoDrawIntervalMs" gorm:"not null;default:10000"`

	// Version guards every mutation of draw/winner state. All writers go
	// through GameRepository.UpdateWithVersion style primitives.
	Version int `json:"-" gorm:"not null;default:0"`

	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// IsTerminal reports whether no further state transitions are possible.
func (s GameStatus) IsTerminal() bool {
	return s == GameStatusCompleted || s == GameStatusCancelled
}

// Drawable reports whether drawNext is permitted in this status.
func (s GameStatus) Drawable() bool {
	return s == GameStatusActive || s == GameStatusOpen
}

// CanTransitionTo validates the game status machine:
// lobby -> open -> active <-> paused -> completed, with cancelled reachable
// from any non-terminal state.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == GameStatusCancelled {
		return true
	}
	switch s {
	case GameStatusLobby:
		return next == GameStatusOpen
	case GameStatusOpen:
		return next == GameStatusActive || next == GameStatusCompleted
	case GameStatusActive:
		return next == GameStatusPaused || next == GameStatusCompleted
	case GameStatusPaused:
		return next == GameStatusActive || next == GameStatusCompleted
	}
	return false
}

// Room returns the broadcast room name all realtime connections for this
// game join.
func (g *Game) Room() string {
	return "game:" + g.ID.String()
}
