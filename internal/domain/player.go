package domain

import (
	"time"

	"github.com/google/uuid"
)

type PlayerStatus string

const (
	PlayerStatusActive       PlayerStatus = "active"
	PlayerStatusCooldown     PlayerStatus = "cooldown"
	PlayerStatusDisqualified PlayerStatus = "disqualified"
	PlayerStatusLeft         PlayerStatus = "left"
)

// Player is one user's membership in one game. Strikes accumulate from
// invalid claims; crossing the configured threshold forces a cooldown.
type Player struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	GameID      uuid.UUID    `json:"gameId" gorm:"type:uuid;not null;uniqueIndex:idx_players_game_user,priority:1"`
	UserID      uuid.UUID    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_players_game_user,priority:2"`
	DisplayName string       `json:"displayName" gorm:"not null"`
	Status      PlayerStatus `json:"status" gorm:"not null;default:'active'"`

	Strikes       int        `json:"strikes" gorm:"not null;default:0"`
	CooldownUntil *time.Time `json:"cooldownUntil"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InCooldown reports whether the player's cooldown is still running at now.
func (p *Player) InCooldown(now time.Time) bool {
	return p.Status == PlayerStatusCooldown && p.CooldownUntil != nil && now.Before(*p.CooldownUntil)
}

// CanClaim reports whether the player may submit claims at now.
func (p *Player) CanClaim(now time.Time) bool {
	switch p.Status {
	case PlayerStatusActive:
		return true
	case PlayerStatusCooldown:
		return !p.InCooldown(now)
	default:
		return false
	}
}
