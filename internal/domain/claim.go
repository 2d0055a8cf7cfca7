package domain

import (
	"time"

	"github.com/google/uuid"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusAccepted ClaimStatus = "accepted"
	ClaimStatusDenied   ClaimStatus = "denied"
	// ClaimStatusSuperseded marks a claim that was eligible but lost the
	// winner-rank race: the winner limit filled before it committed.
	ClaimStatusSuperseded ClaimStatus = "superseded"
)

// Claim is a player's assertion of having completed a winning pattern.
// Adjudicated synchronously; never mutated after reaching a terminal status.
type Claim struct {
	ID       uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	GameID   uuid.UUID   `json:"gameId" gorm:"type:uuid;index;not null"`
	PlayerID uuid.UUID   `json:"playerId" gorm:"type:uuid;index;not null"`
	CardID   uuid.UUID   `json:"cardId" gorm:"type:uuid;not null"`
	Pattern  Pattern     `json:"pattern" gorm:"not null"`
	Status   ClaimStatus `json:"status" gorm:"not null;default:'pending'"`

	Valid      bool `json:"valid" gorm:"not null;default:false"`
	WinnerRank *int `json:"winnerRank"`

	// DrawCountAt is the game's draw count at adjudication time. Resubmitting
	// the same claim while no further draw has happened replays the stored
	// outcome instead of re-adjudicating.
	DrawCountAt int `json:"drawCountAt" gorm:"not null"`

	SubmittedAt time.Time  `json:"submittedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
}

// Terminal reports whether the claim has reached a final status.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimStatusAccepted || s == ClaimStatusDenied || s == ClaimStatusSuperseded
}
