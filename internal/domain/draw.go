package domain

import (
	"time"

	"github.com/google/uuid"
)

// Draw is one revealed number in a game's sequence. Immutable once created;
// (GameID, Sequence) and (GameID, Number) are both unique so a double-draw
// is rejected by the database even if the version check is bypassed.
type Draw struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	GameID   uuid.UUID `json:"gameId" gorm:"type:uuid;not null;uniqueIndex:idx_draws_game_seq,priority:1;uniqueIndex:idx_draws_game_num,priority:1"`
	Sequence int       `json:"sequence" gorm:"not null;uniqueIndex:idx_draws_game_seq,priority:2"`
	Number   int       `json:"number" gorm:"not null;uniqueIndex:idx_draws_game_num,priority:2"`
	Letter   string    `json:"letter" gorm:"not null"`

	// DrawnBy records the triggering actor: "host:<uuid>" for a manual draw,
	// "scheduler" for an auto-draw tick.
	DrawnBy string `json:"drawnBy" gorm:"not null"`

	// Signature is a keyed hash binding this draw to the game's seed, so a
	// forged or tampered draw is detectable by anyone holding the secret.
	Signature string `json:"signature" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
}

// ActorScheduler is the DrawnBy value for draws triggered by auto-draw ticks.
const ActorScheduler = "scheduler"

// LetterForNumber maps a number to its bingo column letter:
// B 1-15, I 16-30, N 31-45, G 46-60, O 61-75.
func LetterForNumber(n int) string {
	switch {
	case n >= 1 && n <= 15:
		return "B"
	case n <= 30:
		return "I"
	case n <= 45:
		return "N"
	case n <= 60:
		return "G"
	case n <= 75:
		return "O"
	}
	return ""
}

// NumberSet is a bounded membership set over the 1-75 number domain.
type NumberSet [TotalNumbers + 1]bool

// NewNumberSet builds a set from the numbers of the given draws.
func NewNumberSet(draws []*Draw) NumberSet {
	var s NumberSet
	for _, d := range draws {
		if d.Number >= 1 && d.Number <= TotalNumbers {
			s[d.Number] = true
		}
	}
	return s
}

func (s NumberSet) Contains(n int) bool {
	return n >= 1 && n <= TotalNumbers && s[n]
}
