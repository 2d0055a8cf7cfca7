package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GridSize is the side length of a bingo card.
const GridSize = 5

// FreeCell is the value of the always-marked center cell.
const FreeCell = 0

// Grid is a 5x5 bingo card laid out row-major. Column c of every row draws
// from a disjoint 15-number band (B 1-15, I 16-30, N 31-45, G 46-60,
// O 61-75); the center cell holds FreeCell.
type Grid [GridSize][GridSize]int

// ColumnRange returns the inclusive number band for a column index.
func ColumnRange(col int) (low, high int) {
	low = col*15 + 1
	return low, low + 14
}

type Card struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	GameID   uuid.UUID `json:"gameId" gorm:"type:uuid;index;not null"`
	PlayerID uuid.UUID `json:"playerId" gorm:"type:uuid;index;not null"`

	// Numbers is the JSON-encoded Grid; Marks is a JSON array of 76 booleans
	// indexed by number (index 0 unused), so mark state has a bounded,
	// validated key domain.
	Numbers datatypes.JSON `json:"numbers" gorm:"type:jsonb;not null"`
	Marks   datatypes.JSON `json:"marks" gorm:"type:jsonb;not null"`

	// Signature proves the grid was generated from the game's seed.
	Signature string `json:"signature" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarkSet mirrors NumberSet for a card's own mark state.
type MarkSet = NumberSet

// Grid decodes the stored 5x5 grid.
func (c *Card) Grid() (Grid, error) {
	var g Grid
	err := json.Unmarshal(c.Numbers, &g)
	return g, err
}

// SetGrid stores the 5x5 grid.
func (c *Card) SetGrid(g Grid) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	c.Numbers = data
	return nil
}

// MarkSet decodes the stored mark state.
func (c *Card) MarkSet() (MarkSet, error) {
	var m MarkSet
	err := json.Unmarshal(c.Marks, &m)
	return m, err
}

// SetMarkSet stores the mark state.
func (c *Card) SetMarkSet(m MarkSet) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	c.Marks = data
	return nil
}
