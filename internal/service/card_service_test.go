package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/testutil"
)

func TestCardService_IssueCard(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)
	player := testutil.NewPlayerBuilder().InGame(game).Build(t, ts.db)

	card, err := ts.services.Card.IssueCard(ctx, game, player.ID)
	require.NoError(t, err)

	grid, err := card.Grid()
	require.NoError(t, err)

	// Center is the free cell; every other cell stays in its column band
	// with no repeats.
	assert.Equal(t, domain.FreeCell, grid[2][2])
	for col := 0; col < domain.GridSize; col++ {
		low, high := domain.ColumnRange(col)
		seen := make(map[int]bool)
		for row := 0; row < domain.GridSize; row++ {
			if row == 2 && col == 2 {
				continue
			}
			n := grid[row][col]
			assert.GreaterOrEqual(t, n, low)
			assert.LessOrEqual(t, n, high)
			assert.False(t, seen[n], "duplicate %d in column %d", n, col)
			seen[n] = true
		}
	}

	assert.NoError(t, ts.services.Card.Verify(card))
}

func TestCardService_Verify_TamperedGrid(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)
	player := testutil.NewPlayerBuilder().InGame(game).Build(t, ts.db)

	card, err := ts.services.Card.IssueCard(ctx, game, player.ID)
	require.NoError(t, err)

	grid, err := card.Grid()
	require.NoError(t, err)
	grid[0][0], grid[1][0] = grid[1][0], grid[0][0]
	require.NoError(t, card.SetGrid(grid))

	assert.ErrorIs(t, ts.services.Card.Verify(card), domain.ErrCardUnverified)
}

func TestCardService_PatternEligible(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)
	player := testutil.NewPlayerBuilder().InGame(game).Build(t, ts.db)

	card, err := ts.services.Card.IssueCard(ctx, game, player.ID)
	require.NoError(t, err)
	grid, err := card.Grid()
	require.NoError(t, err)

	rowNumbers := make([]int, 0, domain.GridSize)
	for col := 0; col < domain.GridSize; col++ {
		rowNumbers = append(rowNumbers, grid[0][col])
	}

	// Player marked the whole top row locally, but only four of the five
	// numbers were actually drawn: not eligible.
	var marks domain.MarkSet
	for _, n := range rowNumbers {
		marks[n] = true
	}
	require.NoError(t, card.SetMarkSet(marks))

	var drawn domain.NumberSet
	for _, n := range rowNumbers[:4] {
		drawn[n] = true
	}

	eligible, err := ts.services.Card.PatternEligible(card, "row_1", drawn)
	require.NoError(t, err)
	assert.False(t, eligible, "marked but undrawn number must not count")

	// Once the fifth number is drawn the claim becomes eligible.
	drawn[rowNumbers[4]] = true
	eligible, err = ts.services.Card.PatternEligible(card, "row_1", drawn)
	require.NoError(t, err)
	assert.True(t, eligible)

	// Marks matter too: eligibility needs mark AND draw per cell.
	require.NoError(t, card.SetMarkSet(domain.MarkSet{}))
	eligible, err = ts.services.Card.PatternEligible(card, "row_1", drawn)
	require.NoError(t, err)
	assert.False(t, eligible)

	_, err = ts.services.Card.PatternEligible(card, "zigzag", drawn)
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
}

func TestCardService_PatternEligible_FreeCenter(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)
	player := testutil.NewPlayerBuilder().InGame(game).Build(t, ts.db)

	card, err := ts.services.Card.IssueCard(ctx, game, player.ID)
	require.NoError(t, err)
	grid, err := card.Grid()
	require.NoError(t, err)

	// The middle row needs only its four non-center numbers.
	var marks domain.MarkSet
	var drawn domain.NumberSet
	for col := 0; col < domain.GridSize; col++ {
		n := grid[2][col]
		if n == domain.FreeCell {
			continue
		}
		marks[n] = true
		drawn[n] = true
	}
	require.NoError(t, card.SetMarkSet(marks))

	eligible, err := ts.services.Card.PatternEligible(card, "row_3", drawn)
	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestCardService_MarkNumber(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)
	player := testutil.NewPlayerBuilder().InGame(game).Build(t, ts.db)

	card, err := ts.services.Card.IssueCard(ctx, game, player.ID)
	require.NoError(t, err)

	// Nothing drawn yet: marking is rejected.
	_, err = ts.services.Card.MarkNumber(ctx, player.ID, card.ID, 10, true)
	assert.ErrorIs(t, err, domain.ErrNumberNotDrawn)

	require.NoError(t, ts.db.Create(&domain.Draw{
		ID:        uuid.New(),
		GameID:    game.ID,
		Sequence:  1,
		Number:    10,
		Letter:    "B",
		DrawnBy:   domain.ActorScheduler,
		Signature: "x",
		CreatedAt: time.Now(),
	}).Error)

	updated, err := ts.services.Card.MarkNumber(ctx, player.ID, card.ID, 10, true)
	require.NoError(t, err)
	marks, err := updated.MarkSet()
	require.NoError(t, err)
	assert.True(t, marks.Contains(10))

	// Unmarking never requires a draw check.
	updated, err = ts.services.Card.MarkNumber(ctx, player.ID, card.ID, 10, false)
	require.NoError(t, err)
	marks, err = updated.MarkSet()
	require.NoError(t, err)
	assert.False(t, marks.Contains(10))

	_, err = ts.services.Card.MarkNumber(ctx, player.ID, card.ID, 76, true)
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)
	_, err = ts.services.Card.MarkNumber(ctx, player.ID, card.ID, 0, true)
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)

	other := testutil.NewPlayerBuilder().InGame(game).Build(t, ts.db)
	_, err = ts.services.Card.MarkNumber(ctx, other.ID, card.ID, 10, false)
	assert.ErrorIs(t, err, domain.ErrNotCardOwner)
}
