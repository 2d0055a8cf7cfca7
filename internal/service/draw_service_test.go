package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/testutil"
)

func TestDrawService_DrawNext(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)

	draw, err := ts.services.Draw.DrawNext(ctx, game.ID, "host:test")
	require.NoError(t, err)

	assert.Equal(t, 1, draw.Sequence)
	assert.GreaterOrEqual(t, draw.Number, 1)
	assert.LessOrEqual(t, draw.Number, domain.TotalNumbers)
	assert.Equal(t, domain.LetterForNumber(draw.Number), draw.Letter)
	assert.Equal(t, "host:test", draw.DrawnBy)
	assert.NotEmpty(t, draw.Signature)

	updated, err := ts.services.Game.GetGame(ctx, game.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, updated.DrawCount)

	drawEvents := ts.publisher.EventsNamed("draw")
	require.Len(t, drawEvents, 1)
	assert.Equal(t, game.Room(), drawEvents[0].Room)
}

func TestDrawService_DrawNext_FullSequence(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, ts.db)

	seen := make(map[int]bool)
	for i := 1; i <= domain.TotalNumbers; i++ {
		draw, err := ts.services.Draw.DrawNext(ctx, game.ID, domain.ActorScheduler)
		require.NoError(t, err)

		assert.Equal(t, i, draw.Sequence, "sequence must be gap-free")
		assert.False(t, seen[draw.Number], "number %d drawn twice", draw.Number)
		seen[draw.Number] = true
	}
	assert.Len(t, seen, domain.TotalNumbers)

	// Pool exhausted: the game completes and further draws fail.
	updated, err := ts.services.Game.GetGame(ctx, game.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)

	_, err = ts.services.Draw.DrawNext(ctx, game.ID, domain.ActorScheduler)
	assert.ErrorIs(t, err, domain.ErrInvalidGameState)

	completedEvents := ts.publisher.EventsNamed("game_completed")
	assert.Len(t, completedEvents, 1)

	draws, err := ts.repos.Draw.GetByGameID(ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, draws, domain.TotalNumbers)
}

func TestDrawService_DrawNext_InvalidState(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	for _, status := range []domain.GameStatus{
		domain.GameStatusLobby,
		domain.GameStatusPaused,
		domain.GameStatusCompleted,
		domain.GameStatusCancelled,
	} {
		game := testutil.NewGameBuilder().WithStatus(status).Build(t, ts.db)
		_, err := ts.services.Draw.DrawNext(ctx, game.ID, "host:test")
		assert.ErrorIs(t, err, domain.ErrInvalidGameState, "status %s", status)
	}
}

func TestDrawService_DrawNext_GameNotFound(t *testing.T) {
	ts := newTestStack(t)

	_, err := ts.services.Draw.DrawNext(context.Background(), uuid.New(), "host:test")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}
