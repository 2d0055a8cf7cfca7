package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/repository/postgres"
	"github.com/mlockett42/bingo-live/internal/service"
	"github.com/mlockett42/bingo-live/internal/testutil"
)

type testStack struct {
	db        *gorm.DB
	repos     *repository.Repositories
	services  *service.Services
	publisher *testutil.RecordingPublisher
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(db)
	publisher := testutil.NewRecordingPublisher()
	services := service.NewServices(repos, publisher, testutil.TestConfig())

	t.Cleanup(services.Scheduler.StopAll)

	return &testStack{
		db:        db,
		repos:     repos,
		services:  services,
		publisher: publisher,
	}
}

func TestGameService_CreateGame(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	host, _ := testutil.NewUserBuilder().Build(t, ts.db)

	game, err := ts.services.Game.CreateGame(ctx, service.CreateGameInput{
		HostID: host.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, host.ID, game.HostID)
	assert.Equal(t, domain.GameStatusLobby, game.Status)
	assert.NotEmpty(t, game.ShortCode)
	assert.Len(t, game.ShortCode, 6)
	assert.NotEmpty(t, game.SeedNonce)
	assert.Equal(t, 1, game.WinnerLimit)
	assert.Equal(t, 0, game.DrawCount)
}

func TestGameService_GetGame(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	host, _ := testutil.NewUserBuilder().Build(t, ts.db)
	game, err := ts.services.Game.CreateGame(ctx, service.CreateGameInput{HostID: host.ID})
	require.NoError(t, err)

	tests := []struct {
		name     string
		idOrCode string
		wantErr  error
	}{
		{name: "by UUID", idOrCode: game.ID.String()},
		{name: "by short code", idOrCode: game.ShortCode},
		{name: "unknown code", idOrCode: "ZZZZZZ", wantErr: domain.ErrGameNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ts.services.Game.GetGame(ctx, tt.idOrCode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, game.ID, got.ID)
		})
	}
}

func TestGameService_SetStatus(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	host, _ := testutil.NewUserBuilder().Build(t, ts.db)
	game, err := ts.services.Game.CreateGame(ctx, service.CreateGameInput{HostID: host.ID})
	require.NoError(t, err)

	// lobby -> active is not a legal transition
	_, err = ts.services.Game.SetStatus(ctx, game.ID, domain.GameStatusActive)
	assert.ErrorIs(t, err, domain.ErrInvalidGameState)

	for _, next := range []domain.GameStatus{
		domain.GameStatusOpen,
		domain.GameStatusActive,
		domain.GameStatusPaused,
		domain.GameStatusActive,
		domain.GameStatusCompleted,
	} {
		updated, err := ts.services.Game.SetStatus(ctx, game.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Terminal states accept no further transitions.
	_, err = ts.services.Game.SetStatus(ctx, game.ID, domain.GameStatusActive)
	assert.ErrorIs(t, err, domain.ErrInvalidGameState)

	final, err := ts.services.Game.GetGame(ctx, game.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, final.StartedAt)
	assert.NotNil(t, final.CompletedAt)

	statusEvents := ts.publisher.EventsNamed("game_status")
	assert.Len(t, statusEvents, 5)
}

func TestGameService_JoinGame(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().WithStatus(domain.GameStatusOpen).Build(t, ts.db)
	user, _ := testutil.NewUserBuilder().Build(t, ts.db)

	player, cards, err := ts.services.Game.JoinGame(ctx, game.ID, user.ID, user.DisplayName)
	require.NoError(t, err)
	assert.Equal(t, game.ID, player.GameID)
	assert.Equal(t, domain.PlayerStatusActive, player.Status)
	require.Len(t, cards, 1)
	assert.Equal(t, player.ID, cards[0].PlayerID)
	assert.NotEmpty(t, cards[0].Signature)

	// Rejoining returns the same player and cards instead of duplicating.
	again, cardsAgain, err := ts.services.Game.JoinGame(ctx, game.ID, user.ID, user.DisplayName)
	require.NoError(t, err)
	assert.Equal(t, player.ID, again.ID)
	require.Len(t, cardsAgain, 1)
	assert.Equal(t, cards[0].ID, cardsAgain[0].ID)

	joined := ts.publisher.EventsNamed("player_joined")
	assert.Len(t, joined, 1)
}

func TestGameService_JoinGame_TerminalGame(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().WithStatus(domain.GameStatusCompleted).Build(t, ts.db)
	user, _ := testutil.NewUserBuilder().Build(t, ts.db)

	_, _, err := ts.services.Game.JoinGame(ctx, game.ID, user.ID, user.DisplayName)
	assert.ErrorIs(t, err, domain.ErrInvalidGameState)
}

func TestGameService_SetAutoDraw(t *testing.T) {
	ts := newTestStack(t)
	ctx := context.Background()

	game := testutil.NewGameBuilder().WithStatus(domain.GameStatusPaused).Build(t, ts.db)

	updated, err := ts.services.Game.SetAutoDraw(ctx, game.ID, true, 60000)
	require.NoError(t, err)
	assert.True(t, updated.AutoDrawEnabled)
	assert.Equal(t, 60000, updated.AutoDrawIntervalMs)
	// Paused games get no timer until they go active.
	assert.False(t, ts.services.Scheduler.IsRunning(game.ID))

	updated, err = ts.services.Game.SetAutoDraw(ctx, game.ID, false, 0)
	require.NoError(t, err)
	assert.False(t, updated.AutoDrawEnabled)
}
