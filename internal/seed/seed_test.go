package seed_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/seed"
)

func TestDerive_Deterministic(t *testing.T) {
	secret := []byte("test-game-seed-secret")
	gameID := uuid.New()
	nonce := seed.NewNonce()

	first := seed.Derive(secret, gameID, nonce)
	second := seed.Derive(secret, gameID, nonce)
	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestDerive_DistinctInputsDistinctSeeds(t *testing.T) {
	secret := []byte("test-game-seed-secret")
	gameID := uuid.New()
	nonce := seed.NewNonce()

	base := seed.Derive(secret, gameID, nonce)
	assert.NotEqual(t, base, seed.Derive(secret, uuid.New(), nonce))
	assert.NotEqual(t, base, seed.Derive(secret, gameID, seed.NewNonce()))
	assert.NotEqual(t, base, seed.Derive([]byte("other-secret"), gameID, nonce))
}

func TestPermutation_CoversAllNumbersExactlyOnce(t *testing.T) {
	s := seed.Derive([]byte("test-game-seed-secret"), uuid.New(), seed.NewNonce())
	perm := seed.Permutation(s)

	seen := make(map[int]bool, domain.TotalNumbers)
	for _, n := range perm {
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, domain.TotalNumbers)
		require.False(t, seen[n], "number %d appears twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, domain.TotalNumbers)
}

func TestPermutation_RoundTripDeterminism(t *testing.T) {
	secret := []byte("test-game-seed-secret")
	gameID := uuid.New()
	nonce := seed.NewNonce()

	first := seed.Permutation(seed.Derive(secret, gameID, nonce))
	second := seed.Permutation(seed.Derive(secret, gameID, nonce))
	assert.Equal(t, first, second)
}

func TestPermutation_DifferentSeedsDiffer(t *testing.T) {
	secret := []byte("test-game-seed-secret")
	a := seed.Permutation(seed.Derive(secret, uuid.New(), seed.NewNonce()))
	b := seed.Permutation(seed.Derive(secret, uuid.New(), seed.NewNonce()))
	assert.NotEqual(t, a, b)
}

func TestSignAndVerify(t *testing.T) {
	secret := []byte("test-game-seed-secret")
	gameID := uuid.New()

	ctx := seed.DrawContext(gameID, 1, 42)
	sig := seed.Sign(secret, ctx)

	assert.True(t, seed.Verify(secret, ctx, sig))
	assert.False(t, seed.Verify(secret, seed.DrawContext(gameID, 1, 43), sig))
	assert.False(t, seed.Verify(secret, ctx, sig[:len(sig)-2]+"ff"))
	assert.False(t, seed.Verify([]byte("other-secret"), ctx, sig))
}

func TestCardContext_SensitiveToGrid(t *testing.T) {
	cardID := uuid.New()
	var grid domain.Grid
	value := 1
	for r := range grid {
		for c := range grid {
			grid[r][c] = value
			value++
		}
	}
	grid[2][2] = domain.FreeCell

	base := seed.CardContext(cardID, grid)

	tampered := grid
	tampered[0][0] = 99
	assert.NotEqual(t, base, seed.CardContext(cardID, tampered))
	assert.NotEqual(t, base, seed.CardContext(uuid.New(), grid))
}
