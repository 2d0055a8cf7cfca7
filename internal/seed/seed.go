// Package seed derives each game's randomness from a per-deployment secret
// and a per-game nonce. Everything here is a pure function of its inputs:
// anyone holding the secret can recompute the draw permutation, every card
// grid and every signature, which is what makes the draw sequence auditable
// after the fact.
package seed

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/domain"
)

// NewNonce generates the random nonce stored on a game at creation. A nonce
// must never be reused across games sharing a secret, or their draw
// sequences would be correlated.
func NewNonce() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Derive produces the 32-byte seed for a game.
func Derive(secret []byte, gameID uuid.UUID, nonce string) []byte {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "seed|%s|%s", gameID, nonce)
	return mac.Sum(nil)
}

// Sign produces a hex signature over a canonical context string.
func Sign(secret []byte, context string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(context))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature produced by Sign in constant time.
func Verify(secret []byte, context, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, context)), []byte(signature))
}

// DrawContext is the canonical string signed for a draw.
func DrawContext(gameID uuid.UUID, sequence, number int) string {
	return fmt.Sprintf("draw|%s|%d|%d", gameID, sequence, number)
}

// CardContext is the canonical string signed for a card grid.
func CardContext(cardID uuid.UUID, grid domain.Grid) string {
	ctx := fmt.Sprintf("card|%s", cardID)
	for _, row := range grid {
		for _, n := range row {
			ctx += fmt.Sprintf("|%d", n)
		}
	}
	return ctx
}

// stream expands a seed into an unbounded deterministic byte stream using
// HMAC in counter mode.
type stream struct {
	seed    []byte
	counter uint64
	buf     []byte
}

func newStream(seed []byte) *stream {
	return &stream{seed: seed}
}

func (s *stream) next8() uint64 {
	if len(s.buf) < 8 {
		mac := hmac.New(sha256.New, s.seed)
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], s.counter)
		s.counter++
		mac.Write(ctr[:])
		s.buf = append(s.buf, mac.Sum(nil)...)
	}
	v := binary.BigEndian.Uint64(s.buf[:8])
	s.buf = s.buf[8:]
	return v
}

// intn returns a uniform value in [0, n) using rejection sampling so the
// permutation has no modulo bias.
func (s *stream) intn(n uint64) uint64 {
	limit := (^uint64(0) / n) * n
	for {
		v := s.next8()
		if v < limit {
			return v % n
		}
	}
}

// CardGrid derives a reproducible 5x5 grid for a card from the game seed.
// Each column is filled with 5 distinct numbers picked from its 15-number
// band; the center cell is the free space. The card ID salts the stream so
// two cards in the same game get different grids.
func CardGrid(seedBytes []byte, cardID uuid.UUID) domain.Grid {
	mac := hmac.New(sha256.New, seedBytes)
	mac.Write([]byte("card|" + cardID.String()))
	s := newStream(mac.Sum(nil))

	var grid domain.Grid
	for col := 0; col < domain.GridSize; col++ {
		low, high := domain.ColumnRange(col)
		band := make([]int, 0, high-low+1)
		for n := low; n <= high; n++ {
			band = append(band, n)
		}
		for row := 0; row < domain.GridSize; row++ {
			pick := row + int(s.intn(uint64(len(band)-row)))
			band[row], band[pick] = band[pick], band[row]
			grid[row][col] = band[row]
		}
	}
	grid[domain.GridSize/2][domain.GridSize/2] = domain.FreeCell
	return grid
}

// Permutation returns the full shuffled 1-75 sequence for a seed via
// Fisher-Yates keyed by the seed stream. The draw at sequence k is
// Permutation(seed)[k-1].
func Permutation(seedBytes []byte) [domain.TotalNumbers]int {
	var perm [domain.TotalNumbers]int
	for i := range perm {
		perm[i] = i + 1
	}
	s := newStream(seedBytes)
	for i := len(perm) - 1; i > 0; i-- {
		j := s.intn(uint64(i + 1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
