package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/seed"
)

// CardService issues seed-derived cards and checks pattern eligibility
// against the authoritative drawn-number set.
type CardService struct {
	cardRepo repository.CardRepository
	drawRepo repository.DrawRepository
	secret   []byte
}

func NewCardService(cardRepo repository.CardRepository, drawRepo repository.DrawRepository, cfg *config.Config) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		drawRepo: drawRepo,
		secret:   []byte(cfg.GameSeedSecret),
	}
}

// IssueCard creates and persists one card for a player. The grid is a pure
// function of the game seed and card ID, and the stored signature lets any
// later reader detect a tampered grid.
func (s *CardService) IssueCard(ctx context.Context, game *domain.Game, playerID uuid.UUID) (*domain.Card, error) {
	card := &domain.Card{
		ID:       uuid.New(),
		GameID:   game.ID,
		PlayerID: playerID,
	}

	gameSeed := seed.Derive(s.secret, game.ID, game.SeedNonce)
	grid := seed.CardGrid(gameSeed, card.ID)
	if err := card.SetGrid(grid); err != nil {
		return nil, err
	}
	if err := card.SetMarkSet(domain.MarkSet{}); err != nil {
		return nil, err
	}
	card.Signature = seed.Sign(s.secret, seed.CardContext(card.ID, grid))
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Verify checks the card's grid against its stored signature.
func (s *CardService) Verify(card *domain.Card) error {
	grid, err := card.Grid()
	if err != nil {
		return domain.ErrCardUnverified
	}
	if !seed.Verify(s.secret, seed.CardContext(card.ID, grid), card.Signature) {
		return domain.ErrCardUnverified
	}
	return nil
}

// PatternEligible reports whether every cell the pattern requires is
// satisfied: the free center, or a cell whose number the player marked AND
// that has actually been drawn. A locally marked but undrawn number never
// counts; that is the primary anti-cheat check.
func (s *CardService) PatternEligible(card *domain.Card, pattern domain.Pattern, drawn domain.NumberSet) (bool, error) {
	cells, ok := domain.PatternCells(pattern)
	if !ok {
		return false, domain.ErrInvalidPattern
	}

	grid, err := card.Grid()
	if err != nil {
		return false, err
	}
	marks, err := card.MarkSet()
	if err != nil {
		return false, err
	}

	for _, cell := range cells {
		n := grid[cell.Row][cell.Col]
		if n == domain.FreeCell {
			continue
		}
		if !marks.Contains(n) || !drawn.Contains(n) {
			return false, nil
		}
	}
	return true, nil
}

// EligiblePatterns enumerates the patterns currently satisfied on a card.
// This is a read-only hint for UI; adjudication re-checks independently.
func (s *CardService) EligiblePatterns(card *domain.Card, drawn domain.NumberSet) ([]domain.Pattern, error) {
	var eligible []domain.Pattern
	for _, pattern := range domain.AllPatterns() {
		ok, err := s.PatternEligible(card, pattern, drawn)
		if err != nil {
			return nil, err
		}
		if ok {
			eligible = append(eligible, pattern)
		}
	}
	return eligible, nil
}

// MarkNumber sets or clears a player's mark on a card. Marking requires the
// number to have been drawn; unmarking is always allowed.
func (s *CardService) MarkNumber(ctx context.Context, playerID, cardID uuid.UUID, number int, marked bool) (*domain.Card, error) {
	if number < 1 || number > domain.TotalNumbers {
		return nil, domain.ErrInvalidNumber
	}

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.PlayerID != playerID {
		return nil, domain.ErrNotCardOwner
	}

	if marked {
		draws, err := s.drawRepo.GetByGameID(ctx, card.GameID)
		if err != nil {
			return nil, err
		}
		if !domain.NewNumberSet(draws).Contains(number) {
			return nil, domain.ErrNumberNotDrawn
		}
	}

	marks, err := card.MarkSet()
	if err != nil {
		return nil, err
	}
	marks[number] = marked
	if err := card.SetMarkSet(marks); err != nil {
		return nil, err
	}
	card.UpdatedAt = time.Now()

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}
