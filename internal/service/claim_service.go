package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/events"
	"github.com/mlockett42/bingo-live/internal/repository"
)

// ClaimService adjudicates win claims. Winner ranks are assigned
// first-committed-wins: the game's version column is the single
// serialization point per game, so two eligible claims racing for the last
// winner slot can never both commit the same rank. Commit order is the
// tie-break; submission timestamps are client-influenced and not trusted.
type ClaimService struct {
	gameRepo   repository.GameRepository
	playerRepo repository.PlayerRepository
	cardRepo   repository.CardRepository
	drawRepo   repository.DrawRepository
	claimRepo  repository.ClaimRepository
	cards      *CardService
	publisher  events.Publisher
	cfg        *config.Config
}

func NewClaimService(repos *repository.Repositories, cards *CardService, publisher events.Publisher, cfg *config.Config) *ClaimService {
	return &ClaimService{
		gameRepo:   repos.Game,
		playerRepo: repos.Player,
		cardRepo:   repos.Card,
		drawRepo:   repos.Draw,
		claimRepo:  repos.Claim,
		cards:      cards,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// ClaimResult is returned to the submitting client.
type ClaimResult struct {
	ClaimID       uuid.UUID          `json:"claimId"`
	Status        domain.ClaimStatus `json:"status"`
	Valid         bool               `json:"valid"`
	WinnerRank    *int               `json:"winnerRank,omitempty"`
	StrikeApplied bool               `json:"strikeApplied"`
	Strikes       int                `json:"strikes"`
	CooldownMs    int64              `json:"cooldownMs"`
}

// SubmitClaim adjudicates a pattern claim synchronously. It never trusts
// client-supplied mark state: the card and drawn set are re-fetched and the
// validator re-run. Identical resubmission of an already-adjudicated claim
// returns the stored result without re-adjudicating or touching strikes.
func (s *ClaimService) SubmitClaim(ctx context.Context, gameID, playerID, cardID uuid.UUID, pattern domain.Pattern) (*ClaimResult, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.GameID != gameID {
		return nil, domain.ErrPlayerNotFound
	}

	now := time.Now()
	if !player.CanClaim(now) {
		return nil, domain.ErrPlayerForbidden
	}
	if player.Status == domain.PlayerStatusCooldown {
		// Cooldown expired; restore the player before adjudicating.
		player.Status = domain.PlayerStatusActive
		player.CooldownUntil = nil
		player.UpdatedAt = now
		if err := s.playerRepo.Update(ctx, player); err != nil {
			return nil, err
		}
	}

	if _, ok := domain.PatternCells(pattern); !ok {
		return nil, domain.ErrInvalidPattern
	}

	// Idempotency: accepted and superseded outcomes are final forever; a
	// denial is replayed only while no further draw has happened, so a retry
	// burst cannot double-strike but the pattern stays claimable as the
	// board fills in.
	prev, err := s.claimRepo.GetLatest(ctx, gameID, playerID, cardID, pattern)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.Status.Terminal() {
		if prev.Status != domain.ClaimStatusDenied || prev.DrawCountAt == game.DrawCount {
			return s.storedResult(prev, player, now), nil
		}
	}

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.GameID != gameID {
		return nil, domain.ErrCardNotFound
	}
	if card.PlayerID != playerID {
		return nil, domain.ErrNotCardOwner
	}

	if err := s.cards.Verify(card); err != nil {
		// Tampered grid. Penalize and surface; never retried.
		if _, penErr := s.deny(ctx, game, player, cardID, pattern, now); penErr != nil {
			return nil, penErr
		}
		return nil, domain.ErrCardUnverified
	}

	draws, err := s.drawRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	eligible, err := s.cards.PatternEligible(card, pattern, domain.NewNumberSet(draws))
	if err != nil {
		return nil, err
	}

	if !eligible {
		return s.deny(ctx, game, player, cardID, pattern, now)
	}
	return s.accept(ctx, game, player, cardID, pattern, now)
}

// deny records the invalid claim and applies a strike; crossing the
// threshold forces the player into cooldown.
func (s *ClaimService) deny(ctx context.Context, game *domain.Game, player *domain.Player, cardID uuid.UUID, pattern domain.Pattern, now time.Time) (*ClaimResult, error) {
	claim := &domain.Claim{
		ID:          uuid.New(),
		GameID:      game.ID,
		PlayerID:    player.ID,
		CardID:      cardID,
		Pattern:     pattern,
		Status:      domain.ClaimStatusDenied,
		Valid:       false,
		DrawCountAt: game.DrawCount,
		SubmittedAt: now,
		ResolvedAt:  &now,
	}

	player.Strikes++
	var cooldownMs int64
	if player.Strikes >= s.cfg.StrikeThreshold && player.Status == domain.PlayerStatusActive {
		until := now.Add(s.cfg.CooldownDuration)
		player.Status = domain.PlayerStatusCooldown
		player.CooldownUntil = &until
		cooldownMs = s.cfg.CooldownDuration.Milliseconds()
	}
	player.UpdatedAt = now

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Room: game.Room(),
		Name: events.EventClaimDenied,
		Data: map[string]interface{}{
			"playerId": player.ID,
			"pattern":  pattern,
		},
	})

	return &ClaimResult{
		ClaimID:       claim.ID,
		Status:        claim.Status,
		Valid:         false,
		StrikeApplied: true,
		Strikes:       player.Strikes,
		CooldownMs:    cooldownMs,
	}, nil
}

// accept assigns the next winner rank under the game's version guard. Once
// the winner limit is filled, a late eligible claim resolves superseded.
func (s *ClaimService) accept(ctx context.Context, game *domain.Game, player *domain.Player, cardID uuid.UUID, pattern domain.Pattern, now time.Time) (*ClaimResult, error) {
	for attempt := 1; ; attempt++ {
		if game.WinnerCount >= game.WinnerLimit {
			return s.supersede(ctx, game, player, cardID, pattern, now)
		}

		rank := game.WinnerCount + 1
		claim := &domain.Claim{
			ID:          uuid.New(),
			GameID:      game.ID,
			PlayerID:    player.ID,
			CardID:      cardID,
			Pattern:     pattern,
			Status:      domain.ClaimStatusAccepted,
			Valid:       true,
			WinnerRank:  &rank,
			DrawCountAt: game.DrawCount,
			SubmittedAt: now,
			ResolvedAt:  &now,
		}

		game.WinnerCount = rank
		completed := false
		if game.WinnerCount >= game.WinnerLimit && !game.Status.IsTerminal() {
			game.Status = domain.GameStatusCompleted
			game.CompletedAt = &now
			completed = true
		}

		err := s.gameRepo.CommitClaim(ctx, game, claim, player)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			if attempt >= drawAttempts {
				return nil, err
			}
			fresh, ferr := s.gameRepo.GetByID(ctx, game.ID)
			if ferr != nil {
				return nil, ferr
			}
			game = fresh
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publisher.Publish(ctx, events.Event{
			Room: game.Room(),
			Name: events.EventClaimAccepted,
			Data: map[string]interface{}{
				"playerId":   player.ID,
				"pattern":    pattern,
				"winnerRank": rank,
			},
		})
		if completed {
			s.publisher.Publish(ctx, events.Event{
				Room: game.Room(),
				Name: events.EventGameCompleted,
				Data: map[string]interface{}{"reason": "winner_limit", "winnerCount": game.WinnerCount},
			})
		}

		return &ClaimResult{
			ClaimID:    claim.ID,
			Status:     claim.Status,
			Valid:      true,
			WinnerRank: &rank,
			Strikes:    player.Strikes,
		}, nil
	}
}

func (s *ClaimService) supersede(ctx context.Context, game *domain.Game, player *domain.Player, cardID uuid.UUID, pattern domain.Pattern, now time.Time) (*ClaimResult, error) {
	claim := &domain.Claim{
		ID:          uuid.New(),
		GameID:      game.ID,
		PlayerID:    player.ID,
		CardID:      cardID,
		Pattern:     pattern,
		Status:      domain.ClaimStatusSuperseded,
		Valid:       true,
		DrawCountAt: game.DrawCount,
		SubmittedAt: now,
		ResolvedAt:  &now,
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}
	return &ClaimResult{
		ClaimID: claim.ID,
		Status:  claim.Status,
		Valid:   true,
		Strikes: player.Strikes,
	}, nil
}

func (s *ClaimService) storedResult(claim *domain.Claim, player *domain.Player, now time.Time) *ClaimResult {
	var cooldownMs int64
	if player.InCooldown(now) {
		cooldownMs = player.CooldownUntil.Sub(now).Milliseconds()
	}
	return &ClaimResult{
		ClaimID:    claim.ID,
		Status:     claim.Status,
		Valid:      claim.Valid,
		WinnerRank: claim.WinnerRank,
		Strikes:    player.Strikes,
		CooldownMs: cooldownMs,
	}
}
