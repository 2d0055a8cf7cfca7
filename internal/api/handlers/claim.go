package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mlockett42/bingo-live/internal/api/middleware"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/service"
)

type ClaimHandler struct {
	claimService *service.ClaimService
	gameService  *service.GameService
	playerRepo   repository.PlayerRepository
	claimRepo    repository.ClaimRepository
}

func NewClaimHandler(claimService *service.ClaimService, gameService *service.GameService, repos *repository.Repositories) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
		gameService:  gameService,
		playerRepo:   repos.Player,
		claimRepo:    repos.Claim,
	}
}

type SubmitClaimRequest struct {
	CardID  string `json:"cardId"`
	Pattern string `json:"pattern"`
}

func (h *ClaimHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	player, err := h.playerRepo.GetByGameAndUser(r.Context(), game.ID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := h.claimService.SubmitClaim(r.Context(), game.ID, player.ID, cardID, domain.Pattern(req.Pattern))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// List returns a game's adjudicated claims, most useful for end-of-game
// summaries.
func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	claims, err := h.claimRepo.GetByGameID(r.Context(), game.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if claims == nil {
		claims = []*domain.Claim{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claims)
}
