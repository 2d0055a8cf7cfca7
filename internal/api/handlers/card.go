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

type CardHandler struct {
	cardService *service.CardService
	cardRepo    repository.CardRepository
	playerRepo  repository.PlayerRepository
	drawRepo    repository.DrawRepository
}

func NewCardHandler(cardService *service.CardService, repos *repository.Repositories) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		cardRepo:    repos.Card,
		playerRepo:  repos.Player,
		drawRepo:    repos.Draw,
	}
}

// CardResponse carries a card with its grid and mark state decoded for the
// client. The signature stays server-side.
type CardResponse struct {
	ID       string      `json:"id"`
	GameID   string      `json:"gameId"`
	PlayerID string      `json:"playerId"`
	Grid     domain.Grid `json:"grid"`
	Marked   []int       `json:"marked"`
}

func newCardResponse(card *domain.Card) (*CardResponse, error) {
	grid, err := card.Grid()
	if err != nil {
		return nil, err
	}
	marks, err := card.MarkSet()
	if err != nil {
		return nil, err
	}

	marked := []int{}
	for n := 1; n <= domain.TotalNumbers; n++ {
		if marks[n] {
			marked = append(marked, n)
		}
	}

	return &CardResponse{
		ID:       card.ID.String(),
		GameID:   card.GameID.String(),
		PlayerID: card.PlayerID.String(),
		Grid:     grid,
		Marked:   marked,
	}, nil
}

type MarkRequest struct {
	Number int  `json:"number"`
	Marked bool `json:"marked"`
}

type EligiblePatternsResponse struct {
	Patterns []domain.Pattern `json:"patterns"`
}

// resolvePlayer maps the authenticated user to their player row in the
// card's game. Card actions are always scoped to the caller's own player.
func (h *CardHandler) resolvePlayer(r *http.Request, card *domain.Card) (*domain.Player, error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil, domain.ErrPlayerForbidden
	}
	return h.playerRepo.GetByGameAndUser(r.Context(), card.GameID, userID)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}

	card, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp, err := newCardResponse(card)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *CardHandler) Mark(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}

	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	card, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	player, err := h.resolvePlayer(r, card)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	updated, err := h.cardService.MarkNumber(r.Context(), player.ID, cardID, req.Number, req.Marked)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp, err := newCardResponse(updated)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// EligiblePatterns is a UI hint; claim adjudication re-checks on its own.
func (h *CardHandler) EligiblePatterns(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}

	card, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if _, err := h.resolvePlayer(r, card); err != nil {
		respondDomainError(w, err)
		return
	}

	draws, err := h.drawRepo.GetByGameID(r.Context(), card.GameID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	patterns, err := h.cardService.EligiblePatterns(card, domain.NewNumberSet(draws))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if patterns == nil {
		patterns = []domain.Pattern{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EligiblePatternsResponse{Patterns: patterns})
}
