package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlockett42/bingo-live/internal/api/middleware"
	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/service"
)

type GameHandler struct {
	gameService *service.GameService
	drawService *service.DrawService
	authService *service.AuthService
}

func NewGameHandler(gameService *service.GameService, drawService *service.DrawService, authService *service.AuthService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		drawService: drawService,
		authService: authService,
	}
}

type CreateGameRequest struct {
	WinnerLimit        int  `json:"winnerLimit"`
	AutoDrawEnabled    bool `json:"autoDrawEnabled"`
	AutoDrawIntervalMs int  `json:"autoDrawIntervalMs"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type SetAutoDrawRequest struct {
	Enabled    bool `json:"enabled"`
	IntervalMs int  `json:"intervalMs"`
}

type JoinGameResponse struct {
	Player *domain.Player  `json:"player"`
	Cards  []*CardResponse `json:"cards"`
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), service.CreateGameInput{
		HostID:             userID,
		WinnerLimit:        req.WinnerLimit,
		AutoDrawEnabled:    req.AutoDrawEnabled,
		AutoDrawIntervalMs: req.AutoDrawIntervalMs,
	})
	if err != nil {
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

func (h *GameHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	snapshot, err := h.gameService.Snapshot(r.Context(), game.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	player, cards, err := h.gameService.JoinGame(r.Context(), game.ID, userID, user.DisplayName)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := JoinGameResponse{Player: player}
	for _, card := range cards {
		cr, err := newCardResponse(card)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		resp.Cards = append(resp.Cards, cr)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Draw reveals the next number. Host only; auto-draw ticks go through the
// scheduler instead.
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if game.HostID != userID {
		http.Error(w, "Only the host can draw", http.StatusForbidden)
		return
	}

	draw, err := h.drawService.DrawNext(r.Context(), game.ID, "host:"+userID.String())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draw)
}

func (h *GameHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if game.HostID != userID {
		http.Error(w, "Only the host can change game status", http.StatusForbidden)
		return
	}

	updated, err := h.gameService.SetStatus(r.Context(), game.ID, domain.GameStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *GameHandler) SetAutoDraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetAutoDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), chi.URLParam(r, "idOrCode"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if game.HostID != userID {
		http.Error(w, "Only the host can change auto-draw settings", http.StatusForbidden)
		return
	}

	updated, err := h.gameService.SetAutoDraw(r.Context(), game.ID, req.Enabled, req.IntervalMs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
