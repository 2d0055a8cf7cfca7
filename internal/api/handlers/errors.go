package handlers

import (
	"errors"
	"net/http"

	"github.com/mlockett42/bingo-live/internal/domain"
)

// respondDomainError maps domain sentinel errors to HTTP statuses. Anything
// unmapped is an internal error.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrPlayerNotFound):
		http.Error(w, "Player not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrCardNotFound):
		http.Error(w, "Card not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidGameState):
		http.Error(w, "Operation not allowed in current game state", http.StatusConflict)
	case errors.Is(err, domain.ErrDrawsExhausted):
		http.Error(w, "All numbers have been drawn", http.StatusConflict)
	case errors.Is(err, domain.ErrConcurrencyConflict):
		http.Error(w, "Conflicting update, retry", http.StatusConflict)
	case errors.Is(err, domain.ErrPlayerForbidden):
		http.Error(w, "Player may not perform this action", http.StatusForbidden)
	case errors.Is(err, domain.ErrNotCardOwner):
		http.Error(w, "Card belongs to another player", http.StatusForbidden)
	case errors.Is(err, domain.ErrCardUnverified):
		http.Error(w, "Card failed verification", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidNumber):
		http.Error(w, "Number out of range", http.StatusBadRequest)
	case errors.Is(err, domain.ErrNumberNotDrawn):
		http.Error(w, "Number has not been drawn", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidPattern):
		http.Error(w, "Unknown pattern", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
