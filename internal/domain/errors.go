package domain

import "errors"

// Game errors
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidGameState = errors.New("operation not valid for current game status")
	ErrDrawsExhausted   = errors.New("all numbers have been drawn")
)

// ErrSessionNotFound means an auth session was revoked or never existed;
// tokens bound to it no longer validate.
var ErrSessionNotFound = errors.New("session not found")

// Player, card and claim errors
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerForbidden = errors.New("player is in cooldown or disqualified")
	ErrCardNotFound    = errors.New("card not found")
	ErrCardUnverified  = errors.New("card signature does not match game seed")
	ErrNotCardOwner    = errors.New("card belongs to a different player")
	ErrInvalidNumber   = errors.New("number is outside the 1-75 range")
	ErrNumberNotDrawn  = errors.New("number has not been drawn yet")
	ErrInvalidPattern  = errors.New("unknown pattern kind")
)

// ErrConcurrencyConflict means a versioned update lost a race with a
// concurrent writer for the same game. Safe to retry once against fresh state.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")
