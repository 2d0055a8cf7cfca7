package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/seed"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// GameBuilder creates test games with a builder pattern
type GameBuilder struct {
	host        *domain.User
	status      domain.GameStatus
	winnerLimit int
	autoDraw    bool
	intervalMs  int
}

// NewGameBuilder creates a new GameBuilder with default values
func NewGameBuilder() *GameBuilder {
	return &GameBuilder{
		status:      domain.GameStatusActive,
		winnerLimit: 1,
		intervalMs:  10000,
	}
}

// WithHost sets the hosting user
func (b *GameBuilder) WithHost(user *domain.User) *GameBuilder {
	b.host = user
	return b
}

// WithStatus sets the game status
func (b *GameBuilder) WithStatus(status domain.GameStatus) *GameBuilder {
	b.status = status
	return b
}

// WithWinnerLimit sets how many winners the game pays out
func (b *GameBuilder) WithWinnerLimit(limit int) *GameBuilder {
	b.winnerLimit = limit
	return b
}

// WithAutoDraw enables automatic drawing at the given interval
func (b *GameBuilder) WithAutoDraw(intervalMs int) *GameBuilder {
	b.autoDraw = true
	b.intervalMs = intervalMs
	return b
}

// Build creates the game in the database
func (b *GameBuilder) Build(t *testing.T, db *gorm.DB) *domain.Game {
	t.Helper()

	if b.host == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.host = user
	}

	now := time.Now()
	game := &domain.Game{
		ID:                 uuid.New(),
		ShortCode:          uuid.New().String()[:6],
		HostID:             b.host.ID,
		Status:             b.status,
		SeedNonce:          seed.NewNonce(),
		WinnerLimit:        b.winnerLimit,
		AutoDrawEnabled:    b.autoDraw,
		AutoDrawIntervalMs: b.intervalMs,
		CreatedAt:          now,
	}
	if b.status != domain.GameStatusLobby {
		game.StartedAt = &now
	}

	if err := db.Create(game).Error; err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	return game
}

// PlayerBuilder creates test players with a builder pattern
type PlayerBuilder struct {
	game    *domain.Game
	user    *domain.User
	status  domain.PlayerStatus
	strikes int
}

// NewPlayerBuilder creates a new PlayerBuilder with default values
func NewPlayerBuilder() *PlayerBuilder {
	return &PlayerBuilder{
		status: domain.PlayerStatusActive,
	}
}

// InGame sets the game the player belongs to
func (b *PlayerBuilder) InGame(game *domain.Game) *PlayerBuilder {
	b.game = game
	return b
}

// ForUser sets the backing user
func (b *PlayerBuilder) ForUser(user *domain.User) *PlayerBuilder {
	b.user = user
	return b
}

// WithStatus sets the player status
func (b *PlayerBuilder) WithStatus(status domain.PlayerStatus) *PlayerBuilder {
	b.status = status
	return b
}

// WithStrikes sets the accumulated strike count
func (b *PlayerBuilder) WithStrikes(strikes int) *PlayerBuilder {
	b.strikes = strikes
	return b
}

// Build creates the player in the database
func (b *PlayerBuilder) Build(t *testing.T, db *gorm.DB) *domain.Player {
	t.Helper()

	if b.game == nil {
		b.game = NewGameBuilder().Build(t, db)
	}
	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	now := time.Now()
	player := &domain.Player{
		ID:          uuid.New(),
		GameID:      b.game.ID,
		UserID:      b.user.ID,
		DisplayName: b.user.DisplayName,
		Status:      b.status,
		Strikes:     b.strikes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.Create(player).Error; err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	return player
}
