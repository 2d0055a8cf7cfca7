package testutil

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/mlockett42/bingo-live/internal/api"
	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/repository"
	"github.com/mlockett42/bingo-live/internal/repository/postgres"
	"github.com/mlockett42/bingo-live/internal/service"
	"github.com/mlockett42/bingo-live/internal/websocket"
	"gorm.io/gorm"
)

// TestServer holds all components for integration testing
type TestServer struct {
	Server    *httptest.Server
	DB        *gorm.DB
	Repos     *repository.Repositories
	Services  *service.Services
	Hub       *websocket.Hub
	Publisher *RecordingPublisher
	Config    *config.Config
}

// NewTestServer creates a complete test server with all dependencies. Events
// go to an in-memory recorder and straight into the hub, standing in for the
// broker bridge.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := NewTestDB(t)
	cfg := TestConfig()

	repos := postgres.NewRepositories(db)
	hub := websocket.NewHub()
	go hub.Run()

	publisher := NewRecordingPublisher()
	services := service.NewServices(repos, publisher, cfg)
	router := api.NewRouter(services, hub, repos, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Repos:     repos,
		Services:  services,
		Hub:       hub,
		Publisher: publisher,
		Config:    cfg,
	}

	t.Cleanup(func() {
		server.Close()
		services.Scheduler.StopAll()
		hub.Stop()
	})

	return ts
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the WebSocket URL with token
func (ts *TestServer) WebSocketURL(token string) string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/ws?token=%s", wsURL, token)
}
