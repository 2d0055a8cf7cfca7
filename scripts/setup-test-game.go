package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

type User struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Token       string `json:"token"`
	UserID      string `json:"userId"`
}

type Game struct {
	ID        string `json:"id"`
	ShortCode string `json:"shortCode"`
	Status    string `json:"status"`
}

type RegisterResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

func registerUser(displayName, password string) (*User, error) {
	body, _ := json.Marshal(map[string]string{
		"displayName": displayName,
		"password":    password,
	})

	resp, err := http.Post(apiBase+"/auth/register", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &User{
		DisplayName: result.User.DisplayName,
		Password:    password,
		Token:       result.AccessToken,
		UserID:      result.User.ID,
	}, nil
}

func post(token, path string, payload interface{}, out interface{}) error {
	var bodyReader *bytes.Buffer
	if payload != nil {
		body, _ := json.Marshal(payload)
		bodyReader = bytes.NewBuffer(body)
	} else {
		bodyReader = bytes.NewBuffer([]byte("{}"))
	}

	req, _ := http.NewRequest("POST", apiBase+path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed (%d): %s", path, resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func generateUsername(index int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("test_%d_%d_%s", index, time.Now().Unix(), string(random))
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("Setting up test bingo game...")

	password := "testpassword123"
	var users []*User

	// Register a host and 4 players
	fmt.Println("Registering 5 users...")
	for i := 1; i <= 5; i++ {
		username := generateUsername(i)
		user, err := registerUser(username, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register user %d: %v\n", i, err)
			os.Exit(1)
		}
		users = append(users, user)
		fmt.Printf("  ✓ User %d: %s\n", i, user.DisplayName)
	}

	host := users[0]

	// Host creates the game
	fmt.Println("\nCreating game...")
	var game Game
	err := post(host.Token, "/games", map[string]interface{}{
		"winnerLimit":        3,
		"autoDrawEnabled":    true,
		"autoDrawIntervalMs": 5000,
	}, &game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create game: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Game created: %s\n", game.ShortCode)

	// Open the game for joining
	if err := post(host.Token, "/games/"+game.ID+"/status", map[string]string{"status": "open"}, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open game: %v\n", err)
		os.Exit(1)
	}

	// All users join, host included
	fmt.Println("\nJoining players...")
	for i, user := range users {
		if err := post(user.Token, "/games/"+game.ID+"/join", nil, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to join user %d: %v\n", i+1, err)
			os.Exit(1)
		}
		fmt.Printf("  ✓ User %d joined\n", i+1)
	}

	// Start drawing
	if err := post(host.Token, "/games/"+game.ID+"/status", map[string]string{"status": "active"}, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to activate game: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n  ✓ Game active, auto-draw running every 5s")

	fmt.Println("\n" + "============================================================")
	fmt.Println("TEST GAME SETUP COMPLETE")
	fmt.Println("============================================================")

	fmt.Println("\nGame Info:")
	fmt.Printf("  ID: %s\n", game.ID)
	fmt.Printf("  Code: %s\n", game.ShortCode)

	fmt.Println("\nUsers (all use password: testpassword123):")
	fmt.Printf("  Host:   %s\n", host.DisplayName)
	for i := 1; i < len(users); i++ {
		fmt.Printf("  Player: %s\n", users[i].DisplayName)
	}

	// Output JSON for programmatic use
	output := map[string]interface{}{
		"game": map[string]string{
			"id":        game.ID,
			"shortCode": game.ShortCode,
		},
		"users": users,
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("JSON OUTPUT (for scripts):")
	fmt.Println("============================================================")
	jsonOutput, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonOutput))
}
