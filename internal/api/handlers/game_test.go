package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlockett42/bingo-live/internal/domain"
	"github.com/mlockett42/bingo-live/internal/testutil"
)

func doRequest(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()
	req := testutil.CreateAuthenticatedRequest(t, method, url, body, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestGameFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, hostToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, playerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// Host creates a game.
	resp := doRequest(t, http.MethodPost, ts.APIURL("/games"), map[string]interface{}{
		"winnerLimit": 2,
	}, hostToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var game domain.Game
	require.NoError(t, json.Unmarshal(body, &game))
	assert.Equal(t, domain.GameStatusLobby, game.Status)
	assert.Equal(t, 2, game.WinnerLimit)

	// The seed nonce must never reach a client.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.NotContains(t, raw, "seedNonce")
	assert.NotContains(t, raw, "SeedNonce")

	gameURL := func(suffix string) string {
		return ts.APIURL("/games/" + game.ID.String() + suffix)
	}

	// Open the game so players can join.
	resp = doRequest(t, http.MethodPost, gameURL("/status"), map[string]string{"status": "open"}, hostToken)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A player joins and gets a card.
	resp = doRequest(t, http.MethodPost, gameURL("/join"), nil, playerToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var joined struct {
		Player domain.Player `json:"player"`
		Cards  []struct {
			ID   string      `json:"id"`
			Grid domain.Grid `json:"grid"`
		} `json:"cards"`
	}
	testutil.AssertJSONResponse(t, resp, &joined)
	require.Len(t, joined.Cards, 1)
	assert.Equal(t, domain.FreeCell, joined.Cards[0].Grid[2][2])

	// Drawing is forbidden while the game is not active and for non-hosts.
	resp = doRequest(t, http.MethodPost, gameURL("/draw"), nil, playerToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, gameURL("/status"), map[string]string{"status": "active"}, hostToken)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, gameURL("/draw"), nil, hostToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var draw domain.Draw
	testutil.AssertJSONResponse(t, resp, &draw)
	assert.Equal(t, 1, draw.Sequence)

	// Marking the drawn number succeeds; an undrawn number is rejected.
	cardURL := ts.APIURL("/cards/" + joined.Cards[0].ID)

	resp = doRequest(t, http.MethodPost, cardURL+"/mark", map[string]interface{}{
		"number": draw.Number,
		"marked": true,
	}, playerToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var card struct {
		Marked []int `json:"marked"`
	}
	testutil.AssertJSONResponse(t, resp, &card)
	assert.Equal(t, []int{draw.Number}, card.Marked)

	undrawn := draw.Number%domain.TotalNumbers + 1
	resp = doRequest(t, http.MethodPost, cardURL+"/mark", map[string]interface{}{
		"number": undrawn,
		"marked": true,
	}, playerToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Another player cannot touch this card.
	resp = doRequest(t, http.MethodPost, cardURL+"/mark", map[string]interface{}{
		"number": draw.Number,
		"marked": false,
	}, hostToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The snapshot reflects the draw history.
	resp = doRequest(t, http.MethodGet, gameURL("/snapshot"), nil, playerToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshot struct {
		Game    domain.Game     `json:"game"`
		Draws   []domain.Draw   `json:"draws"`
		Players []domain.Player `json:"players"`
	}
	testutil.AssertJSONResponse(t, resp, &snapshot)
	assert.Equal(t, 1, snapshot.Game.DrawCount)
	require.Len(t, snapshot.Draws, 1)
	assert.Len(t, snapshot.Players, 1)

	// A premature claim is denied with a strike, not an error.
	resp = doRequest(t, http.MethodPost, gameURL("/claims"), map[string]string{
		"cardId":  joined.Cards[0].ID,
		"pattern": "row_1",
	}, playerToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var claim struct {
		Status        domain.ClaimStatus `json:"status"`
		StrikeApplied bool               `json:"strikeApplied"`
		Strikes       int                `json:"strikes"`
	}
	testutil.AssertJSONResponse(t, resp, &claim)
	assert.Equal(t, domain.ClaimStatusDenied, claim.Status)
	assert.True(t, claim.StrikeApplied)
	assert.Equal(t, 1, claim.Strikes)
}

func TestGameHandler_GetByShortCode(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := doRequest(t, http.MethodPost, ts.APIURL("/games"), map[string]interface{}{}, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var game domain.Game
	testutil.AssertJSONResponse(t, resp, &game)

	resp = doRequest(t, http.MethodGet, ts.APIURL("/games/"+game.ShortCode), nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.Game
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, game.ID, got.ID)

	resp = doRequest(t, http.MethodGet, ts.APIURL("/games/ZZZZZZ"), nil, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
