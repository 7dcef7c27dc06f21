package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riichi-league/scorekeeper/internal/config"
	"github.com/riichi-league/scorekeeper/internal/database"
	"github.com/riichi-league/scorekeeper/internal/league"
	"github.com/riichi-league/scorekeeper/internal/ledger"
	"github.com/riichi-league/scorekeeper/internal/metrics"
	"github.com/riichi-league/scorekeeper/internal/notifier"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier) (*Server, ledger.LedgerStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := ledger.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	server := NewServer(store, metricsSvc, metricsHandler, cfg, notif)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, store, teardown
}

func doRequest(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	return rr
}

// decodeData unmarshals the envelope's data field into dst.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success, got error: %s", envelope.Error)
	if dst != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dst))
	}
}

func seedSeasonAndPlayers(t *testing.T, server *Server) (int64, []string) {
	t.Helper()

	var season league.Season
	rr := doRequest(t, server, "POST", "/api/seasons", ledger.NewSeason{
		Name:      "2026 Spring",
		StartDate: "2026-01-01",
		IsActive:  true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	decodeData(t, rr, &season)

	ids := make([]string, 0, 4)
	for _, name := range []string{"East", "South", "West", "North"} {
		var player league.Player
		rr := doRequest(t, server, "POST", "/api/players", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rr.Code)
		decodeData(t, rr, &player)
		ids = append(ids, player.ID)
	}
	return season.ID, ids
}

func gameBody(date string, playerIDs []string) league.GameSubmission {
	scores := []int{35000, 28000, 22000, 15000}
	results := make([]league.GameResult, 4)
	for i := range results {
		results[i] = league.GameResult{PlayerID: playerIDs[i], Rank: i + 1, RawScore: scores[i]}
	}
	return league.GameSubmission{GameDate: date, Results: results}
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := doRequest(t, server, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestSeasonLifecycle(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := doRequest(t, server, "POST", "/api/seasons", ledger.NewSeason{Name: "First", StartDate: "2026-01-01", IsActive: true})
	require.Equal(t, http.StatusCreated, rr.Code)
	var first league.Season
	decodeData(t, rr, &first)
	assert.True(t, first.IsActive)

	// Duplicate name conflicts.
	rr = doRequest(t, server, "POST", "/api/seasons", ledger.NewSeason{Name: "First", StartDate: "2026-02-01"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, server, "POST", "/api/seasons", ledger.NewSeason{Name: "Second", StartDate: "2026-04-01"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var second league.Season
	decodeData(t, rr, &second)

	rr = doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/activate", second.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "GET", "/api/seasons/active", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var active league.Season
	decodeData(t, rr, &active)
	assert.Equal(t, second.ID, active.ID)

	rr = doRequest(t, server, "PUT", fmt.Sprintf("/api/seasons/%d", first.ID), map[string]any{"description": "archived"})
	require.Equal(t, http.StatusOK, rr.Code)
	var patched league.Season
	decodeData(t, rr, &patched)
	assert.Equal(t, "archived", patched.Description)

	rr = doRequest(t, server, "GET", "/api/seasons", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var seasons []league.Season
	decodeData(t, rr, &seasons)
	assert.Len(t, seasons, 2)
}

func TestSeasonNotFound(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := doRequest(t, server, "GET", "/api/seasons/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, server, "GET", "/api/seasons/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSettingsHandlers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seasonID, _ := seedSeasonAndPlayers(t, server)

	rr := doRequest(t, server, "GET", fmt.Sprintf("/api/seasons/%d/settings", seasonID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var settings league.RuleSettings
	decodeData(t, rr, &settings)
	assert.Equal(t, 25000, settings.GameStartChipCount)
	assert.Equal(t, -20, settings.UmaPoints[4])

	settings.UmaPoints = map[int]int{1: 30, 2: 10, 3: -10}
	rr = doRequest(t, server, "PUT", fmt.Sprintf("/api/seasons/%d/settings", seasonID), settings)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated league.RuleSettings
	decodeData(t, rr, &updated)
	assert.Equal(t, -30, updated.UmaPoints[4])
}

func TestRecordGameHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)

	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody("2026-02-01", playerIDs))
	require.Equal(t, http.StatusCreated, rr.Code)

	var game league.Game
	decodeData(t, rr, &game)
	require.Len(t, game.Results, 4)

	var sum float64
	for _, res := range game.Results {
		sum += res.CalculatedPoints
	}
	assert.InDelta(t, 0, sum, 1e-9)

	// The notifier saw the game.
	require.Len(t, notif.SendGameResultCalls, 1)
	assert.Equal(t, game.ID, notif.SendGameResultCalls[0].Game.ID)
	assert.Equal(t, "East", notif.SendGameResultCalls[0].Players[playerIDs[0]])
}

func TestRecordGameValidation(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)

	body := gameBody("2026-02-01", playerIDs)
	body.Results = body.Results[:3]
	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, server, "POST", "/api/seasons/999/games", gameBody("2026-02-01", playerIDs))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGameUpdateAndDelete(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)

	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody("2026-02-01", playerIDs))
	require.Equal(t, http.StatusCreated, rr.Code)
	var game league.Game
	decodeData(t, rr, &game)

	update := gameBody("2026-02-03", playerIDs)
	rr = doRequest(t, server, "PUT", "/api/games/"+game.ID, update)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated league.Game
	decodeData(t, rr, &updated)
	assert.Equal(t, "2026-02-03", updated.GameDate)

	rr = doRequest(t, server, "DELETE", "/api/games/"+game.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "GET", "/api/games/"+game.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStandingsHandlers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)

	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody("2026-02-01", playerIDs))
	require.Equal(t, http.StatusCreated, rr.Code)

	for _, target := range []string{
		fmt.Sprintf("/api/seasons/%d/standings", seasonID),
		"/api/standings/all",
		"/api/standings/daily?date=2026-02-01",
		"/api/standings/date-range?startDate=2026-01-01&endDate=2026-12-31",
	} {
		rr := doRequest(t, server, "GET", target, nil)
		require.Equal(t, http.StatusOK, rr.Code, target)
		var entries []league.StandingsEntry
		decodeData(t, rr, &entries)
		require.Len(t, entries, 4, target)
		assert.Equal(t, "East", entries[0].Player.Name, target)
	}

	// A day with no games yields an empty leaderboard, not an error.
	rr = doRequest(t, server, "GET", "/api/standings/daily?date=2026-03-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []league.StandingsEntry
	decodeData(t, rr, &entries)
	assert.Empty(t, entries)
}

func TestStandingsWindowValidation(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := doRequest(t, server, "GET", "/api/standings/daily", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, server, "GET", "/api/standings/date-range?startDate=2026-02-10&endDate=2026-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, server, "GET", "/api/standings/date-range?startDate=2026-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGamesViewHandlers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)

	for _, date := range []string{"2026-02-01", "2026-02-15"} {
		rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody(date, playerIDs))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doRequest(t, server, "GET", "/api/games/all", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var games []league.Game
	decodeData(t, rr, &games)
	require.Len(t, games, 2)
	assert.Equal(t, "2026-02-15", games[0].GameDate)

	rr = doRequest(t, server, "GET", fmt.Sprintf("/api/seasons/%d/games", seasonID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &games)
	assert.Len(t, games, 2)

	rr = doRequest(t, server, "GET", "/api/games/daily?date=2026-02-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &games)
	assert.Len(t, games, 1)
}

func TestPlayerHandlers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := doRequest(t, server, "POST", "/api/players", map[string]any{"name": "Akiko"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var player league.Player
	decodeData(t, rr, &player)

	rr = doRequest(t, server, "POST", "/api/players", map[string]any{"name": "Akiko"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, server, "PUT", "/api/players/"+player.ID, map[string]any{"name": "Akiko T."})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &player)
	assert.Equal(t, "Akiko T.", player.Name)

	rr = doRequest(t, server, "GET", "/api/players/"+player.ID+"/can-delete", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var check ledger.DeleteCheck
	decodeData(t, rr, &check)
	assert.True(t, check.CanDelete)

	rr = doRequest(t, server, "DELETE", "/api/players/"+player.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "GET", "/api/players/"+player.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeletePlayerWithHistoryConflicts(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)
	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody("2026-02-01", playerIDs))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, server, "GET", "/api/players/"+playerIDs[0]+"/can-delete", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var check ledger.DeleteCheck
	decodeData(t, rr, &check)
	assert.False(t, check.CanDelete)
	assert.Equal(t, 1, check.GameCount)

	rr = doRequest(t, server, "DELETE", "/api/players/"+playerIDs[0], nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestNotifyStandingsHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)
	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody("2026-02-01", playerIDs))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, server, "POST", "/api/standings/notify", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []league.StandingsEntry
	decodeData(t, rr, &entries)
	assert.Len(t, entries, 4)

	require.Len(t, notif.SendStandingsCalls, 1)
	assert.Equal(t, "2026 Spring", notif.SendStandingsCalls[0].Title)
	assert.Len(t, notif.SendStandingsCalls[0].Entries, 4)
}

func TestNotifyStandingsNoActiveSeason(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	rr := doRequest(t, server, "POST", "/api/standings/notify", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, notif.SendStandingsCalls)
}

func TestStandingsCommandHandler(t *testing.T) {
	notif := notifier.NewMock()
	notif.FormatStandingsResponseFunc = func(title string, entries []league.StandingsEntry) (any, error) {
		header := slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false))
		return slack.NewBlockMessage(header), nil
	}
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	seasonID, playerIDs := seedSeasonAndPlayers(t, server)
	rr := doRequest(t, server, "POST", fmt.Sprintf("/api/seasons/%d/games", seasonID), gameBody("2026-02-01", playerIDs))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, server, "POST", "/slack/command/standings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "All-time standings")

	var msg slack.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	assert.NotEmpty(t, msg.Blocks.BlockSet)
}

// Errors outside the taxonomy must not leak storage detail to clients.
func TestStoreFailureReturnsOpaqueError(t *testing.T) {
	store := ledger.NewMock()
	store.ResultRowsFunc = func(w league.Window) ([]league.ResultRow, error) {
		return nil, fmt.Errorf("disk I/O error on results table")
	}

	reg := prometheus.NewRegistry()
	server := NewServer(store, metrics.NewService(reg), metrics.NewMetricsHandler(reg), config.Config{}, notifier.NewMock())

	rr := doRequest(t, server, "GET", "/api/standings/all", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "internal server error", envelope.Error)
	assert.NotContains(t, rr.Body.String(), "disk I/O")
	assert.Len(t, store.ResultRowsCalls, 1)
}
