package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/riichi-league/scorekeeper/internal/league"
	"github.com/riichi-league/scorekeeper/internal/ledger"
)

// apiResponse is the envelope around every JSON reply.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is reported opaquely; the detail goes to the log only.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, league.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, league.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, league.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	default:
		log.Error("Request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message}); encErr != nil {
		log.Error("Failed to write error response", "error", encErr)
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return league.Validationf("invalid JSON body: %s", err)
	}
	return nil
}

func seasonIDFromPath(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, league.Validationf("season id %q is not numeric", raw)
	}
	return id, nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListSeasonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := s.Store.ListSeasons()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, seasons)
	}
}

func (s *Server) CreateSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ns ledger.NewSeason
		if err := decodeBody(r, &ns); err != nil {
			respondError(w, err)
			return
		}
		season, err := s.Store.CreateSeason(ns)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, season)
	}
}

func (s *Server) ActiveSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.Store.GetActiveSeason()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, season)
	}
}

func (s *Server) GetSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		season, err := s.Store.GetSeason(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, season)
	}
}

func (s *Server) UpdateSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var patch ledger.SeasonPatch
		if err := decodeBody(r, &patch); err != nil {
			respondError(w, err)
			return
		}
		season, err := s.Store.UpdateSeason(id, patch)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, season)
	}
}

func (s *Server) ActivateSeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.Store.ActivateSeason(id); err != nil {
			respondError(w, err)
			return
		}
		season, err := s.Store.GetSeason(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, season)
	}
}

func (s *Server) GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		rule, err := s.Store.GetScoringRule(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rule.Settings())
	}
}

func (s *Server) UpdateSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var settings league.RuleSettings
		if err := decodeBody(r, &settings); err != nil {
			respondError(w, err)
			return
		}
		// The divisor is internal configuration, so keep the stored one.
		rule, err := s.Store.GetScoringRule(id)
		if err != nil {
			respondError(w, err)
			return
		}
		rule.ApplySettings(settings)
		if err := s.Store.UpdateScoringRule(id, *rule); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rule.Settings())
	}
}

func (s *Server) SeasonGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if _, err := s.Store.GetSeason(id); err != nil {
			respondError(w, err)
			return
		}
		games, err := s.Store.GamesByWindow(league.ForSeason(id))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, games)
	}
}

func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var sub league.GameSubmission
		if err := decodeBody(r, &sub); err != nil {
			respondError(w, err)
			return
		}
		gameID, err := s.Store.RecordGame(id, sub)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.IncGamesRecorded()

		game, err := s.Store.GetGame(gameID)
		if err != nil {
			respondError(w, err)
			return
		}

		s.notifyGameResult(game, isDryRunFromContext(r))
		respondJSON(w, http.StatusCreated, game)
	}
}

// notifyGameResult posts the result to the notifier, best-effort. A failed
// notification never fails the request that recorded the game.
func (s *Server) notifyGameResult(game *league.Game, dryRun bool) {
	players, err := s.Store.ListPlayers()
	if err != nil {
		log.Error("Failed to load players for notification", "error", err)
		return
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	if err := s.Notifier.SendGameResult(game, names, dryRun); err != nil {
		log.Error("Failed to send game result notification", "gameID", game.ID, "error", err)
	}
}

// standingsFor aggregates a window's rows into the leaderboard and tracks
// request metrics.
func (s *Server) standingsFor(window league.Window) ([]league.StandingsEntry, error) {
	start := time.Now()
	rows, err := s.Store.ResultRows(window)
	if err != nil {
		return nil, err
	}
	entries := league.Standings(rows)
	s.Metrics.IncStandingsRequests()
	s.Metrics.ObserveStandingsDuration(time.Since(start).Seconds())
	return entries, nil
}

func (s *Server) SeasonStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := seasonIDFromPath(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if _, err := s.Store.GetSeason(id); err != nil {
			respondError(w, err)
			return
		}
		entries, err := s.standingsFor(league.ForSeason(id))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

// NotifyStandingsHandler pushes the active season's standings to the
// notification channel.
func (s *Server) NotifyStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := s.Store.GetActiveSeason()
		if err != nil {
			respondError(w, err)
			return
		}
		entries, err := s.standingsFor(league.ForSeason(season.ID))
		if err != nil {
			respondError(w, err)
			return
		}
		if err := s.Notifier.SendStandings(season.Name, entries, isDryRunFromContext(r)); err != nil {
			respondError(w, fmt.Errorf("failed to send standings: %w", err))
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// StandingsCommandHandler returns a handler for the /standings Slack command.
func (s *Server) StandingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.standingsFor(league.AllTime())
		if err != nil {
			http.Error(w, "Failed to get standings", http.StatusInternalServerError)
			log.Error("Failed to get standings from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatStandingsResponse("All-time standings", entries)
		if err != nil {
			http.Error(w, "Failed to format standings", http.StatusInternalServerError)
			log.Error("Failed to format standings", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

func (s *Server) AllTimeStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.standingsFor(league.AllTime())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func dailyWindow(r *http.Request) (league.Window, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return league.Window{}, league.Validationf("date query parameter is required")
	}
	return league.ForDate(date)
}

func rangeWindow(r *http.Request) (league.Window, error) {
	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")
	if start == "" || end == "" {
		return league.Window{}, league.Validationf("startDate and endDate query parameters are required")
	}
	return league.ForRange(start, end)
}

func (s *Server) DailyStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := dailyWindow(r)
		if err != nil {
			respondError(w, err)
			return
		}
		entries, err := s.standingsFor(window)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) DateRangeStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := rangeWindow(r)
		if err != nil {
			respondError(w, err)
			return
		}
		entries, err := s.standingsFor(window)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) AllGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := s.Store.GamesByWindow(league.AllTime())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, games)
	}
}

func (s *Server) DailyGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := dailyWindow(r)
		if err != nil {
			respondError(w, err)
			return
		}
		games, err := s.Store.GamesByWindow(window)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, games)
	}
}

func (s *Server) DateRangeGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := rangeWindow(r)
		if err != nil {
			respondError(w, err)
			return
		}
		games, err := s.Store.GamesByWindow(window)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, games)
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, err := s.Store.GetGame(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, game)
	}
}

func (s *Server) UpdateGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var sub league.GameSubmission
		if err := decodeBody(r, &sub); err != nil {
			respondError(w, err)
			return
		}
		if err := s.Store.UpdateGame(gameID, sub); err != nil {
			respondError(w, err)
			return
		}
		game, err := s.Store.GetGame(gameID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, game)
	}
}

func (s *Server) DeleteGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.DeleteGame(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name      string  `json:"name"`
			AvatarURL *string `json:"avatarUrl"`
		}
		if err := decodeBody(r, &body); err != nil {
			respondError(w, err)
			return
		}
		player, err := s.Store.CreatePlayer(body.Name, body.AvatarURL)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Store.GetPlayer(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch ledger.PlayerPatch
		if err := decodeBody(r, &patch); err != nil {
			respondError(w, err)
			return
		}
		player, err := s.Store.UpdatePlayer(r.PathValue("id"), patch)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.DeletePlayer(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, nil)
	}
}

func (s *Server) CanDeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		check, err := s.Store.CanDeletePlayer(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, check)
	}
}
