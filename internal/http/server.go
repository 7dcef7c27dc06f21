package http

import (
	"net/http"

	"github.com/riichi-league/scorekeeper/internal/config"
	"github.com/riichi-league/scorekeeper/internal/ledger"
	"github.com/riichi-league/scorekeeper/internal/metrics"
	"github.com/riichi-league/scorekeeper/internal/notifier"
)

func NewServer(store ledger.LedgerStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/seasons", Chain(s.ListSeasonsHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/seasons", Chain(s.CreateSeasonHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/seasons/active", Chain(s.ActiveSeasonHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/seasons/{id}", Chain(s.GetSeasonHandler(), paramsMiddleware))
	s.Router.Handle("PUT /api/seasons/{id}", Chain(s.UpdateSeasonHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/seasons/{id}/activate", Chain(s.ActivateSeasonHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/seasons/{id}/settings", Chain(s.GetSettingsHandler(), paramsMiddleware))
	s.Router.Handle("PUT /api/seasons/{id}/settings", Chain(s.UpdateSettingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/seasons/{id}/games", Chain(s.SeasonGamesHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/seasons/{id}/games", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/seasons/{id}/standings", Chain(s.SeasonStandingsHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/standings/all", Chain(s.AllTimeStandingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/standings/daily", Chain(s.DailyStandingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/standings/date-range", Chain(s.DateRangeStandingsHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/standings/notify", Chain(s.NotifyStandingsHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command/standings", Chain(s.StandingsCommandHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/games/all", Chain(s.AllGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/games/daily", Chain(s.DailyGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/games/date-range", Chain(s.DateRangeGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/games/{id}", Chain(s.GetGameHandler(), paramsMiddleware))
	s.Router.Handle("PUT /api/games/{id}", Chain(s.UpdateGameHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/games/{id}", Chain(s.DeleteGameHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/players", Chain(s.CreatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))
	s.Router.Handle("PUT /api/players/{id}", Chain(s.UpdatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}/can-delete", Chain(s.CanDeletePlayerHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
