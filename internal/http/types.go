package http

import (
	"net/http"

	"github.com/riichi-league/scorekeeper/internal/config"
	"github.com/riichi-league/scorekeeper/internal/ledger"
	"github.com/riichi-league/scorekeeper/internal/metrics"
	"github.com/riichi-league/scorekeeper/internal/notifier"
)

type Server struct {
	Store          ledger.LedgerStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
