package ledger

import (
	"database/sql"

	"github.com/riichi-league/scorekeeper/internal/league"
)

// LedgerStore defines the interface for interacting with the league's data.
type LedgerStore interface {
	// Seasons
	ListSeasons() ([]league.Season, error)
	GetSeason(seasonID int64) (*league.Season, error)
	GetActiveSeason() (*league.Season, error)
	CreateSeason(season NewSeason) (*league.Season, error)
	UpdateSeason(seasonID int64, patch SeasonPatch) (*league.Season, error)
	ActivateSeason(seasonID int64) error

	// Scoring rules
	GetScoringRule(seasonID int64) (*league.ScoringRule, error)
	UpdateScoringRule(seasonID int64, rule league.ScoringRule) error

	// Players
	ListPlayers() ([]league.Player, error)
	GetPlayer(playerID string) (*league.Player, error)
	CreatePlayer(name string, avatarURL *string) (*league.Player, error)
	UpdatePlayer(playerID string, patch PlayerPatch) (*league.Player, error)
	DeletePlayer(playerID string) error
	CanDeletePlayer(playerID string) (*DeleteCheck, error)

	// Games
	RecordGame(seasonID int64, sub league.GameSubmission) (string, error)
	UpdateGame(gameID string, sub league.GameSubmission) error
	DeleteGame(gameID string) error
	GetGame(gameID string) (*league.Game, error)
	GamesByWindow(w league.Window) ([]league.Game, error)

	// Aggregation input
	ResultRows(w league.Window) ([]league.ResultRow, error)
}

// New creates a new LedgerStore backed by SQLite.
func New(db *sql.DB) LedgerStore {
	return &store{db: db}
}
