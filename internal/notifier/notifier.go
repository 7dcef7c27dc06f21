package notifier

import "github.com/riichi-league/scorekeeper/internal/league"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For freshly recorded games
	SendGameResult(game *league.Game, players map[string]string, dryRun bool) error
	// For standings pushes
	SendStandings(title string, entries []league.StandingsEntry, dryRun bool) error

	// For formatting a standings message without sending it
	FormatStandingsResponse(title string, entries []league.StandingsEntry) (any, error)
}
