package notifier

import (
	"sync"

	"github.com/riichi-league/scorekeeper/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendGameResultCalls []struct {
		Game    *league.Game
		Players map[string]string
	}
	SendStandingsCalls []struct {
		Title   string
		Entries []league.StandingsEntry
	}

	// Spies
	SendGameResultFunc          func(game *league.Game, players map[string]string, dryRun bool) error
	SendStandingsFunc           func(title string, entries []league.StandingsEntry, dryRun bool) error
	FormatStandingsResponseFunc func(title string, entries []league.StandingsEntry) (any, error)

	LastStandingsResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = nil
	m.SendStandingsCalls = nil
	m.LastStandingsResponse = nil
}

func (m *Mock) SendGameResult(game *league.Game, players map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = append(m.SendGameResultCalls, struct {
		Game    *league.Game
		Players map[string]string
	}{game, players})
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(game, players, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(title string, entries []league.StandingsEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, struct {
		Title   string
		Entries []league.StandingsEntry
	}{title, entries})
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(title, entries, dryRun)
	}
	return nil
}

func (m *Mock) FormatStandingsResponse(title string, entries []league.StandingsEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatStandingsResponseFunc != nil {
		resp, err := m.FormatStandingsResponseFunc(title, entries)
		m.LastStandingsResponse = resp
		return resp, err
	}
	return nil, nil
}
