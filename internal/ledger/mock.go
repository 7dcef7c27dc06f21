package ledger

import (
	"sync"

	"github.com/riichi-league/scorekeeper/internal/league"
)

// MockStore is a mock implementation of the LedgerStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ListSeasonsFunc       func() ([]league.Season, error)
	GetSeasonFunc         func(id int64) (*league.Season, error)
	GetActiveSeasonFunc   func() (*league.Season, error)
	CreateSeasonFunc      func(ns NewSeason) (*league.Season, error)
	UpdateSeasonFunc      func(id int64, patch SeasonPatch) (*league.Season, error)
	ActivateSeasonFunc    func(id int64) error
	GetScoringRuleFunc    func(seasonID int64) (*league.ScoringRule, error)
	UpdateScoringRuleFunc func(seasonID int64, rule league.ScoringRule) error
	ListPlayersFunc       func() ([]league.Player, error)
	GetPlayerFunc         func(id string) (*league.Player, error)
	CreatePlayerFunc      func(name string, avatarURL *string) (*league.Player, error)
	UpdatePlayerFunc      func(id string, patch PlayerPatch) (*league.Player, error)
	DeletePlayerFunc      func(id string) error
	CanDeletePlayerFunc   func(id string) (*DeleteCheck, error)
	RecordGameFunc        func(seasonID int64, sub league.GameSubmission) (string, error)
	UpdateGameFunc        func(gameID string, sub league.GameSubmission) error
	DeleteGameFunc        func(gameID string) error
	GetGameFunc           func(gameID string) (*league.Game, error)
	GamesByWindowFunc     func(w league.Window) ([]league.Game, error)
	ResultRowsFunc        func(w league.Window) ([]league.ResultRow, error)

	// Call records
	RecordGameCalls []struct {
		SeasonID   int64
		Submission league.GameSubmission
	}
	UpdateGameCalls []struct {
		GameID     string
		Submission league.GameSubmission
	}
	DeleteGameCalls     []string
	ActivateSeasonCalls []int64
	GamesByWindowCalls  []league.Window
	ResultRowsCalls     []league.Window
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = nil
	m.UpdateGameCalls = nil
	m.DeleteGameCalls = nil
	m.ActivateSeasonCalls = nil
	m.GamesByWindowCalls = nil
	m.ResultRowsCalls = nil
}

func (m *MockStore) ListSeasons() ([]league.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListSeasonsFunc != nil {
		return m.ListSeasonsFunc()
	}
	return nil, nil
}

func (m *MockStore) GetSeason(id int64) (*league.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSeasonFunc != nil {
		return m.GetSeasonFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetActiveSeason() (*league.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetActiveSeasonFunc != nil {
		return m.GetActiveSeasonFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateSeason(ns NewSeason) (*league.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSeasonFunc != nil {
		return m.CreateSeasonFunc(ns)
	}
	return nil, nil
}

func (m *MockStore) UpdateSeason(id int64, patch SeasonPatch) (*league.Season, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateSeasonFunc != nil {
		return m.UpdateSeasonFunc(id, patch)
	}
	return nil, nil
}

func (m *MockStore) ActivateSeason(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActivateSeasonCalls = append(m.ActivateSeasonCalls, id)
	if m.ActivateSeasonFunc != nil {
		return m.ActivateSeasonFunc(id)
	}
	return nil
}

func (m *MockStore) GetScoringRule(seasonID int64) (*league.ScoringRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetScoringRuleFunc != nil {
		return m.GetScoringRuleFunc(seasonID)
	}
	rule := league.DefaultScoringRule()
	return &rule, nil
}

func (m *MockStore) UpdateScoringRule(seasonID int64, rule league.ScoringRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateScoringRuleFunc != nil {
		return m.UpdateScoringRuleFunc(seasonID, rule)
	}
	return nil
}

func (m *MockStore) ListPlayers() ([]league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayer(id string) (*league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return nil, nil
}

func (m *MockStore) CreatePlayer(name string, avatarURL *string) (*league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(name, avatarURL)
	}
	return nil, nil
}

func (m *MockStore) UpdatePlayer(id string, patch PlayerPatch) (*league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(id, patch)
	}
	return nil, nil
}

func (m *MockStore) DeletePlayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(id)
	}
	return nil
}

func (m *MockStore) CanDeletePlayer(id string) (*DeleteCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CanDeletePlayerFunc != nil {
		return m.CanDeletePlayerFunc(id)
	}
	return &DeleteCheck{CanDelete: true}, nil
}

func (m *MockStore) RecordGame(seasonID int64, sub league.GameSubmission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = append(m.RecordGameCalls, struct {
		SeasonID   int64
		Submission league.GameSubmission
	}{seasonID, sub})
	if m.RecordGameFunc != nil {
		return m.RecordGameFunc(seasonID, sub)
	}
	return "", nil
}

func (m *MockStore) UpdateGame(gameID string, sub league.GameSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateGameCalls = append(m.UpdateGameCalls, struct {
		GameID     string
		Submission league.GameSubmission
	}{gameID, sub})
	if m.UpdateGameFunc != nil {
		return m.UpdateGameFunc(gameID, sub)
	}
	return nil
}

func (m *MockStore) DeleteGame(gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteGameCalls = append(m.DeleteGameCalls, gameID)
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(gameID)
	}
	return nil
}

func (m *MockStore) GetGame(gameID string) (*league.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGameFunc != nil {
		return m.GetGameFunc(gameID)
	}
	return nil, nil
}

func (m *MockStore) GamesByWindow(w league.Window) ([]league.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesByWindowCalls = append(m.GamesByWindowCalls, w)
	if m.GamesByWindowFunc != nil {
		return m.GamesByWindowFunc(w)
	}
	return nil, nil
}

func (m *MockStore) ResultRows(w league.Window) ([]league.ResultRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultRowsCalls = append(m.ResultRowsCalls, w)
	if m.ResultRowsFunc != nil {
		return m.ResultRowsFunc(w)
	}
	return nil, nil
}
