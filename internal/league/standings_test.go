package league_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riichi-league/scorekeeper/internal/league"
)

func TestBuildStandingsOrdering(t *testing.T) {
	aggs := []league.PlayerAggregate{
		{Player: league.Player{ID: "mid"}, TotalPoints: 10, AveragePoints: 5},
		{Player: league.Player{ID: "top"}, TotalPoints: 40, AveragePoints: 10},
		{Player: league.Player{ID: "low"}, TotalPoints: -20, AveragePoints: -10},
	}

	entries := league.BuildStandings(aggs)
	require.Len(t, entries, 3)
	assert.Equal(t, "top", entries[0].Player.ID)
	assert.Equal(t, "mid", entries[1].Player.ID)
	assert.Equal(t, "low", entries[2].Player.ID)
}

func TestBuildStandingsTieBreak(t *testing.T) {
	// Equal totals: the higher average (fewer games) ranks first.
	aggs := []league.PlayerAggregate{
		{Player: league.Player{ID: "grinder"}, GamesPlayed: 10, TotalPoints: 30, AveragePoints: 3},
		{Player: league.Player{ID: "sniper"}, GamesPlayed: 2, TotalPoints: 30, AveragePoints: 15},
	}

	entries := league.BuildStandings(aggs)
	assert.Equal(t, "sniper", entries[0].Player.ID)
	assert.Equal(t, "grinder", entries[1].Player.ID)
}

func TestBuildStandingsLastTenNeverNull(t *testing.T) {
	entries := league.BuildStandings([]league.PlayerAggregate{
		{Player: league.Player{ID: "a"}},
	})
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].LastTenGamesPoints)

	body, err := json.Marshal(entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"lastTenGamesPoints":[]`)
}

func TestStandingsEndToEnd(t *testing.T) {
	players := []string{"a", "b", "c", "d"}
	rows := rowsForGame("g1", "2026-02-01", "2026-02-01T20:00:00", players, []float64{30, 13, -13, -30})

	entries := league.Standings(rows)
	require.Len(t, entries, 4)
	assert.Equal(t, "a", entries[0].Player.ID)
	assert.Equal(t, "d", entries[3].Player.ID)
	assert.InDelta(t, 30, entries[0].TotalPoints, 1e-9)
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 0, 4: 0}, entries[0].RankDistribution)
}

func TestStandingsOmitsPlayersWithoutGames(t *testing.T) {
	// Only players appearing in result rows show up; nobody is zero-filled.
	assert.Empty(t, league.Standings(nil))
}
