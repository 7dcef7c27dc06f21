package league_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riichi-league/scorekeeper/internal/league"
)

func TestUma4thDerived(t *testing.T) {
	rule := league.DefaultScoringRule()
	assert.Equal(t, -20, rule.Uma4th())

	rule.Uma1st = 30
	rule.Uma2nd = 10
	rule.Uma3rd = -10
	assert.Equal(t, -30, rule.Uma4th())

	uma := rule.UmaPoints()
	sum := 0
	for _, v := range uma {
		sum += v
	}
	assert.Equal(t, 0, sum)
}

func TestRuleSettingsRoundTrip(t *testing.T) {
	rule := league.DefaultScoringRule()
	settings := rule.Settings()
	assert.Equal(t, map[int]int{1: 20, 2: 10, 3: -10, 4: -20}, settings.UmaPoints)

	// A submitted rank-4 uma is ignored; it is always derived.
	settings.UmaPoints = map[int]int{1: 30, 2: 10, 3: -10, 4: 999}
	settings.GameStartChipCount = 30000
	rule.ApplySettings(settings)
	assert.Equal(t, 30000, rule.GameStartChipCount)
	assert.Equal(t, -30, rule.Uma4th())
	assert.Equal(t, league.DefaultPointsDivisor, int(rule.PointsDivisor))
}

func TestCalculatePoints(t *testing.T) {
	rule := league.DefaultScoringRule()

	seats := []league.Seat{
		{Rank: 1, RawScore: 35000},
		{Rank: 2, RawScore: 28000},
		{Rank: 3, RawScore: 22000},
		{Rank: 4, RawScore: 15000},
	}
	points, err := rule.CalculatePoints(seats)
	require.NoError(t, err)

	want := []float64{30, 13, -13, -30}
	var sum float64
	for i := range points {
		assert.InDelta(t, want[i], points[i], 1e-9)
		sum += points[i]
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestCalculatePointsOrderPreserving(t *testing.T) {
	rule := league.DefaultScoringRule()

	// Seats submitted out of rank order keep their position.
	seats := []league.Seat{
		{Rank: 3, RawScore: 22000},
		{Rank: 1, RawScore: 35000},
		{Rank: 4, RawScore: 15000},
		{Rank: 2, RawScore: 28000},
	}
	points, err := rule.CalculatePoints(seats)
	require.NoError(t, err)
	assert.InDelta(t, -13, points[0], 1e-9)
	assert.InDelta(t, 30, points[1], 1e-9)
}

func TestCalculatePointsZeroDivisorFallsBack(t *testing.T) {
	rule := league.DefaultScoringRule()
	rule.PointsDivisor = 0

	points, err := rule.CalculatePoints([]league.Seat{
		{Rank: 1, RawScore: 35000},
		{Rank: 2, RawScore: 28000},
		{Rank: 3, RawScore: 22000},
		{Rank: 4, RawScore: 15000},
	})
	require.NoError(t, err)
	assert.InDelta(t, 30, points[0], 1e-9)
}

func TestCalculatePointsRejectsBadRanks(t *testing.T) {
	rule := league.DefaultScoringRule()

	tests := []struct {
		name  string
		seats []league.Seat
	}{
		{"too few seats", []league.Seat{{Rank: 1}, {Rank: 2}, {Rank: 3}}},
		{"duplicate rank", []league.Seat{{Rank: 1}, {Rank: 1}, {Rank: 3}, {Rank: 4}}},
		{"rank out of range", []league.Seat{{Rank: 0}, {Rank: 2}, {Rank: 3}, {Rank: 4}}},
		{"rank too high", []league.Seat{{Rank: 1}, {Rank: 2}, {Rank: 3}, {Rank: 5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rule.CalculatePoints(tc.seats)
			assert.True(t, errors.Is(err, league.ErrValidation))
		})
	}
}
