package league_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riichi-league/scorekeeper/internal/league"
)

func intPtr(i int) *int { return &i }

func validSubmission() league.GameSubmission {
	return league.GameSubmission{
		GameDate: "2026-02-01",
		Results: []league.GameResult{
			{PlayerID: "p1", Rank: 1, RawScore: 35000},
			{PlayerID: "p2", Rank: 2, RawScore: 28000},
			{PlayerID: "p3", Rank: 3, RawScore: 22000},
			{PlayerID: "p4", Rank: 4, RawScore: 15000},
		},
	}
}

func TestValidateSubmissionAccepts(t *testing.T) {
	sub := validSubmission()
	require.NoError(t, league.ValidateSubmission(sub))

	sub.TotalHandsInGame = intPtr(12)
	sub.Results[0].AgariCount = 4
	sub.Results[0].RiichiCount = 12
	require.NoError(t, league.ValidateSubmission(sub))
}

func TestValidateSubmissionRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*league.GameSubmission)
	}{
		{"missing date", func(s *league.GameSubmission) { s.GameDate = "" }},
		{"malformed date", func(s *league.GameSubmission) { s.GameDate = "01/02/2026" }},
		{"impossible date", func(s *league.GameSubmission) { s.GameDate = "2026-02-30" }},
		{"three results", func(s *league.GameSubmission) { s.Results = s.Results[:3] }},
		{"five results", func(s *league.GameSubmission) {
			s.Results = append(s.Results, league.GameResult{PlayerID: "p5", Rank: 4})
		}},
		{"negative total hands", func(s *league.GameSubmission) { s.TotalHandsInGame = intPtr(-1) }},
		{"missing player id", func(s *league.GameSubmission) { s.Results[2].PlayerID = "" }},
		{"repeated player", func(s *league.GameSubmission) { s.Results[3].PlayerID = "p1" }},
		{"duplicate rank", func(s *league.GameSubmission) { s.Results[1].Rank = 1 }},
		{"rank zero", func(s *league.GameSubmission) { s.Results[0].Rank = 0 }},
		{"negative counter", func(s *league.GameSubmission) { s.Results[0].HoujuuCount = -1 }},
		{"counter exceeds hands", func(s *league.GameSubmission) {
			s.TotalHandsInGame = intPtr(8)
			s.Results[1].RiichiCount = 9
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			err := league.ValidateSubmission(sub)
			assert.True(t, errors.Is(err, league.ErrValidation), "got %v", err)
		})
	}
}

func TestValidateSubmissionCountersUncappedWithoutTotal(t *testing.T) {
	// With no total hand count the per-player counters only need to be
	// non-negative.
	sub := validSubmission()
	sub.Results[0].AgariCount = 50
	require.NoError(t, league.ValidateSubmission(sub))
}
