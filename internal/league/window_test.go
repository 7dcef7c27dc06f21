package league_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riichi-league/scorekeeper/internal/league"
)

func TestWindowConstructors(t *testing.T) {
	_, err := league.ForDate("not-a-date")
	assert.True(t, errors.Is(err, league.ErrValidation))

	_, err = league.ForRange("2026-02-10", "2026-02-01")
	assert.True(t, errors.Is(err, league.ErrValidation))

	_, err = league.ForRange("2026-02-01", "junk")
	assert.True(t, errors.Is(err, league.ErrValidation))

	w, err := league.ForRange("2026-02-01", "2026-02-01")
	require.NoError(t, err)
	assert.Equal(t, league.WindowRange, w.Kind)
}

func TestWindowMatches(t *testing.T) {
	all := league.AllTime()
	assert.True(t, all.Matches(1, "2026-02-01"))
	assert.True(t, all.Matches(99, "1999-12-31"))

	season := league.ForSeason(2)
	assert.True(t, season.Matches(2, "2026-02-01"))
	assert.False(t, season.Matches(3, "2026-02-01"))

	day, err := league.ForDate("2026-02-01")
	require.NoError(t, err)
	assert.True(t, day.Matches(1, "2026-02-01"))
	assert.False(t, day.Matches(1, "2026-02-02"))

	span, err := league.ForRange("2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.True(t, span.Matches(1, "2026-02-01"))
	assert.True(t, span.Matches(1, "2026-02-28"))
	assert.False(t, span.Matches(1, "2026-03-01"))
	assert.False(t, span.Matches(1, "2026-01-31"))
}
