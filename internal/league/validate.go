package league

import "time"

// PlayersPerGame is fixed: this league records four-player games only.
const PlayersPerGame = 4

const dateLayout = "2006-01-02"

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ValidateSubmission checks the structural invariants of a candidate game:
// a valid game date, exactly four results, distinct players, ranks forming a
// permutation of 1..4, non-negative hand-event counters, and counters within
// the game's total hand count when one is given. Validation is fail-fast: the
// first violated constraint is returned.
//
// Player existence is a store concern and is checked there.
func ValidateSubmission(sub GameSubmission) error {
	if sub.GameDate == "" {
		return Validationf("gameDate is required")
	}
	if !ValidDate(sub.GameDate) {
		return Validationf("gameDate %q is not a YYYY-MM-DD date", sub.GameDate)
	}
	if len(sub.Results) != PlayersPerGame {
		return Validationf("exactly %d results required, got %d", PlayersPerGame, len(sub.Results))
	}
	if sub.TotalHandsInGame != nil && *sub.TotalHandsInGame < 0 {
		return Validationf("totalHandsInGame cannot be negative")
	}

	var rankSeen [PlayersPerGame + 1]bool
	playerSeen := make(map[string]bool, PlayersPerGame)
	for _, res := range sub.Results {
		if res.PlayerID == "" {
			return Validationf("playerId is required on every result")
		}
		if playerSeen[res.PlayerID] {
			return Validationf("player %s appears more than once", res.PlayerID)
		}
		playerSeen[res.PlayerID] = true

		if res.Rank < 1 || res.Rank > PlayersPerGame {
			return Validationf("rank %d out of range 1..%d", res.Rank, PlayersPerGame)
		}
		if rankSeen[res.Rank] {
			return Validationf("duplicate rank %d", res.Rank)
		}
		rankSeen[res.Rank] = true

		for _, c := range []struct {
			name  string
			count int
		}{
			{"agariCount", res.AgariCount},
			{"riichiCount", res.RiichiCount},
			{"houjuuCount", res.HoujuuCount},
			{"furoCount", res.FuroCount},
		} {
			if c.count < 0 {
				return Validationf("%s cannot be negative for player %s", c.name, res.PlayerID)
			}
			if sub.TotalHandsInGame != nil && c.count > *sub.TotalHandsInGame {
				return Validationf("%s (%d) exceeds totalHandsInGame (%d) for player %s",
					c.name, c.count, *sub.TotalHandsInGame, res.PlayerID)
			}
		}
	}
	return nil
}
