package league

import "sort"

// OrderGames sorts games most-recent-first by (gameDate, recordedDate), the
// same recency ordering the aggregator uses. The input is not modified.
//
// A game with fewer than four resolved results is a data-integrity fault
// prevented at write time; history never filters or patches results at read
// time.
func OrderGames(games []Game) []Game {
	out := make([]Game, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GameDate != out[j].GameDate {
			return out[i].GameDate > out[j].GameDate
		}
		return out[i].RecordedDate > out[j].RecordedDate
	})
	return out
}
