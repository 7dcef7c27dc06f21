package league

import "sort"

// PlayerAggregate is one player's accumulated statistics across the games of
// a window. Players with no qualifying games are omitted, not zero-filled.
type PlayerAggregate struct {
	Player             Player
	GamesPlayed        int
	TotalPoints        float64
	AveragePoints      float64
	AverageRawScore    float64
	AverageRank        float64
	BestRawScore       int
	RankCounts         map[int]int
	WinRate            float64
	SecondPlaceRate    float64
	ThirdPlaceRate     float64
	FourthPlaceRate    float64
	RentaiRate         float64
	RasuKaihiRate      float64
	TotalAgariCount    int
	TotalRiichiCount   int
	TotalHoujuuCount   int
	TotalFuroCount     int
	TotalHandsPlayedIn int
	AgariRatePerHand   float64
	RiichiRatePerHand  float64
	HoujuuRatePerHand  float64
	FuroRatePerHand    float64
	LastTenGamesPoints []float64
}

// sortRowsByRecency orders rows most-recent-first by (gameDate, recordedDate).
// The recorded timestamp breaks same-day ties; this ordering is the single
// definition of recency used everywhere.
func sortRowsByRecency(rows []ResultRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GameDate != rows[j].GameDate {
			return rows[i].GameDate > rows[j].GameDate
		}
		return rows[i].RecordedDate > rows[j].RecordedDate
	})
}

// Aggregate computes per-player statistics over the materialized result rows
// of a window. Rates over games are count/gamesPlayed; rates over hands are
// count/totalHands and reported as 0 when no hand counts were recorded.
// BestRawScore reports 0 when undefined, matching the historical API.
func Aggregate(rows []ResultRow) []PlayerAggregate {
	sorted := make([]ResultRow, len(rows))
	copy(sorted, rows)
	sortRowsByRecency(sorted)

	type accumulator struct {
		agg      *PlayerAggregate
		rankSum  int
		rawSum   int
		bestRaw  int
		hasGames bool
	}

	byPlayer := make(map[string]*accumulator)
	var order []string

	for _, row := range sorted {
		acc, ok := byPlayer[row.PlayerID]
		if !ok {
			acc = &accumulator{
				agg: &PlayerAggregate{
					Player: Player{
						ID:        row.PlayerID,
						Name:      row.PlayerName,
						AvatarURL: row.AvatarURL,
					},
					RankCounts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0},
				},
			}
			byPlayer[row.PlayerID] = acc
			order = append(order, row.PlayerID)
		}

		agg := acc.agg
		agg.GamesPlayed++
		agg.TotalPoints += row.CalculatedPoints
		acc.rankSum += row.Rank
		acc.rawSum += row.RawScore
		if !acc.hasGames || row.RawScore > acc.bestRaw {
			acc.bestRaw = row.RawScore
		}
		acc.hasGames = true

		agg.RankCounts[row.Rank]++
		agg.TotalAgariCount += row.AgariCount
		agg.TotalRiichiCount += row.RiichiCount
		agg.TotalHoujuuCount += row.HoujuuCount
		agg.TotalFuroCount += row.FuroCount
		agg.TotalHandsPlayedIn += row.TotalHands

		if len(agg.LastTenGamesPoints) < 10 {
			agg.LastTenGamesPoints = append(agg.LastTenGamesPoints, row.CalculatedPoints)
		}
	}

	out := make([]PlayerAggregate, 0, len(order))
	for _, id := range order {
		acc := byPlayer[id]
		agg := acc.agg
		n := float64(agg.GamesPlayed)

		agg.AveragePoints = agg.TotalPoints / n
		agg.AverageRawScore = float64(acc.rawSum) / n
		agg.AverageRank = float64(acc.rankSum) / n
		agg.BestRawScore = acc.bestRaw

		agg.WinRate = float64(agg.RankCounts[1]) / n
		agg.SecondPlaceRate = float64(agg.RankCounts[2]) / n
		agg.ThirdPlaceRate = float64(agg.RankCounts[3]) / n
		agg.FourthPlaceRate = float64(agg.RankCounts[4]) / n
		agg.RentaiRate = float64(agg.RankCounts[1]+agg.RankCounts[2]) / n
		agg.RasuKaihiRate = float64(agg.RankCounts[1]+agg.RankCounts[2]+agg.RankCounts[3]) / n

		if agg.TotalHandsPlayedIn > 0 {
			hands := float64(agg.TotalHandsPlayedIn)
			agg.AgariRatePerHand = float64(agg.TotalAgariCount) / hands
			agg.RiichiRatePerHand = float64(agg.TotalRiichiCount) / hands
			agg.HoujuuRatePerHand = float64(agg.TotalHoujuuCount) / hands
			agg.FuroRatePerHand = float64(agg.TotalFuroCount) / hands
		}

		out = append(out, *agg)
	}
	return out
}
