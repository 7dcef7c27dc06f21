package league

import "sort"

// StandingsEntry is the externally visible shape of one leaderboard row.
type StandingsEntry struct {
	Player             Player      `json:"player"`
	GamesPlayed        int         `json:"gamesPlayed"`
	TotalPoints        float64     `json:"totalPoints"`
	AveragePoints      float64     `json:"averagePoints"`
	AverageRawScore    float64     `json:"averageRawScore"`
	AverageRank        float64     `json:"averageRank"`
	BestRawScore       int         `json:"bestRawScore"`
	RankDistribution   map[int]int `json:"rankDistribution"`
	WinRate            float64     `json:"winRate"`
	SecondPlaceRate    float64     `json:"secondPlaceRate"`
	ThirdPlaceRate     float64     `json:"thirdPlaceRate"`
	FourthPlaceRate    float64     `json:"fourthPlaceRate"`
	RentaiRate         float64     `json:"rentaiRate"`
	RasuKaihiRate      float64     `json:"rasuKaihiRate"`
	TotalAgariCount    int         `json:"totalAgariCount"`
	TotalRiichiCount   int         `json:"totalRiichiCount"`
	TotalHoujuuCount   int         `json:"totalHoujuuCount"`
	TotalFuroCount     int         `json:"totalFuroCount"`
	TotalHandsPlayedIn int         `json:"totalHandsPlayedIn"`
	AgariRatePerHand   float64     `json:"agariRatePerHand"`
	RiichiRatePerHand  float64     `json:"riichiRatePerHand"`
	HoujuuRatePerHand  float64     `json:"houjuuRatePerHand"`
	FuroRatePerHand    float64     `json:"furoRatePerHand"`
	LastTenGamesPoints []float64   `json:"lastTenGamesPoints"`
}

// BuildStandings sorts aggregates into a ranked leaderboard: total points
// descending, ties broken by average points descending, stable otherwise.
// The full qualifying set is returned; no pagination.
func BuildStandings(aggs []PlayerAggregate) []StandingsEntry {
	entries := make([]StandingsEntry, 0, len(aggs))
	for _, agg := range aggs {
		lastTen := agg.LastTenGamesPoints
		if lastTen == nil {
			lastTen = []float64{}
		}
		entries = append(entries, StandingsEntry{
			Player:             agg.Player,
			GamesPlayed:        agg.GamesPlayed,
			TotalPoints:        agg.TotalPoints,
			AveragePoints:      agg.AveragePoints,
			AverageRawScore:    agg.AverageRawScore,
			AverageRank:        agg.AverageRank,
			BestRawScore:       agg.BestRawScore,
			RankDistribution:   agg.RankCounts,
			WinRate:            agg.WinRate,
			SecondPlaceRate:    agg.SecondPlaceRate,
			ThirdPlaceRate:     agg.ThirdPlaceRate,
			FourthPlaceRate:    agg.FourthPlaceRate,
			RentaiRate:         agg.RentaiRate,
			RasuKaihiRate:      agg.RasuKaihiRate,
			TotalAgariCount:    agg.TotalAgariCount,
			TotalRiichiCount:   agg.TotalRiichiCount,
			TotalHoujuuCount:   agg.TotalHoujuuCount,
			TotalFuroCount:     agg.TotalFuroCount,
			TotalHandsPlayedIn: agg.TotalHandsPlayedIn,
			AgariRatePerHand:   agg.AgariRatePerHand,
			RiichiRatePerHand:  agg.RiichiRatePerHand,
			HoujuuRatePerHand:  agg.HoujuuRatePerHand,
			FuroRatePerHand:    agg.FuroRatePerHand,
			LastTenGamesPoints: lastTen,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].AveragePoints > entries[j].AveragePoints
	})
	return entries
}

// Standings aggregates rows and builds the leaderboard in one step.
func Standings(rows []ResultRow) []StandingsEntry {
	return BuildStandings(Aggregate(rows))
}
