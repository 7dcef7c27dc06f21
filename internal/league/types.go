package league

// Player is a league member. Results reference players by id; a player with
// recorded results can never be deleted.
type Player struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AvatarURL   *string `json:"avatarUrl"`
	CreatedDate string  `json:"createdDate,omitempty"`
}

// Season groups games and carries its own scoring rule. At most one season is
// active at a time.
type Season struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsActive    bool    `json:"isActive"`
	Description string  `json:"description"`
	GameCount   int     `json:"gameCount"`
	PlayerCount int     `json:"playerCount"`
	CreatedDate string  `json:"createdDate"`
}

// GameResult is one player's outcome in a single game. The four results of a
// game always carry ranks forming a permutation of 1..4.
type GameResult struct {
	PlayerID         string  `json:"playerId"`
	RawScore         int     `json:"rawScore"`
	Rank             int     `json:"rank"`
	CalculatedPoints float64 `json:"calculatedPoints"`
	AgariCount       int     `json:"agariCount"`
	RiichiCount      int     `json:"riichiCount"`
	HoujuuCount      int     `json:"houjuuCount"`
	FuroCount        int     `json:"furoCount"`
}

// Game is a recorded four-player game. RecordedDate is the insertion
// timestamp and breaks ordering ties between games played on the same date.
type Game struct {
	ID               string       `json:"id"`
	SeasonID         int64        `json:"seasonId"`
	SeasonName       string       `json:"seasonName,omitempty"`
	GameDate         string       `json:"gameDate"`
	RoundName        *string      `json:"roundName"`
	TotalHandsInGame *int         `json:"totalHandsInGame"`
	RecordedDate     string       `json:"recordedDate"`
	Results          []GameResult `json:"results"`
}

// GameSubmission is a candidate game as received from a client. Any
// calculatedPoints in the results are ignored; the server recomputes them
// from the owning season's scoring rule.
type GameSubmission struct {
	GameDate         string       `json:"gameDate"`
	RoundName        *string      `json:"roundName"`
	TotalHandsInGame *int         `json:"totalHandsInGame"`
	Results          []GameResult `json:"gameResults"`
}

// ResultRow is one game result joined with its game and player, materialized
// by the store for in-process aggregation.
type ResultRow struct {
	GameID           string
	SeasonID         int64
	GameDate         string
	RecordedDate     string
	TotalHands       int
	PlayerID         string
	PlayerName       string
	AvatarURL        *string
	Rank             int
	RawScore         int
	CalculatedPoints float64
	AgariCount       int
	RiichiCount      int
	HoujuuCount      int
	FuroCount        int
}
