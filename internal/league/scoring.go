package league

// DefaultPointsDivisor converts chip differences into league points. It is
// carried per rule so a league can score in raw chips (divisor 1) or in
// thousands (the usual convention).
const DefaultPointsDivisor = 1000

// ScoringRule is a season's scoring configuration: starting and baseline chip
// counts plus the uma table for ranks 1-3. The rank-4 uma is always derived
// so the four uma values sum to zero.
type ScoringRule struct {
	GameStartChipCount       int
	CalculationBaseChipCount int
	Uma1st                   int
	Uma2nd                   int
	Uma3rd                   int
	PointsDivisor            float64
}

// DefaultScoringRule is the rule attached to a freshly created season.
func DefaultScoringRule() ScoringRule {
	return ScoringRule{
		GameStartChipCount:       25000,
		CalculationBaseChipCount: 25000,
		Uma1st:                   20,
		Uma2nd:                   10,
		Uma3rd:                   -10,
		PointsDivisor:            DefaultPointsDivisor,
	}
}

// Uma4th derives the rank-4 uma so the table sums to zero.
func (r ScoringRule) Uma4th() int {
	return -(r.Uma1st + r.Uma2nd + r.Uma3rd)
}

// UmaFor returns the uma for a rank in 1..4.
func (r ScoringRule) UmaFor(rank int) int {
	switch rank {
	case 1:
		return r.Uma1st
	case 2:
		return r.Uma2nd
	case 3:
		return r.Uma3rd
	case 4:
		return r.Uma4th()
	}
	return 0
}

// UmaPoints returns the full uma table including the derived rank-4 value.
func (r ScoringRule) UmaPoints() map[int]int {
	return map[int]int{
		1: r.Uma1st,
		2: r.Uma2nd,
		3: r.Uma3rd,
		4: r.Uma4th(),
	}
}

// RuleSettings is the externally visible shape of a season's scoring rule.
// The rank-4 uma is always the derived value, never a stored one.
type RuleSettings struct {
	GameStartChipCount       int         `json:"gameStartChipCount"`
	CalculationBaseChipCount int         `json:"calculationBaseChipCount"`
	UmaPoints                map[int]int `json:"umaPoints"`
}

// Settings returns the rule's external view.
func (r ScoringRule) Settings() RuleSettings {
	return RuleSettings{
		GameStartChipCount:       r.GameStartChipCount,
		CalculationBaseChipCount: r.CalculationBaseChipCount,
		UmaPoints:                r.UmaPoints(),
	}
}

// ApplySettings overwrites the rule's configurable fields from an external
// view. Any submitted rank-4 uma is ignored; the divisor is untouched.
func (r *ScoringRule) ApplySettings(s RuleSettings) {
	r.GameStartChipCount = s.GameStartChipCount
	r.CalculationBaseChipCount = s.CalculationBaseChipCount
	r.Uma1st = s.UmaPoints[1]
	r.Uma2nd = s.UmaPoints[2]
	r.Uma3rd = s.UmaPoints[3]
}

// Seat is one (rank, rawScore) pair fed into point calculation.
type Seat struct {
	Rank     int
	RawScore int
}

// CalculatePoints maps a game's four (rank, rawScore) pairs to calculated
// points, order-preserving:
//
//	points = (rawScore - baseline) / divisor + uma[rank]
//
// Because the uma table sums to zero and the four raw scores are normalized
// against the same baseline, the returned points sum to zero whenever the raw
// scores sum to 4*baseline.
func (r ScoringRule) CalculatePoints(seats []Seat) ([]float64, error) {
	if len(seats) != PlayersPerGame {
		return nil, Validationf("expected %d seats, got %d", PlayersPerGame, len(seats))
	}
	var seen [PlayersPerGame + 1]bool
	for _, seat := range seats {
		if seat.Rank < 1 || seat.Rank > PlayersPerGame {
			return nil, Validationf("rank %d out of range 1..%d", seat.Rank, PlayersPerGame)
		}
		if seen[seat.Rank] {
			return nil, Validationf("duplicate rank %d", seat.Rank)
		}
		seen[seat.Rank] = true
	}

	divisor := r.PointsDivisor
	if divisor == 0 {
		divisor = DefaultPointsDivisor
	}

	points := make([]float64, len(seats))
	for i, seat := range seats {
		points[i] = float64(seat.RawScore-r.CalculationBaseChipCount)/divisor + float64(r.UmaFor(seat.Rank))
	}
	return points, nil
}
