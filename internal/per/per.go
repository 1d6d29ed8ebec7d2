// Package per computes Hollinger-style Player Efficiency Ratings from box-score totals.
package per

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/player-enrich/internal/model"
)

// Weights applied to each counting stat. Misses, fouls and turnovers are subtracted.
const (
	WeightFGM          = 85.910
	WeightSteals       = 53.897
	WeightThreePTM     = 51.757
	WeightFTM          = 46.845
	WeightBlocks       = 39.190
	WeightOffensiveReb = 39.190
	WeightAssists      = 34.677
	WeightDefensiveReb = 14.707
	WeightFouls        = 17.174
	WeightFTMiss       = 20.091
	WeightFGMiss       = 39.190
	WeightTurnovers    = 53.897
)

var (
	// ErrZeroMinutes is returned when a player logged no minutes.
	ErrZeroMinutes = eris.New("per: zero minutes played")
	// ErrInvalidMinutes is returned for negative or NaN minutes.
	ErrInvalidMinutes = eris.New("per: invalid minutes played")
)

// Calculate returns the PER for s. The result is undefined, and an error is
// returned, when s.Minutes is not positive.
func Calculate(s model.Stats) (float64, error) {
	switch {
	case math.IsNaN(s.Minutes) || s.Minutes < 0:
		return 0, ErrInvalidMinutes
	case s.Minutes == 0:
		return 0, ErrZeroMinutes
	}
	return Raw(s) * (1 / s.Minutes), nil
}

// Raw returns the unnormalized weighted sum before dividing by minutes.
func Raw(s model.Stats) float64 {
	return s.FGM*WeightFGM +
		s.Steals*WeightSteals +
		s.ThreePTM*WeightThreePTM +
		s.FTM*WeightFTM +
		s.Blocks*WeightBlocks +
		s.OffensiveReb*WeightOffensiveReb +
		s.Assists*WeightAssists +
		s.DefensiveReb*WeightDefensiveReb -
		s.Fouls*WeightFouls -
		s.FTMiss*WeightFTMiss -
		s.FGMiss*WeightFGMiss -
		s.Turnovers*WeightTurnovers
}
