package model

import (
	"github.com/sells-group/player-enrich/internal/geodist"
)

// Stats holds a player's box-score totals.
type Stats struct {
	FGM          float64 `json:"fgm"`
	FGMiss       float64 `json:"fg_miss"`
	ThreePTM     float64 `json:"three_ptm"`
	FTM          float64 `json:"ftm"`
	FTMiss       float64 `json:"ft_miss"`
	OffensiveReb float64 `json:"offensive_reb"`
	DefensiveReb float64 `json:"defensive_reb"`
	Assists      float64 `json:"assists"`
	Steals       float64 `json:"steals"`
	Blocks       float64 `json:"blocks"`
	Turnovers    float64 `json:"turnovers"`
	Fouls        float64 `json:"fouls"`
	Minutes      float64 `json:"minutes"`
}

// Player is one row of the input dataset.
type Player struct {
	Row       int    `json:"row"` // zero-based position in the input
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Stats    Stats `json:"stats"`
	StatsErr error `json:"-"` // set when a stat cell is missing or not numeric

	SchoolCity        string  `json:"school_city"`
	BirthplaceCity    string  `json:"birthplace_city"`
	BirthplaceState   *string `json:"birthplace_state,omitempty"` // nil when absent
	BirthplaceCountry string  `json:"birthplace_country"`

	// Set by the country-code join.
	CountryName    string `json:"country_name"`
	CountryMatched bool   `json:"country_matched"`

	Raw            []string `json:"-"` // original cells, passed through to output
	CountryColumns []string `json:"-"` // joined lookup cells, empty when unmatched
}

// FullName returns "first last".
func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Side identifies which address of a row failed to resolve.
type Side string

const (
	SideSchool     Side = "school"
	SideBirthplace Side = "birthplace"
)

// FailureReason classifies an unresolved distance.
type FailureReason string

const (
	ReasonEmptyAddress FailureReason = "empty_address"
	ReasonNotFound     FailureReason = "not_found"
	ReasonGeocodeError FailureReason = "geocode_error"
	ReasonCircuitOpen  FailureReason = "circuit_open"
	ReasonCancelled    FailureReason = "cancelled"
)

// ResolutionFailure describes why a row's distance could not be computed.
type ResolutionFailure struct {
	Side    Side          `json:"side"`
	Address string        `json:"address"`
	Reason  FailureReason `json:"reason"`
	Err     error         `json:"-"`
}

func (f *ResolutionFailure) Error() string {
	msg := string(f.Side) + " " + string(f.Reason) + ": " + f.Address
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *ResolutionFailure) Unwrap() error { return f.Err }

// DistanceResult is the outcome of resolving a row's school-to-birthplace distance.
// Exactly one of Resolved or Failure is set.
type DistanceResult struct {
	Resolved   bool               `json:"resolved"`
	Miles      float64            `json:"miles,omitempty"`
	School     *geodist.Point     `json:"school,omitempty"`
	Birthplace *geodist.Point     `json:"birthplace,omitempty"`
	Failure    *ResolutionFailure `json:"failure,omitempty"`
}

// Unresolved builds a failed DistanceResult.
func Unresolved(side Side, address string, reason FailureReason, err error) DistanceResult {
	return DistanceResult{
		Failure: &ResolutionFailure{Side: side, Address: address, Reason: reason, Err: err},
	}
}

// EnrichedPlayer is a Player with its derived columns.
type EnrichedPlayer struct {
	Player
	Index    int            `json:"index"` // position after sorting
	PER      *float64       `json:"per,omitempty"`
	Distance DistanceResult `json:"distance"`
}

// MilesPtr returns the distance in miles, or nil when unresolved.
func (e EnrichedPlayer) MilesPtr() *float64 {
	if !e.Distance.Resolved {
		return nil
	}
	m := e.Distance.Miles
	return &m
}
