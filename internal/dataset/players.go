package dataset

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/player-enrich/internal/model"
)

// Input column names.
const (
	ColFirstName         = "first_name"
	ColLastName          = "last_name"
	ColSchoolCity        = "school_city"
	ColBirthplaceCity    = "birthplace_city"
	ColBirthplaceState   = "birthplace_state"
	ColBirthplaceCountry = "birthplace_country"
)

// statColumns maps each stat column to its field.
var statColumns = []struct {
	name string
	set  func(*model.Stats, float64)
}{
	{"FGM", func(s *model.Stats, v float64) { s.FGM = v }},
	{"FG_Miss", func(s *model.Stats, v float64) { s.FGMiss = v }},
	{"Three_PTM", func(s *model.Stats, v float64) { s.ThreePTM = v }},
	{"FTM", func(s *model.Stats, v float64) { s.FTM = v }},
	{"FT_Miss", func(s *model.Stats, v float64) { s.FTMiss = v }},
	{"Offensive_Reb", func(s *model.Stats, v float64) { s.OffensiveReb = v }},
	{"Defensive_Reb", func(s *model.Stats, v float64) { s.DefensiveReb = v }},
	{"Assists", func(s *model.Stats, v float64) { s.Assists = v }},
	{"Steals", func(s *model.Stats, v float64) { s.Steals = v }},
	{"Blocks", func(s *model.Stats, v float64) { s.Blocks = v }},
	{"Turnovers", func(s *model.Stats, v float64) { s.Turnovers = v }},
	{"Fouls", func(s *model.Stats, v float64) { s.Fouls = v }},
	{"Minutes", func(s *model.Stats, v float64) { s.Minutes = v }},
}

// RequiredPlayerColumns lists the columns DecodePlayers needs.
func RequiredPlayerColumns() []string {
	cols := []string{
		ColFirstName, ColLastName, ColSchoolCity,
		ColBirthplaceCity, ColBirthplaceState, ColBirthplaceCountry,
	}
	for _, sc := range statColumns {
		cols = append(cols, sc.name)
	}
	return cols
}

// DecodePlayers converts table rows to players. A bad stat cell does not fail
// decoding; it is recorded on Player.StatsErr. Missing columns are fatal.
// The birthplace_country cell in Raw is replaced with its trimmed value.
func DecodePlayers(t *Table) ([]model.Player, error) {
	idx, err := t.RequireColumns(RequiredPlayerColumns()...)
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, len(t.Rows))
	for r, row := range t.Rows {
		raw := make([]string, len(t.Header))
		copy(raw, row)

		country := normalize(Cell(row, idx[ColBirthplaceCountry]))
		raw[idx[ColBirthplaceCountry]] = country

		p := model.Player{
			Row:               r,
			FirstName:         normalize(Cell(row, idx[ColFirstName])),
			LastName:          normalize(Cell(row, idx[ColLastName])),
			SchoolCity:        normalize(Cell(row, idx[ColSchoolCity])),
			BirthplaceCity:    normalize(Cell(row, idx[ColBirthplaceCity])),
			BirthplaceState:   optional(Cell(row, idx[ColBirthplaceState])),
			BirthplaceCountry: country,
			Raw:               raw,
		}

		for _, sc := range statColumns {
			cell := strings.TrimSpace(Cell(row, idx[sc.name]))
			v, perr := parseStat(cell)
			if perr != nil {
				if p.StatsErr == nil {
					p.StatsErr = eris.Wrapf(perr, "dataset: row %d column %s", r, sc.name)
				}
				continue
			}
			sc.set(&p.Stats, v)
		}
		players[r] = p
	}
	return players, nil
}

func parseStat(cell string) (float64, error) {
	if cell == "" || absentMarkers[strings.ToLower(cell)] {
		return 0, eris.New("missing value")
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %q", cell)
	}
	return v, nil
}

// absentMarkers are cell values that mean "no value" in exported tables.
var absentMarkers = map[string]bool{
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// optional returns nil for empty cells and absent markers.
func optional(cell string) *string {
	v := normalize(cell)
	if v == "" || absentMarkers[strings.ToLower(v)] {
		return nil
	}
	return &v
}
