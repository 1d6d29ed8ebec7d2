package dataset

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/player-enrich/internal/model"
)

// Default country table columns.
const (
	DefaultCountryKeyColumn  = "code_3digit"
	DefaultCountryNameColumn = "Country_name"
)

// Countries is an exact-match lookup from country code to display name plus
// the lookup row's remaining cells.
type Countries struct {
	// Columns are the lookup table's columns after the leading index column.
	// They are appended to every output row.
	Columns []string

	nameIdx int
	byKey   map[string][]string
}

// LoadCountries builds the lookup. The table's first column is an index and
// is dropped. Keys are trimmed. On duplicate keys the first row wins.
func LoadCountries(t *Table, keyColumn, nameColumn string) (*Countries, error) {
	if keyColumn == "" {
		keyColumn = DefaultCountryKeyColumn
	}
	if nameColumn == "" {
		nameColumn = DefaultCountryNameColumn
	}
	if len(t.Header) < 2 {
		return nil, eris.New("dataset: country table needs an index column and at least one data column")
	}

	data := &Table{Header: t.Header[1:]}
	idx, err := data.RequireColumns(keyColumn, nameColumn)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: country table")
	}

	c := &Countries{
		Columns: data.Header,
		nameIdx: idx[nameColumn],
		byKey:   make(map[string][]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		cells := make([]string, len(c.Columns))
		if len(row) > 1 {
			copy(cells, row[1:])
		}
		key := normalize(cells[idx[keyColumn]])
		if key == "" {
			continue
		}
		if _, dup := c.byKey[key]; dup {
			zap.L().Warn("dataset: duplicate country code, keeping first",
				zap.String("code", key),
				zap.Int("row", r),
			)
			continue
		}
		c.byKey[key] = cells
	}
	return c, nil
}

// Len returns the number of distinct codes.
func (c *Countries) Len() int { return len(c.byKey) }

// Lookup returns the display name and lookup cells for code.
func (c *Countries) Lookup(code string) (name string, cells []string, ok bool) {
	cells, ok = c.byKey[normalize(code)]
	if !ok {
		return "", nil, false
	}
	return normalize(cells[c.nameIdx]), cells, true
}

// JoinCountries sets CountryName and CountryColumns on every player and
// returns the number without a match. Unmatched players fall back to their
// trimmed birthplace_country as the display name and get empty lookup cells.
// The join never adds or removes rows.
func JoinCountries(players []model.Player, c *Countries) int {
	missing := 0
	for i := range players {
		p := &players[i]
		name, cells, ok := c.Lookup(p.BirthplaceCountry)
		if !ok {
			missing++
			p.CountryName = p.BirthplaceCountry
			p.CountryMatched = false
			p.CountryColumns = make([]string, len(c.Columns))
			zap.L().Debug("dataset: country code not found",
				zap.String("code", p.BirthplaceCountry),
				zap.String("first_name", p.FirstName),
				zap.String("last_name", p.LastName),
			)
			continue
		}
		p.CountryName = name
		p.CountryMatched = true
		p.CountryColumns = cells
	}
	return missing
}
