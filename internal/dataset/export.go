package dataset

import (
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/player-enrich/internal/model"
)

// Output column names appended after the input and country columns.
const (
	ColPER   = "PER"
	ColMiles = "miles_between_school_and_home"
)

// BuildOutput lays out the enriched rows: an unnamed index column, the input
// columns, the country lookup columns, then PER and miles. Undefined values
// are empty cells. Rows keep the order of players.
func BuildOutput(inputHeader, countryColumns []string, players []model.EnrichedPlayer) *Table {
	header := make([]string, 0, 1+len(inputHeader)+len(countryColumns)+2)
	header = append(header, "")
	header = append(header, inputHeader...)
	header = append(header, countryColumns...)
	header = append(header, ColPER, ColMiles)

	t := &Table{Header: header, Rows: make([][]string, len(players))}
	for i, e := range players {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(e.Index))
		row = append(row, padded(e.Raw, len(inputHeader))...)
		row = append(row, padded(e.CountryColumns, len(countryColumns))...)
		row = append(row, FormatFloat(e.PER), FormatFloat(e.MilesPtr()))
		t.Rows[i] = row
	}
	return t
}

// FormatFloat renders v with the shortest exact representation, or "" for nil.
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func padded(cells []string, n int) []string {
	out := make([]string, n)
	copy(out, cells)
	return out
}

// WriteFile writes t to path in the given format, inferring it from the
// extension when format is empty.
func WriteFile(path string, format Format, t *Table) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	if format == FormatXLSX {
		return WriteXLSX(path, t)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "dataset: write %s", path)
	}
	return eris.Wrapf(f.Close(), "dataset: close %s", path)
}
