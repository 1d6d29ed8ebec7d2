package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/player-enrich/internal/geodist"
	"github.com/sells-group/player-enrich/internal/model"
)

func enrichedFixture() []model.EnrichedPlayer {
	per := 21.5
	return []model.EnrichedPlayer{
		{
			Player: model.Player{
				FirstName:      "Ada",
				LastName:       "Ng",
				SchoolCity:     "Cleveland, OH",
				BirthplaceCity: "Newport",
				CountryName:    "United States of America",
				Raw:            []string{"Ada", "Ng"},
				CountryColumns: []string{"USA", "United States of America"},
			},
			Index: 0,
			PER:   &per,
			Distance: model.DistanceResult{
				Resolved:   true,
				Miles:      512.25,
				School:     &geodist.Point{Lat: 41.5, Lon: -81.7},
				Birthplace: &geodist.Point{Lat: 41.49, Lon: -71.31},
			},
		},
		{
			Player: model.Player{
				FirstName:      "Bo",
				LastName:       "Li",
				Raw:            []string{"Bo"},
				CountryColumns: []string{"", ""},
			},
			Index:    1,
			Distance: model.Unresolved(model.SideSchool, "", model.ReasonEmptyAddress, nil),
		},
	}
}

func TestBuildOutput(t *testing.T) {
	out := BuildOutput(
		[]string{"first_name", "last_name"},
		[]string{"code_3digit", "Country_name"},
		enrichedFixture(),
	)

	assert.Equal(t, []string{
		"", "first_name", "last_name", "code_3digit", "Country_name", ColPER, ColMiles,
	}, out.Header)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, []string{"0", "Ada", "Ng", "USA", "United States of America", "21.5", "512.25"}, out.Rows[0])
	assert.Equal(t, []string{"1", "Bo", "", "", "", "", ""}, out.Rows[1], "short rows are padded and undefined values are empty")
}

func TestFormatFloat(t *testing.T) {
	v := 1.0 / 3.0
	assert.Equal(t, "", FormatFloat(nil))
	assert.Equal(t, "0.3333333333333333", FormatFloat(&v))

	whole := 30.0
	assert.Equal(t, "30", FormatFloat(&whole))
}

func TestWriteFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	tbl := &Table{Header: []string{"", "first_name"}, Rows: [][]string{{"0", "Ada"}}}
	require.NoError(t, WriteFile(path, "", tbl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ",first_name\n0,Ada\n", string(data))
}

func TestWriteFile_XLSXByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	tbl := &Table{Header: []string{"index", "first_name"}, Rows: [][]string{{"0", "Ada"}}}
	require.NoError(t, WriteFile(path, "", tbl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := ReadXLSX(data, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, tbl.Header, got.Header)
	assert.Equal(t, tbl.Rows, got.Rows)
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), FormatCSV, &Table{})
	assert.Error(t, err)
}

func TestBuildOutput_RoundTripsThroughCSV(t *testing.T) {
	out := BuildOutput([]string{"first_name", "last_name"}, []string{"code_3digit", "Country_name"}, enrichedFixture())
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, FormatCSV, out))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	back, err := ReadCSV(context.Background(), f, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, out.Header, back.Header)
	assert.Equal(t, out.Rows, back.Rows)
}
