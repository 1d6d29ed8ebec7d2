package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPlayers(t *testing.T) *Table {
	t.Helper()
	tbl, err := ReadCSV(context.Background(), strings.NewReader(playersCSV), CSVOptions{})
	require.NoError(t, err)
	return tbl
}

func TestDecodePlayers(t *testing.T) {
	players, err := DecodePlayers(loadPlayers(t))
	require.NoError(t, err)
	require.Len(t, players, 3)

	ada := players[0]
	assert.Equal(t, 0, ada.Row)
	assert.Equal(t, "Ada", ada.FirstName)
	assert.Equal(t, "Cleveland, OH", ada.SchoolCity)
	require.NotNil(t, ada.BirthplaceState)
	assert.Equal(t, "RI", *ada.BirthplaceState)
	assert.Equal(t, "USA", ada.BirthplaceCountry)
	assert.NoError(t, ada.StatsErr)
	assert.Equal(t, 10.0, ada.Stats.FGM)
	assert.Equal(t, 6.0, ada.Stats.FGMiss)
	assert.Equal(t, 30.0, ada.Stats.Minutes)
	assert.Equal(t, "USA", ada.Raw[5], "country cell is stored trimmed")
}

func TestDecodePlayers_AbsentState(t *testing.T) {
	players, err := DecodePlayers(loadPlayers(t))
	require.NoError(t, err)

	assert.Nil(t, players[1].BirthplaceState, "empty cell")
	assert.Nil(t, players[2].BirthplaceState, "nan marker")
}

func TestDecodePlayers_BadStatIsRecordedNotFatal(t *testing.T) {
	players, err := DecodePlayers(loadPlayers(t))
	require.NoError(t, err)

	cy := players[2]
	require.Error(t, cy.StatsErr)
	assert.Contains(t, cy.StatsErr.Error(), "FGM")
	assert.Equal(t, 12.0, cy.Stats.Minutes)
}

func TestDecodePlayers_MissingColumns(t *testing.T) {
	_, err := DecodePlayers(&Table{Header: []string{"first_name", "last_name", "Minutes"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "school_city")
	assert.Contains(t, err.Error(), "FGM")
}

func TestDecodePlayers_ShortRow(t *testing.T) {
	tbl := loadPlayers(t)
	tbl.Rows = [][]string{{"Dee", "Xu"}}

	players, err := DecodePlayers(tbl)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Dee", players[0].FirstName)
	assert.Error(t, players[0].StatsErr)
	assert.Len(t, players[0].Raw, len(tbl.Header))
}

func TestOptional(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"", nil},
		{"   ", nil},
		{"nan", nil},
		{"NaN", nil},
		{"NA", nil},
		{"null", nil},
		{" NJ ", strPtr("NJ")},
		{"Ontario", strPtr("Ontario")},
	}
	for _, tt := range tests {
		got := optional(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, *got)
	}
}

func TestNormalize_NFC(t *testing.T) {
	decomposed := "Mu\u0308nchen"
	assert.Equal(t, "M\u00fcnchen", normalize("  "+decomposed+" "))
}

func strPtr(s string) *string { return &s }
