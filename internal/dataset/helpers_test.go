package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const playersCSV = `first_name,last_name,school_city,birthplace_city,birthplace_state,birthplace_country,FGM,FG_Miss,Three_PTM,FTM,FT_Miss,Offensive_Reb,Defensive_Reb,Assists,Steals,Blocks,Turnovers,Fouls,Minutes
Ada,Ng,"Cleveland, OH",Newport,RI, USA ,10,6,1,5,1,2,3,4,2,1,3,2,30
Bo,Li,"Durham, NC",Lagos,,NGA,4,4,0,2,0,1,2,1,0,0,1,1,0
Cy,Oh,"Austin, TX",Paris,nan,FRA,x,1,0,0,0,0,0,0,0,0,0,0,12
`

const countriesCSV = `,code_3digit,Country_name
0,USA,United States of America
1,NGA,Nigeria
2,USA,Duplicate States
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
