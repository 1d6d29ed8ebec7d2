package dataset

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/player-enrich/internal/model"
)

// WriteGeoJSON writes a FeatureCollection with one school-to-birthplace
// LineString per resolved player. Unresolved players are skipped.
func WriteGeoJSON(w io.Writer, players []model.EnrichedPlayer) (int, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, e := range players {
		d := e.Distance
		if !d.Resolved || d.School == nil || d.Birthplace == nil {
			continue
		}

		line := geom.NewLineStringFlat(geom.XY, []float64{
			d.School.Lon, d.School.Lat,
			d.Birthplace.Lon, d.Birthplace.Lat,
		})

		props := map[string]any{
			"index":      e.Index,
			"first_name": e.FirstName,
			"last_name":  e.LastName,
			"school":     e.SchoolCity,
			"birthplace": e.BirthplaceCity,
			"country":    e.CountryName,
			"miles":      d.Miles,
		}
		if e.PER != nil {
			props["per"] = *e.PER
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         e.FullName(),
			Geometry:   line,
			Properties: props,
		})
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return 0, eris.Wrap(err, "dataset: encode geojson")
	}
	if _, err := w.Write(data); err != nil {
		return 0, eris.Wrap(err, "dataset: write geojson")
	}
	return len(fc.Features), nil
}
