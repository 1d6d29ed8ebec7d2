package geodist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	newportRI   = Point{Lat: 41.49008, Lon: -71.312796}
	clevelandOH = Point{Lat: 41.499498, Lon: -81.695391}
)

func TestMiles_MatchesGeodesicReference(t *testing.T) {
	// Reference value from the WGS-84 geodesic used by geopy.
	assert.InDelta(t, 538.390445, Miles(newportRI, clevelandOH), 0.001)
}

func TestMiles_Symmetric(t *testing.T) {
	assert.InDelta(t, Miles(newportRI, clevelandOH), Miles(clevelandOH, newportRI), 1e-9)
}

func TestMiles_SamePoint(t *testing.T) {
	assert.InDelta(t, 0.0, Miles(newportRI, newportRI), 1e-9)
}

func TestMeters_Equatorial(t *testing.T) {
	// One degree of longitude along the equator on WGS-84.
	d := Meters(Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 1})
	assert.InDelta(t, 111319.49, d, 0.01)
}

func TestMeters_QuarterMeridian(t *testing.T) {
	// Equator to pole along a meridian on WGS-84.
	d := Meters(Point{Lat: 0, Lon: 0}, Point{Lat: 90, Lon: 0})
	assert.InDelta(t, 10001965.729, d, 0.01)
}

func TestMiles_NearlyAntipodal(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
	}{
		{"equatorial", Point{0, 0}, Point{0.5, 179.7}},
		{"exact antipode", Point{0, 0}, Point{0, 180}},
		{"off equator", Point{-33.8688, 151.2093}, Point{33.8688, -28.7907}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Miles(tt.a, tt.b)
			assert.False(t, math.IsNaN(d))
			assert.Greater(t, d, 12000.0)
			// Half the meridian length bounds every geodesic on WGS-84.
			assert.LessOrEqual(t, d, 20003931.46/MetersPerMile)
			assert.InDelta(t, d, Miles(tt.b, tt.a), 1e-6)
		})
	}
}

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{0, 0}, true},
		{"corners", Point{-90, 180}, true},
		{"lat too high", Point{90.1, 0}, false},
		{"lon too low", Point{0, -180.5}, false},
		{"nan", Point{math.NaN(), 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Valid())
		})
	}
}
