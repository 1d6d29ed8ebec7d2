package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/player-enrich/internal/model"
	"github.com/sells-group/player-enrich/pkg/geocode"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*geocode.Result, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

func hit(lat, lon float64) *geocode.Result {
	return &geocode.Result{Latitude: lat, Longitude: lon, Source: "mock", Matched: true}
}

func miss() *geocode.Result {
	return &geocode.Result{Source: "mock"}
}

func str(s string) *string { return &s }

func player(first, school, city string, state *string, country string) model.Player {
	return model.Player{
		FirstName:         first,
		LastName:          "Test",
		SchoolCity:        school,
		BirthplaceCity:    city,
		BirthplaceState:   state,
		BirthplaceCountry: country,
		CountryName:       country,
		Stats:             model.Stats{FGM: 5, FGMiss: 3, Minutes: 20},
	}
}
