package geocode

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"googlemaps.github.io/maps"

	"github.com/sells-group/player-enrich/internal/resilience"
)

// GoogleProvider geocodes through the Google Geocoding API.
type GoogleProvider struct {
	client *maps.Client
}

// NewGoogle creates a Google provider. An API key is required.
func NewGoogle(opts ...Option) (*GoogleProvider, error) {
	o := buildOptions(opts)
	if o.apiKey == "" {
		return nil, eris.New("geocode: google requires an api key")
	}

	mapsOpts := []maps.ClientOption{
		maps.WithAPIKey(o.apiKey),
		maps.WithHTTPClient(o.httpClient),
	}
	if o.baseURL != "" {
		mapsOpts = append(mapsOpts, maps.WithBaseURL(o.baseURL))
	}

	client, err := maps.NewClient(mapsOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google client")
	}
	return &GoogleProvider{client: client}, nil
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return "google" }

// Geocode implements Client. ZERO_RESULTS is a miss, not an error.
func (p *GoogleProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return &Result{Matched: false, Source: "google"}, nil
	}

	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, classifyGoogleError(err)
	}
	if len(results) == 0 {
		return &Result{Matched: false, Source: "google"}, nil
	}

	r := results[0]
	return &Result{
		Latitude:    r.Geometry.Location.Lat,
		Longitude:   r.Geometry.Location.Lng,
		DisplayName: r.FormattedAddress,
		Source:      "google",
		Matched:     true,
	}, nil
}

// classifyGoogleError marks quota and server-side statuses as transient.
func classifyGoogleError(err error) error {
	wrapped := eris.Wrap(err, "geocode: google request")
	msg := err.Error()
	for _, status := range []string{"OVER_QUERY_LIMIT", "UNKNOWN_ERROR"} {
		if strings.Contains(msg, status) {
			return resilience.NewTransientError(wrapped, 0)
		}
	}
	return wrapped
}
