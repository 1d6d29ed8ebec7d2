package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/player-enrich/internal/resilience"
)

const (
	openMapQuestURL = "https://open.mapquestapi.com/nominatim/v1/search"
	nominatimURL    = "https://nominatim.openstreetmap.org/search"
)

// nominatimPlace is one element of a Nominatim search response. Coordinates
// arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimProvider geocodes through a Nominatim-compatible search endpoint.
// It serves both OpenMapQuest (keyed) and OSM Nominatim (keyless).
type NominatimProvider struct {
	name       string
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// NewOpenMapQuest creates a provider for MapQuest's hosted Nominatim.
func NewOpenMapQuest(opts ...Option) (*NominatimProvider, error) {
	o := buildOptions(opts)
	if o.apiKey == "" {
		return nil, eris.New("geocode: openmapquest requires an api key")
	}
	return newNominatim("openmapquest", openMapQuestURL, o), nil
}

// NewNominatim creates a provider for OSM Nominatim.
func NewNominatim(opts ...Option) (*NominatimProvider, error) {
	o := buildOptions(opts)
	if o.userAgent == "" {
		return nil, eris.New("geocode: nominatim requires a user agent")
	}
	return newNominatim("nominatim", nominatimURL, o), nil
}

func newNominatim(name, defaultURL string, o options) *NominatimProvider {
	base := o.baseURL
	if base == "" {
		base = defaultURL
	}
	return &NominatimProvider{
		name:       name,
		baseURL:    base,
		apiKey:     o.apiKey,
		userAgent:  o.userAgent,
		httpClient: o.httpClient,
	}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return p.name }

// Geocode implements Client.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return &Result{Matched: false, Source: p.name}, nil
	}

	params := url.Values{
		"format": {"json"},
		"q":      {address},
		"limit":  {"1"},
	}
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s build request", p.name)
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s request", p.name)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resilience.StatusError("geocode: "+p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s read body", p.name)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrapf(err, "geocode: %s parse response", p.name)
	}
	if len(places) == 0 {
		return &Result{Matched: false, Source: p.name}, nil
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s parse lat %q", p.name, place.Lat)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: %s parse lon %q", p.name, place.Lon)
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: place.DisplayName,
		Source:      p.name,
		Matched:     true,
	}, nil
}
