// Package geocode resolves free-text addresses to coordinates through a
// configurable provider behind a shared throttle and bounded retries.
package geocode

import (
	"context"
	"net/http"
	"time"

	"github.com/sells-group/player-enrich/internal/geodist"
)

// Client geocodes a single free-text address.
//
// A miss is not an error: implementations return a Result with Matched=false.
// Errors are reserved for transport, service and decoding failures.
type Client interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, address string) (*Result, error)

// Geocode implements Client.
func (f ClientFunc) Geocode(ctx context.Context, address string) (*Result, error) {
	return f(ctx, address)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name,omitempty"` // provider's formatted address, if any
	Source      string  `json:"source"`                 // provider name
	Matched     bool    `json:"matched"`
}

// Point returns the result's coordinates.
func (r *Result) Point() geodist.Point {
	return geodist.Point{Lat: r.Latitude, Lon: r.Longitude}
}

// Option configures a provider.
type Option func(*options)

type options struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header sent to HTTP providers.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

const defaultUserAgent = "player-enrich/1.0"

func buildOptions(opts []Option) options {
	o := options{
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
