package geocode

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Provider is a single geocoding backend.
type Provider interface {
	Client
	Name() string
}

// Provider names accepted by NewProvider.
const (
	ProviderOpenMapQuest = "openmapquest"
	ProviderNominatim    = "nominatim"
	ProviderGoogle       = "google"
)

// NewProvider builds the named provider.
func NewProvider(name string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderOpenMapQuest:
		return NewOpenMapQuest(opts...)
	case ProviderNominatim:
		return NewNominatim(opts...)
	case ProviderGoogle:
		return NewGoogle(opts...)
	default:
		return nil, eris.Errorf("geocode: unknown provider %q", name)
	}
}
