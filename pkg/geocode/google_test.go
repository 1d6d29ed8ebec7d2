package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/player-enrich/internal/resilience"
)

func newTestGoogle(t *testing.T, body string) *GoogleProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "AIza-test", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewGoogle(WithAPIKey("AIza-test"), WithBaseURL(srv.URL))
	require.NoError(t, err)
	return p
}

func TestGoogle_Matched(t *testing.T) {
	p := newTestGoogle(t, `{
		"status": "OK",
		"results": [{
			"formatted_address": "Cleveland, OH, USA",
			"geometry": {
				"location": {"lat": 41.499498, "lng": -81.695391},
				"location_type": "APPROXIMATE"
			}
		}]
	}`)

	result, err := p.Geocode(context.Background(), "Cleveland, OH")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.InDelta(t, 41.499498, result.Latitude, 1e-9)
	assert.InDelta(t, -81.695391, result.Longitude, 1e-9)
	assert.Equal(t, "google", result.Source)
	assert.Equal(t, "Cleveland, OH, USA", result.DisplayName)
}

func TestGoogle_ZeroResults(t *testing.T) {
	p := newTestGoogle(t, `{"status": "ZERO_RESULTS", "results": []}`)

	result, err := p.Geocode(context.Background(), "Nowhere, Atlantis")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGoogle_EmptyAddress(t *testing.T) {
	p, err := NewGoogle(WithAPIKey("AIza-test"), WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	result, err := p.Geocode(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGoogle_RequiresKey(t *testing.T) {
	_, err := NewGoogle()
	require.Error(t, err)
}

func TestClassifyGoogleError(t *testing.T) {
	err := classifyGoogleError(errors.New("maps: OVER_QUERY_LIMIT - quota exceeded"))
	assert.True(t, resilience.IsTransient(err))

	err = classifyGoogleError(errors.New("maps: REQUEST_DENIED - invalid key"))
	assert.False(t, resilience.IsTransient(err))
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}
