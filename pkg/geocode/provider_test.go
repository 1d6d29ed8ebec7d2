package geocode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		opts     []Option
		want     string
		wantErr  bool
	}{
		{name: "default is openmapquest", provider: "", opts: []Option{WithAPIKey("k")}, want: "openmapquest"},
		{name: "openmapquest", provider: "OpenMapQuest", opts: []Option{WithAPIKey("k")}, want: "openmapquest"},
		{name: "openmapquest without key", provider: "openmapquest", wantErr: true},
		{name: "nominatim", provider: " nominatim ", want: "nominatim"},
		{name: "google", provider: "google", opts: []Option{WithAPIKey("AIza-test")}, want: "google"},
		{name: "google without key", provider: "google", wantErr: true},
		{name: "unknown", provider: "bing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.provider, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestBuildOptions(t *testing.T) {
	o := buildOptions(nil)
	assert.Equal(t, defaultUserAgent, o.userAgent)
	require.NotNil(t, o.httpClient)

	o = buildOptions([]Option{WithTimeout(0)})
	assert.NotNil(t, o.httpClient)

	o = buildOptions([]Option{WithTimeout(3 * time.Second)})
	assert.Equal(t, 3*time.Second, o.httpClient.Timeout)
}
