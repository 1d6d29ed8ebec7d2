package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RunStatus
		want   string
	}{
		{RunStatusRunning, "running"},
		{RunStatusComplete, "complete"},
		{RunStatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestPlayer_FullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Kevin Durant", Player{FirstName: "Kevin", LastName: "Durant"}.FullName())
	assert.Equal(t, "Nene", Player{FirstName: "Nene"}.FullName())
	assert.Equal(t, "Hilario", Player{LastName: "Hilario"}.FullName())
}

func TestUnresolved(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	r := Unresolved(SideBirthplace, "Lagos, Nigeria", ReasonGeocodeError, cause)

	assert.False(t, r.Resolved)
	require.NotNil(t, r.Failure)
	assert.Equal(t, SideBirthplace, r.Failure.Side)
	assert.Equal(t, "birthplace geocode_error: Lagos, Nigeria: boom", r.Failure.Error())
	assert.ErrorIs(t, r.Failure, cause)
}

func TestEnrichedPlayer_MilesPtr(t *testing.T) {
	t.Parallel()

	resolved := EnrichedPlayer{Distance: DistanceResult{Resolved: true, Miles: 12.5}}
	require.NotNil(t, resolved.MilesPtr())
	assert.InDelta(t, 12.5, *resolved.MilesPtr(), 1e-9)

	unresolved := EnrichedPlayer{Distance: Unresolved(SideSchool, "", ReasonEmptyAddress, nil)}
	assert.Nil(t, unresolved.MilesPtr())
}
