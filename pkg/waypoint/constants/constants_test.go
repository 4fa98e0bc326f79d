package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVirtualButton(t *testing.T) {
	for vb := VirtualButtonUp; vb <= VirtualButtonPower; vb++ {
		got, ok := ParseVirtualButton(vb.GetName())
		assert.True(t, ok, vb.GetName())
		assert.Equal(t, vb, got)
	}

	got, ok := ParseVirtualButton(" volumeup ")
	assert.True(t, ok)
	assert.Equal(t, VirtualButtonVolumeUp, got)

	_, ok = ParseVirtualButton("Unassigned")
	assert.False(t, ok)
	_, ok = ParseVirtualButton("Turbo")
	assert.False(t, ok)
}

func TestIsDevMode(t *testing.T) {
	t.Setenv(EnvironmentEnvVar, Development)
	assert.True(t, IsDevMode())
	t.Setenv(EnvironmentEnvVar, "PROD")
	assert.False(t, IsDevMode())
}

func TestIsDirectional(t *testing.T) {
	assert.True(t, VirtualButtonLeft.IsDirectional())
	assert.False(t, VirtualButtonA.IsDirectional())
	assert.Equal(t, "Start", VirtualButtonStart.String())
}
