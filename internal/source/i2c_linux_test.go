//go:build linux

package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDrivers_RegistersI2C(t *testing.T) {
	state, err := initDrivers()
	require.NoError(t, err)

	var names []string
	for _, d := range state.Loaded {
		names = append(names, d.String())
	}
	for _, f := range state.Skipped {
		names = append(names, f.D.String())
	}
	for _, f := range state.Failed {
		names = append(names, f.D.String())
	}
	assert.Contains(t, names, "sysfs-i2c", "драйвер шины I2C зарегистрирован")

	again, err := initDrivers()
	require.NoError(t, err)
	assert.Same(t, state, again)
}

func TestNewI2C_BadChannel(t *testing.T) {
	_, err := NewI2C("1", 0x48, 4, 0, 0)
	assert.ErrorContains(t, err, "channel")
}
