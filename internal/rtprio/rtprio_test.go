package rtprio

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaise_OutOfRange(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("проверка диапазона только на Linux")
	}
	assert.Error(t, Raise(0))
	assert.Error(t, Raise(100))
}

func TestCurrent(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	_, _, err := Current()
	assert.NoError(t, err)
}
