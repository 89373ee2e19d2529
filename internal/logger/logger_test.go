package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		Quiet = false
		SetOutput(os.Stderr)
	})

	Quiet = true
	Info("hidden %d", 1)
	Error("shown %d", 2)
	Warn("warned")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "app=adc-sample")
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetDebug(false)
		SetOutput(os.Stderr)
	})

	Debug("first")
	assert.NotContains(t, buf.String(), "first")

	SetDebug(true)
	Debug("second")
	assert.Contains(t, buf.String(), "second")
}
