package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriodic_InvalidPeriod(t *testing.T) {
	_, err := NewPeriodic(0)
	assert.Error(t, err)
}

func TestPeriodic_RunWithoutHandler(t *testing.T) {
	tm, err := NewPeriodic(time.Millisecond)
	require.NoError(t, err)
	assert.ErrorIs(t, tm.Run(context.Background()), ErrNoHandler)
}

func TestPeriodic_Run(t *testing.T) {
	tm, err := NewPeriodic(time.Millisecond)
	require.NoError(t, err)

	var calls atomic.Uint64
	tm.Attach(func() bool {
		return calls.Add(1)%2 == 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tm.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 10 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, calls.Load(), tm.Ticks())
	assert.Equal(t, tm.Ticks()/2, tm.Yields())
}

func TestManual_Fire(t *testing.T) {
	var m Manual
	var n int
	m.Attach(func() bool {
		n++
		return n%3 == 0
	})
	assert.Equal(t, 2, m.Fire(6))
	assert.Equal(t, 6, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}
