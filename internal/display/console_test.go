package display

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

type fakeFeed struct {
	avg  float64
	errs []pipeline.ErrorMessage
}

func (f *fakeFeed) Average() pipeline.Reading {
	return pipeline.Reading{Value: f.avg}
}

func (f *fakeFeed) PollError() (pipeline.ErrorMessage, bool) {
	if len(f.errs) == 0 {
		return pipeline.ErrorMessage{}, false
	}
	m := f.errs[0]
	f.errs = f.errs[1:]
	return m, true
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestConsole_Refresh(t *testing.T) {
	feed := &fakeFeed{
		avg: 2,
		errs: []pipeline.ErrorMessage{
			{Text: pipeline.OverrunText, Count: 1},
			{Text: pipeline.OverrunText, Count: 2},
		},
	}
	var out bytes.Buffer
	c := NewConsole(&out, time.Second, feed)

	require.NoError(t, c.Refresh())
	assert.Equal(t, pipeline.OverrunText+" (x1)\nAverage: 2.00\n", out.String())

	out.Reset()
	feed.avg = 1234.567
	require.NoError(t, c.Refresh())
	assert.Equal(t, pipeline.OverrunText+" (x2)\nAverage: 1234.57\n", out.String())

	out.Reset()
	require.NoError(t, c.Refresh())
	assert.Equal(t, "Average: 1234.57\n", out.String())
}

func TestConsole_DefaultInterval(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, 0, &fakeFeed{})
	assert.Equal(t, time.Second, c.Interval())
}

func TestConsole_RunWriteError(t *testing.T) {
	c := NewConsole(failWriter{}, time.Millisecond, &fakeFeed{})
	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display")
}

func TestConsole_RunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConsole(&bytes.Buffer{}, time.Hour, &fakeFeed{})
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}
