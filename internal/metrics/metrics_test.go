package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

type fakeStats struct {
	s   pipeline.Stats
	avg float64
}

func (f *fakeStats) Stats() pipeline.Stats     { return f.s }
func (f *fakeStats) Average() pipeline.Reading { return pipeline.Reading{Value: f.avg} }

func TestExporter_Collect(t *testing.T) {
	src := &fakeStats{
		s: pipeline.Stats{
			Samples:        40,
			DroppedTicks:   3,
			Swaps:          4,
			Overruns:       1,
			Averages:       4,
			ReportsQueued:  1,
			ReportsDropped: 0,
			QueueDepth:     1,
			Overrun:        true,
		},
		avg: 2.5,
	}
	e, err := NewExporter(src)
	require.NoError(t, err)
	assert.Equal(t, 10, testutil.CollectAndCount(e.Registry()))

	expected := `
# HELP adcsample_pipeline_samples_total Samples written by the interrupt handler
# TYPE adcsample_pipeline_samples_total counter
adcsample_pipeline_samples_total 40
# HELP adcsample_pipeline_overrun Overrun flag (1 while set)
# TYPE adcsample_pipeline_overrun gauge
adcsample_pipeline_overrun 1
# HELP adcsample_pipeline_average Latest published average
# TYPE adcsample_pipeline_average gauge
adcsample_pipeline_average 2.5
`
	require.NoError(t, testutil.GatherAndCompare(e.Registry(), strings.NewReader(expected),
		"adcsample_pipeline_samples_total", "adcsample_pipeline_overrun", "adcsample_pipeline_average"))

	src.s.Samples = 50
	src.s.Overrun = false
	expected = `
# HELP adcsample_pipeline_samples_total Samples written by the interrupt handler
# TYPE adcsample_pipeline_samples_total counter
adcsample_pipeline_samples_total 50
# HELP adcsample_pipeline_overrun Overrun flag (1 while set)
# TYPE adcsample_pipeline_overrun gauge
adcsample_pipeline_overrun 0
`
	require.NoError(t, testutil.GatherAndCompare(e.Registry(), strings.NewReader(expected),
		"adcsample_pipeline_samples_total", "adcsample_pipeline_overrun"))
}

func TestExporter_Handler(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{BufferLen: 4, MessageLen: 100, QueueLen: 5})
	require.NoError(t, err)
	e, err := NewExporter(p)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "adcsample_pipeline_swaps_total 0")
}

func TestExporter_ServeBadAddr(t *testing.T) {
	e, err := NewExporter(&fakeStats{})
	require.NoError(t, err)
	err = e.Serve(context.Background(), "bad-address:-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics server")
}
