package sourceselect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
	"github.com/shiwa/timecard-mini/adcsample/internal/source"
)

// mockSource реализует source.Source для тестов.
type mockSource struct {
	name     string
	v        pipeline.Sample
	st       source.Status
	closeErr error
	closed   bool
}

func (m *mockSource) Name() string { return m.name }
func (m *mockSource) Protocol() string { return "mock" }
func (m *mockSource) Read() pipeline.Sample { return m.v }
func (m *mockSource) Status() source.Status { return m.st }
func (m *mockSource) Close() error { m.closed = true; return m.closeErr }

func TestElection_Select(t *testing.T) {
	unavail := &mockSource{"u", 1, source.StatusUnavailable, nil, false}
	stale := &mockSource{"st", 2, source.StatusStale, nil, false}
	live1 := &mockSource{"p1", 3, source.StatusLive, nil, false}
	live2 := &mockSource{"s1", 4, source.StatusLive, nil, false}

	t.Run("no sources", func(t *testing.T) {
		e := NewElection(nil, nil)
		assert.Nil(t, e.Select())
		assert.Equal(t, pipeline.Sample(0), e.Read())
	})

	t.Run("primary live", func(t *testing.T) {
		e := NewElection([]source.Source{live1}, []source.Source{live2})
		assert.Same(t, live1, e.Select())
		assert.Same(t, live1, e.Active())
		assert.Equal(t, pipeline.Sample(3), e.Read())
	})

	t.Run("primary unavailable fallback to secondary", func(t *testing.T) {
		e := NewElection([]source.Source{unavail, stale}, []source.Source{live2})
		assert.Same(t, live2, e.Select())
		assert.Equal(t, pipeline.Sample(4), e.Read())
	})

	t.Run("none live keeps previous active", func(t *testing.T) {
		p := &mockSource{"p", 9, source.StatusLive, nil, false}
		e := NewElection([]source.Source{p}, []source.Source{stale})
		e.Select()
		p.st = source.StatusStale
		assert.Nil(t, e.Select())
		assert.Same(t, p, e.Active())
		assert.Equal(t, pipeline.Sample(9), e.Read())
	})

	t.Run("none live never selected reads first", func(t *testing.T) {
		e := NewElection([]source.Source{unavail}, []source.Source{stale})
		assert.Nil(t, e.Active())
		assert.Equal(t, pipeline.Sample(1), e.Read())
	})
}

func TestElection_Switches(t *testing.T) {
	p := &mockSource{"p", 1, source.StatusLive, nil, false}
	s := &mockSource{"s", 2, source.StatusLive, nil, false}
	e := NewElection([]source.Source{p}, []source.Source{s})

	e.Read()
	e.Read()
	assert.Equal(t, uint64(1), e.Switches())

	p.st = source.StatusStale
	assert.Equal(t, pipeline.Sample(2), e.Read())
	p.st = source.StatusLive
	assert.Equal(t, pipeline.Sample(1), e.Read())
	assert.Equal(t, uint64(3), e.Switches())
}

func TestElection_Close(t *testing.T) {
	errClose := errors.New("close failed")
	a := &mockSource{name: "a", closeErr: errClose}
	b := &mockSource{name: "b"}
	e := NewElection([]source.Source{a}, []source.Source{b})
	assert.Equal(t, 2, e.Len())
	assert.ErrorIs(t, e.Close(), errClose)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
