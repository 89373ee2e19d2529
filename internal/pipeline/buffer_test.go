package pipeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Put(t *testing.T) {
	b := newBuffer(2)
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Put(7))
	assert.True(t, b.Put(8))
	assert.True(t, b.Full())
	assert.False(t, b.Put(9), "полный буфер не принимает выборку")
	assert.Equal(t, []Sample{7, 8}, b.Samples())

	b.Reset()
	assert.Equal(t, 0, b.Cursor())
	assert.False(t, b.Full())
	assert.Equal(t, []Sample{7, 8}, b.Samples(), "Reset не трогает содержимое")
}

func TestBufferPair_SwapInvolution(t *testing.T) {
	p := NewBufferPair(3)
	w0, r0 := p.Write(), p.Read()
	require.NotSame(t, w0, r0)
	assert.Equal(t, 0, p.WriteIndex())
	assert.Equal(t, RoleWrite, p.RoleOf(0))
	assert.Equal(t, RoleRead, p.RoleOf(1))

	assert.Equal(t, 1, p.Swap())
	assert.Same(t, r0, p.Write())
	assert.Same(t, w0, p.Read())
	assert.Equal(t, RoleRead, p.RoleOf(0))

	assert.Equal(t, 0, p.Swap())
	assert.Same(t, w0, p.Write())
	assert.Same(t, r0, p.Read())
}

func TestOverrunGate_Transitions(t *testing.T) {
	g := NewOverrunGate()
	assert.Equal(t, 1, g.Permit())
	assert.False(t, g.Overrun())
	assert.False(t, g.Held())

	require.True(t, g.TryAcquire())
	assert.Equal(t, 0, g.Permit())
	assert.True(t, g.Held())
	assert.False(t, g.Overrun())

	require.False(t, g.TryAcquire(), "второй захват без Release")
	assert.True(t, g.Overrun())
	assert.Equal(t, 0, g.Permit())

	assert.True(t, g.Release(), "Release сообщает overrun")
	assert.False(t, g.Overrun())
	assert.Equal(t, 1, g.Permit())

	assert.False(t, g.Release())
	assert.Equal(t, 1, g.Permit(), "permit не превышает 1")
}

func TestOverrunGate_PermitBound(t *testing.T) {
	g := NewOverrunGate()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		if rng.Intn(2) == 0 {
			g.TryAcquire()
		} else {
			g.Release()
		}
		p := g.Permit()
		require.True(t, p == 0 || p == 1, "permit=%d", p)
		if g.Overrun() {
			require.Equal(t, 0, p, "overrun только при занятом разрешении")
		}
	}
}
