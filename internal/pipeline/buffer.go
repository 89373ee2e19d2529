// Package pipeline — конвейер выборок с двойной буферизацией.
//
// Прерывание таймера (Producer.OnTick) пишет выборки в буфер записи, при заполнении
// неблокирующе меняет роли буферов и будит задачу усреднения (Consumer). Если задача
// не успела освободить буфер чтения, выставляется флаг overrun и новые выборки
// отбрасываются до следующего прохода задачи.
package pipeline

import "sync/atomic"

// Sample — одно показание АЦП
type Sample uint16

// Buffer — буфер фиксированной ёмкости N с курсором записи 0..N.
// Принадлежит только той роли (запись или чтение), которая держит его сейчас.
type Buffer struct {
	samples []Sample
	cursor  int
}

func newBuffer(n int) Buffer {
	return Buffer{samples: make([]Sample, n)}
}

// Len возвращает ёмкость N
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cursor возвращает текущий индекс записи
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Full возвращает true, если курсор дошёл до N
func (b *Buffer) Full() bool {
	return b.cursor >= len(b.samples)
}

// Put записывает выборку в позицию курсора и сдвигает курсор.
// На полном буфере ничего не пишет и возвращает false.
func (b *Buffer) Put(s Sample) bool {
	if b.Full() {
		return false
	}
	b.samples[b.cursor] = s
	b.cursor++
	return true
}

// Reset возвращает курсор в 0; содержимое остаётся до перезаписи
func (b *Buffer) Reset() {
	b.cursor = 0
}

// Samples возвращает содержимое буфера (без копирования)
func (b *Buffer) Samples() []Sample {
	return b.samples
}

// Role — роль буфера в паре
type Role int

const (
	RoleWrite Role = iota
	RoleRead
)

func (r Role) String() string {
	switch r {
	case RoleWrite:
		return "write"
	case RoleRead:
		return "read"
	default:
		return "unknown"
	}
}

// BufferPair — ровно два буфера и индекс буфера записи.
// Буфер чтения всегда второй элемент пары; третьего состояния нет.
type BufferPair struct {
	bufs  [2]Buffer
	write atomic.Uint32
}

// NewBufferPair создаёт пару буферов ёмкости n; буфер 0 — запись, буфер 1 — чтение
func NewBufferPair(n int) *BufferPair {
	p := &BufferPair{}
	p.bufs[0] = newBuffer(n)
	p.bufs[1] = newBuffer(n)
	return p
}

// WriteIndex возвращает индекс текущего буфера записи (0 или 1)
func (p *BufferPair) WriteIndex() int {
	return int(p.write.Load())
}

// RoleOf возвращает роль буфера с индексом i
func (p *BufferPair) RoleOf(i int) Role {
	if uint32(i) == p.write.Load() {
		return RoleWrite
	}
	return RoleRead
}

// Write возвращает буфер записи
func (p *BufferPair) Write() *Buffer {
	return &p.bufs[p.write.Load()]
}

// Read возвращает буфер чтения
func (p *BufferPair) Read() *Buffer {
	return &p.bufs[p.write.Load()^1]
}

// Swap меняет роли одним атомарным шагом и возвращает новый индекс буфера записи.
// Двойной Swap возвращает исходное назначение ролей.
func (p *BufferPair) Swap() int {
	for {
		old := p.write.Load()
		if p.write.CompareAndSwap(old, old^1) {
			return int(old ^ 1)
		}
	}
}
