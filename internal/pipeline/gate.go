package pipeline

import "sync/atomic"

// Биты состояния OverrunGate: permit и overrun лежат в одном слове,
// поэтому любой переход между состояниями атомарен.
const (
	gatePermit  uint32 = 1 << 0
	gateOverrun uint32 = 1 << 1
)

// OverrunGate — одноразовое разрешение «буфер чтения свободен» и флаг overrun.
//
// Берёт разрешение только Producer (неблокирующе), возвращает только Consumer.
// Достижимые состояния: {permit}, {}, {overrun}; permit никогда не больше 1.
type OverrunGate struct {
	state atomic.Uint32
}

// NewOverrunGate создаёт gate с выданным разрешением и сброшенным overrun
func NewOverrunGate() *OverrunGate {
	g := &OverrunGate{}
	g.state.Store(gatePermit)
	return g
}

// TryAcquire пытается взять разрешение без ожидания.
// При неудаче в том же атомарном шаге выставляет overrun.
func (g *OverrunGate) TryAcquire() bool {
	for {
		old := g.state.Load()
		if old&gatePermit != 0 {
			if g.state.CompareAndSwap(old, old&^gatePermit) {
				return true
			}
			continue
		}
		if old&gateOverrun != 0 {
			return false
		}
		if g.state.CompareAndSwap(old, old|gateOverrun) {
			return false
		}
	}
}

// Release одним неделимым действием сбрасывает overrun и возвращает разрешение.
// Возвращает значение overrun до сброса.
func (g *OverrunGate) Release() (overrun bool) {
	old := g.state.Swap(gatePermit)
	return old&gateOverrun != 0
}

// Permit возвращает 1, если разрешение свободно, иначе 0
func (g *OverrunGate) Permit() int {
	if g.state.Load()&gatePermit != 0 {
		return 1
	}
	return 0
}

// Overrun возвращает текущее значение флага
func (g *OverrunGate) Overrun() bool {
	return g.state.Load()&gateOverrun != 0
}

// Held возвращает true, пока разрешение у Producer (буфер чтения передан задаче)
func (g *OverrunGate) Held() bool {
	return g.state.Load()&gatePermit == 0
}
