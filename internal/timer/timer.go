// Package timer — источник периодических «прерываний» для обработчика выборок.
package timer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
	"github.com/shiwa/timecard-mini/adcsample/internal/rtprio"
)

// ErrNoHandler — Run вызван до Attach
var ErrNoHandler = errors.New("timer: no handler attached")

// Handler — обработчик тика. Выполняется до конца, не блокирует.
// yield = true просит сразу уступить процессор разбуженной задаче.
type Handler func() (yield bool)

// Timer — таймер с зарегистрированным обработчиком
type Timer interface {
	Attach(h Handler)
	Run(ctx context.Context) error
}

// Periodic вызывает обработчик с периодом period на отдельном потоке ОС.
// При priority > 0 поток переводится в SCHED_FIFO (см. rtprio).
type Periodic struct {
	period   time.Duration
	priority int
	h        Handler

	ticks  atomic.Uint64
	yields atomic.Uint64
}

// Option настраивает Periodic
type Option func(*Periodic)

// WithPriority задаёт приоритет реального времени потока тиков (0 — не менять)
func WithPriority(prio int) Option {
	return func(t *Periodic) {
		t.priority = prio
	}
}

// NewPeriodic создаёт таймер с периодом period
func NewPeriodic(period time.Duration, opts ...Option) (*Periodic, error) {
	if period <= 0 {
		return nil, fmt.Errorf("timer: period must be > 0, got %v", period)
	}
	t := &Periodic{period: period}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Attach регистрирует обработчик; вызывать до Run
func (t *Periodic) Attach(h Handler) {
	t.h = h
}

// Period возвращает период таймера
func (t *Periodic) Period() time.Duration {
	return t.period
}

// Ticks возвращает число выполненных тиков
func (t *Periodic) Ticks() uint64 {
	return t.ticks.Load()
}

// Yields возвращает число тиков, после которых процессор был уступлен
func (t *Periodic) Yields() uint64 {
	return t.yields.Load()
}

// Run выполняет тики до отмены ctx. Пропущенные тики не догоняются (как у time.Ticker).
func (t *Periodic) Run(ctx context.Context) error {
	if t.h == nil {
		return ErrNoHandler
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if t.priority > 0 {
		if err := rtprio.Raise(t.priority); err != nil {
			logger.Warn("timer: %v; продолжаем с обычным приоритетом", err)
		}
	}

	ticker := time.NewTicker(t.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		t.ticks.Add(1)
		if t.h() {
			t.yields.Add(1)
			runtime.Gosched()
		}
	}
}

// Manual — таймер для тестов: тики выполняются вызовом Fire.
type Manual struct {
	h Handler
}

// Attach регистрирует обработчик
func (m *Manual) Attach(h Handler) {
	m.h = h
}

// Run ждёт отмены ctx (тики идут только через Fire)
func (m *Manual) Run(ctx context.Context) error {
	if m.h == nil {
		return ErrNoHandler
	}
	<-ctx.Done()
	return ctx.Err()
}

// Fire выполняет n тиков и возвращает, сколько из них попросили уступить процессор
func (m *Manual) Fire(n int) (yields int) {
	for i := 0; i < n; i++ {
		if m.h() {
			yields++
		}
	}
	return yields
}
