package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
)

// State — состояние задачи усреднения
type State int32

const (
	StateIdle State = iota
	StateComputing
	StatePublishing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputing:
		return "computing"
	case StatePublishing:
		return "publishing"
	default:
		return "unknown"
	}
}

// Consumer — задача усреднения: ждёт ReadySignal, считает среднее буфера чтения,
// публикует его и возвращает разрешение.
type Consumer struct {
	p        *Pipeline
	workload time.Duration
	now      func() time.Time
	warn     *rate.Limiter
	state    atomic.Int32
}

// ConsumerOption настраивает Consumer
type ConsumerOption func(*Consumer)

// WithWorkload добавляет искусственную задержку обработки каждого буфера
func WithWorkload(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.workload = d
	}
}

// WithClock подменяет источник времени публикаций
func WithClock(now func() time.Time) ConsumerOption {
	return func(c *Consumer) {
		c.now = now
	}
}

// NewConsumer создаёт задачу усреднения для конвейера
func (p *Pipeline) NewConsumer(opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		p:    p,
		now:  time.Now,
		warn: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State возвращает текущее состояние задачи
func (c *Consumer) State() State {
	return State(c.state.Load())
}

// Run обрабатывает буферы до отмены ctx. Ожидание сигнала не ограничено по времени.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := c.p.ready.Wait(ctx); err != nil {
			return err
		}
		c.Process(ctx)
	}
}

// Process обрабатывает переданный буфер чтения.
// Сигналы сливаются, поэтому сначала проверяется, что буфер действительно передан;
// иначе возвращает false.
func (c *Consumer) Process(ctx context.Context) (Reading, bool) {
	p := c.p
	if !p.gate.Held() {
		return Reading{}, false
	}

	c.state.Store(int32(StateComputing))
	avg := Average(p.pair.Read().Samples())
	if c.workload > 0 {
		sleepCtx(ctx, c.workload)
	}

	c.state.Store(int32(StatePublishing))
	r := p.result.Publish(avg, c.now())
	p.stats.averages.Add(1)

	// Сброс overrun и возврат разрешения — одно атомарное действие.
	// Сообщение ставится в очередь уже после него: постановка может ждать до SendTimeout,
	// и это ожидание не должно задерживать разрешение. Порядок не менять
	// (DESIGN.md, Open Question decisions, п. 2).
	if p.gate.Release() {
		n := p.stats.overruns.Add(1)
		if p.errs.Report(OverrunText, n, p.cfg.SendTimeout) {
			p.stats.reportsQueued.Add(1)
		} else {
			p.stats.reportsDropped.Add(1)
		}
		if c.warn.Allow() {
			logger.Warn("buffer overrun #%d: consumer slower than %d samples", n, p.cfg.BufferLen)
		}
	}

	c.state.Store(int32(StateIdle))
	return r, true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
