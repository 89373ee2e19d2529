// Package source — источники выборок для прерывания таймера (sim, serial, i2c).
package source

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

// ErrUnknownProtocol — в конфиге указан неизвестный protocol
var ErrUnknownProtocol = errors.New("unknown protocol")

// ErrUnsupported — источник недоступен на этой платформе
var ErrUnsupported = errors.New("not supported on this platform")

// Source — источник выборок.
// Read вызывается из контекста прерывания: не блокирует, не выделяет память.
type Source interface {
	// Name возвращает имя источника для логов
	Name() string
	// Protocol возвращает протокол: sim, serial, i2c
	Protocol() string
	// Read возвращает последнюю выборку
	Read() pipeline.Sample
	// Status возвращает состояние источника
	Status() Status
	// Close освобождает ресурсы
	Close() error
}

// Status — состояние источника
type Status int

const (
	StatusUnavailable Status = iota
	StatusStale              // значение есть, но давно не обновлялось
	StatusLive               // источник пригоден для выборки
)

func (s Status) String() string {
	switch s {
	case StatusUnavailable:
		return "unavailable"
	case StatusStale:
		return "stale"
	case StatusLive:
		return "live"
	default:
		return "unknown"
	}
}

// IsUsable возвращает true, если выборки источника можно писать в буфер
func (s Status) IsUsable() bool {
	return s == StatusLive
}

// latch хранит последнее значение фонового опроса устройства.
// Запись — из горутины опроса, чтение — из прерывания; только атомарные операции.
type latch struct {
	value      atomic.Uint32
	updated    atomic.Int64 // unix nano последнего обновления, 0 — ещё не было
	closed     atomic.Bool
	staleAfter time.Duration
}

func (l *latch) store(v pipeline.Sample, at time.Time) {
	l.value.Store(uint32(v))
	l.updated.Store(at.UnixNano())
}

func (l *latch) load() pipeline.Sample {
	return pipeline.Sample(l.value.Load())
}

func (l *latch) status(now time.Time) Status {
	if l.closed.Load() {
		return StatusUnavailable
	}
	u := l.updated.Load()
	if u == 0 {
		return StatusUnavailable
	}
	if l.staleAfter > 0 && now.Sub(time.Unix(0, u)) > l.staleAfter {
		return StatusStale
	}
	return StatusLive
}
