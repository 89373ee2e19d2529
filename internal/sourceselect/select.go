// Package sourceselect — выбор активного источника выборок (primary → secondary).
package sourceselect

import (
	"errors"
	"sync/atomic"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
	"github.com/shiwa/timecard-mini/adcsample/internal/source"
)

// Election — выбор активного источника: сначала primary, при недоступности — secondary.
// Реализует pipeline.Reader; Read вызывается из прерывания и не блокирует.
type Election struct {
	sources  []source.Source // primary, затем secondary
	active   atomic.Int32    // индекс в sources, -1 — не выбран
	switches atomic.Uint64
}

// NewElection создаёт выборщик из списков primary и secondary
func NewElection(primary, secondary []source.Source) *Election {
	all := make([]source.Source, 0, len(primary)+len(secondary))
	all = append(all, primary...)
	all = append(all, secondary...)
	e := &Election{sources: all}
	e.active.Store(-1)
	return e
}

// Select выбирает первый live источник. Если live нет — активный остаётся прежним
// (последнее значение лучше, чем ничего) и возвращается nil.
func (e *Election) Select() source.Source {
	for i, s := range e.sources {
		if s.Status().IsUsable() {
			if old := e.active.Swap(int32(i)); old != int32(i) {
				e.switches.Add(1)
			}
			return s
		}
	}
	return nil
}

// Active возвращает текущий активный источник (после Select)
func (e *Election) Active() source.Source {
	i := e.active.Load()
	if i < 0 {
		return nil
	}
	return e.sources[i]
}

// Switches возвращает число смен активного источника
func (e *Election) Switches() uint64 {
	return e.switches.Load()
}

// Read возвращает выборку выбранного источника. Без live источников читает прежний
// активный, а если его не было — первый настроенный; без источников вообще — 0.
func (e *Election) Read() pipeline.Sample {
	if s := e.Select(); s != nil {
		return s.Read()
	}
	if s := e.Active(); s != nil {
		return s.Read()
	}
	if len(e.sources) > 0 {
		return e.sources[0].Read()
	}
	return 0
}

// Len возвращает число источников
func (e *Election) Len() int {
	return len(e.sources)
}

// Close закрывает все источники
func (e *Election) Close() error {
	var errs []error
	for _, s := range e.sources {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
