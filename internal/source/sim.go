package source

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

// Sim — синтетический источник: constant, ramp, sine или square.
// Форма сигнала считается по номеру тика, поэтому повторяема.
type Sim struct {
	shape       string
	base        float64
	amplitude   float64
	periodTicks uint64
	n           atomic.Uint64
	closed      atomic.Bool
}

// NewSim создаёт синтетический источник.
// periodTicks — длина периода сигнала в тиках (для ramp, sine, square; 0 = 10).
func NewSim(shape string, base, amplitude float64, periodTicks int) (*Sim, error) {
	switch shape {
	case "", "constant":
		shape = "constant"
	case "ramp", "sine", "square":
	default:
		return nil, fmt.Errorf("sim: unknown shape %q", shape)
	}
	if periodTicks <= 0 {
		periodTicks = 10
	}
	return &Sim{
		shape:       shape,
		base:        base,
		amplitude:   amplitude,
		periodTicks: uint64(periodTicks),
	}, nil
}

// Name возвращает имя источника
func (s *Sim) Name() string {
	return fmt.Sprintf("sim:%s", s.shape)
}

// Protocol возвращает протокол
func (s *Sim) Protocol() string {
	return "sim"
}

// Read возвращает следующее значение сигнала
func (s *Sim) Read() pipeline.Sample {
	i := s.n.Add(1) - 1
	phase := float64(i%s.periodTicks) / float64(s.periodTicks)
	v := s.base
	switch s.shape {
	case "ramp":
		v += s.amplitude * phase
	case "sine":
		v += s.amplitude * math.Sin(2*math.Pi*phase)
	case "square":
		if (i/s.periodTicks)%2 == 1 {
			v += s.amplitude
		}
	}
	return clampSample(v)
}

// Status — синтетический источник доступен до Close
func (s *Sim) Status() Status {
	if s.closed.Load() {
		return StatusUnavailable
	}
	return StatusLive
}

// Close помечает источник недоступным
func (s *Sim) Close() error {
	s.closed.Store(true)
	return nil
}

func clampSample(v float64) pipeline.Sample {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	default:
		return pipeline.Sample(math.Round(v))
	}
}
