package pipeline

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrInvalidConfig — конфигурация конвейера непригодна; запуск невозможен
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// ErrProducerBound — у конвейера уже есть Producer (курсор записи принадлежит одному владельцу)
var ErrProducerBound = errors.New("pipeline: producer already bound")

// Config — параметры, фиксируемые при старте
type Config struct {
	BufferLen   int           // N, ёмкость каждого буфера
	MessageLen  int           // ёмкость текста ErrorMessage, байт
	QueueLen    int           // глубина очереди ошибок
	SendTimeout time.Duration // таймаут постановки сообщения в очередь
}

// Validate проверяет, что все размеры положительны
func (c Config) Validate() error {
	var errs []error
	if c.BufferLen <= 0 {
		errs = append(errs, fmt.Errorf("buffer_len must be > 0, got %d", c.BufferLen))
	}
	if c.MessageLen <= 0 {
		errs = append(errs, fmt.Errorf("message_len must be > 0, got %d", c.MessageLen))
	}
	if c.QueueLen <= 0 {
		errs = append(errs, fmt.Errorf("queue_len must be > 0, got %d", c.QueueLen))
	}
	if c.SendTimeout < 0 {
		errs = append(errs, fmt.Errorf("send_timeout must be >= 0, got %v", c.SendTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Pipeline — всё разделяемое состояние конвейера. Создаётся один раз при старте;
// меняется только через методы Producer и Consumer.
type Pipeline struct {
	cfg    Config
	pair   *BufferPair
	gate   *OverrunGate
	ready  *ReadySignal
	result AverageResult
	errs   *ErrorReporter

	producerBound atomic.Bool
	stats         counters
}

type counters struct {
	samples        atomic.Uint64
	droppedTicks   atomic.Uint64
	swaps          atomic.Uint64
	overruns       atomic.Uint64
	averages       atomic.Uint64
	reportsQueued  atomic.Uint64
	reportsDropped atomic.Uint64
}

// Stats — снимок счётчиков конвейера
type Stats struct {
	Samples        uint64 // записанные выборки
	DroppedTicks   uint64 // тики без записи (overrun или полный буфер)
	Swaps          uint64 // смены ролей буферов
	Overruns       uint64 // проходы задачи, заставшие overrun
	Averages       uint64 // опубликованные средние
	ReportsQueued  uint64
	ReportsDropped uint64
	QueueDepth     int
	Permit         int
	Overrun        bool
}

// New создаёт конвейер. Ошибка здесь фатальна для процесса: частично собранный
// конвейер не запускается.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:   cfg,
		pair:  NewBufferPair(cfg.BufferLen),
		gate:  NewOverrunGate(),
		ready: NewReadySignal(),
		errs:  NewErrorReporter(cfg.QueueLen, cfg.MessageLen),
	}, nil
}

// Config возвращает параметры конвейера
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Average возвращает последнее опубликованное среднее
func (p *Pipeline) Average() Reading {
	return p.result.Load()
}

// PollError забирает сообщение об ошибке без ожидания (для дисплея)
func (p *Pipeline) PollError() (ErrorMessage, bool) {
	return p.errs.Poll()
}

// Overrun возвращает текущее значение флага overrun
func (p *Pipeline) Overrun() bool {
	return p.gate.Overrun()
}

// Permit возвращает текущее значение разрешения (0 или 1)
func (p *Pipeline) Permit() int {
	return p.gate.Permit()
}

// Stats возвращает снимок счётчиков; поля читаются по отдельности
func (p *Pipeline) Stats() Stats {
	return Stats{
		Samples:        p.stats.samples.Load(),
		DroppedTicks:   p.stats.droppedTicks.Load(),
		Swaps:          p.stats.swaps.Load(),
		Overruns:       p.stats.overruns.Load(),
		Averages:       p.stats.averages.Load(),
		ReportsQueued:  p.stats.reportsQueued.Load(),
		ReportsDropped: p.stats.reportsDropped.Load(),
		QueueDepth:     p.errs.Len(),
		Permit:         p.gate.Permit(),
		Overrun:        p.gate.Overrun(),
	}
}
