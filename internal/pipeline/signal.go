package pipeline

import "context"

// ReadySignal — одноместное уведомление от прерывания к задаче.
// Raise не блокирует; повторные Raise до приёма сливаются в одно.
type ReadySignal struct {
	ch chan struct{}
}

// NewReadySignal создаёт сигнал без ожидающего уведомления
func NewReadySignal() *ReadySignal {
	return &ReadySignal{ch: make(chan struct{}, 1)}
}

// Raise выставляет уведомление. Возвращает true, если уведомление стало ожидающим
// (false — уже было ожидающее, сигнал слит).
func (s *ReadySignal) Raise() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Wait блокирует до уведомления или отмены ctx
func (s *ReadySignal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending возвращает true, если есть непринятое уведомление
func (s *ReadySignal) Pending() bool {
	return len(s.ch) > 0
}
