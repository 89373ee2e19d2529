//go:build !linux

// Package rtprio — приоритет реального времени для потока прерывания и блокировка памяти.
package rtprio

// Raise — заглушка на не-Linux (приоритет не меняется).
func Raise(prio int) error {
	return nil
}

// Current — заглушка на не-Linux.
func Current() (policy uint32, prio uint32, err error) {
	return 0, 0, nil
}

// LockMemory — заглушка на не-Linux.
func LockMemory() error {
	return nil
}
