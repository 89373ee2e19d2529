//go:build linux

// Package rtprio — приоритет реального времени для потока прерывания и блокировка памяти.
package rtprio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Raise переводит текущий поток ОС в SCHED_FIFO с приоритетом prio (1..99).
// Вызывать после runtime.LockOSThread. Требует CAP_SYS_NICE или root.
func Raise(prio int) error {
	if prio < 1 || prio > 99 {
		return fmt.Errorf("rtprio: priority %d out of range 1..99", prio)
	}
	attr := &unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(prio),
	}
	if err := unix.SchedSetAttr(0, attr, 0); err != nil {
		return fmt.Errorf("rtprio: sched_setattr: %w", err)
	}
	return nil
}

// Current возвращает политику и приоритет текущего потока
func Current() (policy uint32, prio uint32, err error) {
	attr, err := unix.SchedGetAttr(0, 0)
	if err != nil {
		return 0, 0, err
	}
	return attr.Policy, attr.Priority, nil
}

// LockMemory фиксирует страницы процесса в RAM (mlockall), чтобы тик не ждал подкачки.
// Требует CAP_IPC_LOCK или достаточный RLIMIT_MEMLOCK.
func LockMemory() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("rtprio: mlockall: %w", err)
	}
	return nil
}
