// Package logger — единый вывод логов adc-sample через slog с учётом quiet.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Quiet при true отключает информационные сообщения (Info, Debug); Warn и Error выводятся всегда.
var Quiet bool

var (
	level = new(slog.LevelVar)
	base  atomic.Pointer[slog.Logger]
)

func init() {
	SetOutput(os.Stderr)
}

// SetOutput направляет логи в w (текстовый формат slog)
func SetOutput(w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	base.Store(slog.New(h).With("app", "adc-sample"))
}

// SetDebug включает или выключает вывод Debug
func SetDebug(on bool) {
	if on {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

// Debug выводит отладочное сообщение, если Quiet == false и включён SetDebug.
func Debug(format string, args ...interface{}) {
	if Quiet {
		return
	}
	base.Load().Debug(fmt.Sprintf(format, args...))
}

// Info выводит сообщение, если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	base.Load().Info(fmt.Sprintf(format, args...))
}

// Warn выводит предупреждение всегда.
func Warn(format string, args ...interface{}) {
	base.Load().Warn(fmt.Sprintf(format, args...))
}

// Error выводит сообщение об ошибке всегда.
func Error(format string, args ...interface{}) {
	base.Load().Error(fmt.Sprintf(format, args...))
}
