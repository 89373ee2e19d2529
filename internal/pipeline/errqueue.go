package pipeline

import (
	"time"
	"unicode/utf8"
)

// OverrunText — текст сообщения о переполнении
const OverrunText = "Error: Buffer overrun. Samples have been dropped."

// ErrorMessage — короткий текст ограниченной длины и номер события
type ErrorMessage struct {
	Text  string
	Count uint64
}

// ErrorReporter — ограниченная FIFO очередь сообщений об ошибках от задачи к дисплею.
// Постановка с коротким таймаутом, при переполнении сообщение теряется.
type ErrorReporter struct {
	ch      chan ErrorMessage
	textCap int
}

// NewErrorReporter создаёт очередь глубины depth; текст обрезается до textCap байт
func NewErrorReporter(depth, textCap int) *ErrorReporter {
	return &ErrorReporter{
		ch:      make(chan ErrorMessage, depth),
		textCap: textCap,
	}
}

// Report ставит сообщение в очередь, ожидая не дольше timeout.
// false — очередь полна, сообщение отброшено без повтора.
func (r *ErrorReporter) Report(text string, count uint64, timeout time.Duration) bool {
	msg := ErrorMessage{Text: truncateText(text, r.textCap), Count: count}
	select {
	case r.ch <- msg:
		return true
	default:
	}
	if timeout <= 0 {
		return false
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case r.ch <- msg:
		return true
	case <-t.C:
		return false
	}
}

// Poll забирает сообщение без ожидания
func (r *ErrorReporter) Poll() (ErrorMessage, bool) {
	select {
	case msg := <-r.ch:
		return msg, true
	default:
		return ErrorMessage{}, false
	}
}

// Len возвращает число сообщений в очереди
func (r *ErrorReporter) Len() int {
	return len(r.ch)
}

// Cap возвращает глубину очереди
func (r *ErrorReporter) Cap() int {
	return cap(r.ch)
}

// truncateText обрезает s до max байт, не разрывая UTF-8 символ
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
