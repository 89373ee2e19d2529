// Package display — текстовый вывод среднего и сообщений об ошибках.
package display

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

// Feed — то, что дисплей читает из конвейера
type Feed interface {
	Average() pipeline.Reading
	PollError() (pipeline.ErrorMessage, bool)
}

// Console раз в interval забирает одно сообщение об ошибке и печатает текущее среднее.
type Console struct {
	mu       sync.Mutex // защищает out между Refresh
	out      io.Writer
	interval time.Duration
	feed     Feed
}

// NewConsole создаёт дисплей; interval <= 0 — 1 с
func NewConsole(out io.Writer, interval time.Duration, feed Feed) *Console {
	if interval <= 0 {
		interval = time.Second
	}
	return &Console{out: out, interval: interval, feed: feed}
}

// Interval возвращает период обновления
func (c *Console) Interval() time.Duration {
	return c.interval
}

// Run обновляет вывод до отмены ctx
func (c *Console) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := c.Refresh(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}

// Refresh выполняет один шаг: сообщение об ошибке (если есть), затем среднее.
func (c *Console) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg, ok := c.feed.PollError(); ok {
		if _, err := fmt.Fprintf(c.out, "%s (x%d)\n", msg.Text, msg.Count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(c.out, "Average: %.2f\n", c.feed.Average().Value)
	return err
}
