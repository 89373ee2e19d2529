package pipeline

import (
	"sync"
	"time"
)

// Reading — одна публикация среднего
type Reading struct {
	Value float64
	Seq   uint64 // номер публикации, 0 — ещё не было
	At    time.Time
}

// AverageResult — последнее опубликованное среднее.
// Запись и чтение под коротким мьютексом: читатель всегда видит целую публикацию.
type AverageResult struct {
	mu sync.Mutex
	r  Reading
}

// Publish записывает новое среднее и возвращает получившуюся публикацию
func (a *AverageResult) Publish(v float64, at time.Time) Reading {
	a.mu.Lock()
	a.r = Reading{Value: v, Seq: a.r.Seq + 1, At: at}
	r := a.r
	a.mu.Unlock()
	return r
}

// Load возвращает последнюю публикацию
func (a *AverageResult) Load() Reading {
	a.mu.Lock()
	r := a.r
	a.mu.Unlock()
	return r
}
