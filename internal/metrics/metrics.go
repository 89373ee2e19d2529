// Package metrics — экспорт счётчиков конвейера в Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

const (
	namespace = "adcsample"
	subsystem = "pipeline"
)

// StatsSource — откуда берутся значения (pipeline.Pipeline)
type StatsSource interface {
	Stats() pipeline.Stats
	Average() pipeline.Reading
}

// Exporter держит собственный реестр; значения читаются из StatsSource при каждом сборе.
type Exporter struct {
	reg *prometheus.Registry
}

// NewExporter регистрирует метрики конвейера
func NewExporter(src StatsSource) (*Exporter, error) {
	reg := prometheus.NewRegistry()
	counter := func(name, help string, get func(pipeline.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(get(src.Stats())) })
	}
	gauge := func(name, help string, get func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, get)
	}

	collectors := []prometheus.Collector{
		counter("samples_total", "Samples written by the interrupt handler",
			func(s pipeline.Stats) uint64 { return s.Samples }),
		counter("dropped_ticks_total", "Ticks that stored no sample",
			func(s pipeline.Stats) uint64 { return s.DroppedTicks }),
		counter("swaps_total", "Buffer role swaps",
			func(s pipeline.Stats) uint64 { return s.Swaps }),
		counter("overruns_total", "Consumer passes that observed an overrun",
			func(s pipeline.Stats) uint64 { return s.Overruns }),
		counter("averages_total", "Published averages",
			func(s pipeline.Stats) uint64 { return s.Averages }),
		counter("error_reports_total", "Error messages queued for the display",
			func(s pipeline.Stats) uint64 { return s.ReportsQueued }),
		counter("error_reports_dropped_total", "Error messages dropped on send timeout",
			func(s pipeline.Stats) uint64 { return s.ReportsDropped }),
		gauge("error_queue_depth", "Messages waiting in the error queue",
			func() float64 { return float64(src.Stats().QueueDepth) }),
		gauge("overrun", "Overrun flag (1 while set)",
			func() float64 {
				if src.Stats().Overrun {
					return 1
				}
				return 0
			}),
		gauge("average", "Latest published average",
			func() float64 { return src.Average().Value }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return &Exporter{reg: reg}, nil
}

// Registry возвращает реестр (для тестов и встраивания)
func (e *Exporter) Registry() *prometheus.Registry {
	return e.reg
}

// Handler возвращает HTTP обработчик /metrics
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve слушает addr до отмены ctx
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server %s: %w", addr, err)
	}
	return ctx.Err()
}
