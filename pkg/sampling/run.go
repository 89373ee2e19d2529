// Package sampling предоставляет запуск конвейера выборок (прерывание → усреднение → дисплей)
// для встраивания в другие процессы.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/shiwa/timecard-mini/adcsample/internal/config"
	"github.com/shiwa/timecard-mini/adcsample/internal/display"
	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
	"github.com/shiwa/timecard-mini/adcsample/internal/metrics"
	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
	"github.com/shiwa/timecard-mini/adcsample/internal/rtprio"
	"github.com/shiwa/timecard-mini/adcsample/internal/source"
	"github.com/shiwa/timecard-mini/adcsample/internal/sourceselect"
	"github.com/shiwa/timecard-mini/adcsample/internal/timer"
)

// ErrNoSources — ни один источник не открылся
var ErrNoSources = errors.New("sampling: no usable sources")

// Config — конфиг конвейера (sampler, errors, display, sources ...), доступный вне модуля
type Config = config.Config

// DefaultConfig возвращает конфиг по умолчанию
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig читает конфиг из YAML
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// RunDaemon запускает конвейер до отмены ctx; дисплей пишет в stdout.
func RunDaemon(ctx context.Context, cfg *Config, quiet bool) error {
	if cfg == nil {
		return errors.New("sampling: nil config")
	}
	logger.Quiet = quiet
	return run(ctx, cfg, os.Stdout)
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	primary := openSources("primary", cfg.Sources.Primary)
	secondary := openSources("secondary", cfg.Sources.Secondary)
	if len(primary) == 0 && len(secondary) == 0 {
		return ErrNoSources
	}
	election := sourceselect.NewElection(primary, secondary)
	defer func() {
		if err := election.Close(); err != nil {
			logger.Warn("close sources: %v", err)
		}
	}()

	p, err := pipeline.New(PipelineConfig(cfg))
	if err != nil {
		return err
	}
	producer, err := p.NewProducer(election)
	if err != nil {
		return err
	}
	tick, err := timer.NewPeriodic(cfg.Period(), timer.WithPriority(cfg.Realtime.Priority))
	if err != nil {
		return err
	}
	tick.Attach(producer.OnTick)

	if cfg.Realtime.LockMemory {
		if err := rtprio.LockMemory(); err != nil {
			logger.Warn("realtime: %v", err)
		}
	}

	consumer := p.NewConsumer(pipeline.WithWorkload(cfg.Workload()))
	console := display.NewConsole(out, cfg.DisplayInterval(), p)

	logger.Info("sampling: primary=%d secondary=%d period=%v buffer_len=%d fill=%v",
		len(primary), len(secondary), cfg.Period(), cfg.Sampler.BufferLen, cfg.FillInterval())

	var exp *metrics.Exporter
	if cfg.Metrics.Listen != "" {
		if exp, err = metrics.NewExporter(p); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tick.Run(gctx) })
	g.Go(func() error { return consumer.Run(gctx) })
	g.Go(func() error { return console.Run(gctx) })
	if exp != nil {
		g.Go(func() error { return exp.Serve(gctx, cfg.Metrics.Listen) })
	}

	err = g.Wait()
	st := p.Stats()
	logger.Info("sampling: stopped samples=%d swaps=%d overruns=%d dropped_reports=%d",
		st.Samples, st.Swaps, st.Overruns, st.ReportsDropped)
	return err
}

// PipelineConfig переводит конфиг файла в параметры конвейера
func PipelineConfig(cfg *config.Config) pipeline.Config {
	return pipeline.Config{
		BufferLen:   cfg.Sampler.BufferLen,
		MessageLen:  cfg.Errors.MessageLen,
		QueueLen:    cfg.Errors.QueueLen,
		SendTimeout: cfg.SendTimeout(),
	}
}

func openSources(role string, list []config.SourceConfig) []source.Source {
	var out []source.Source
	for _, c := range list {
		if c.Disable {
			continue
		}
		s, err := source.NewFromConfig(c)
		if err != nil {
			logger.Error("%s %s: %v", role, c.Protocol, err)
			continue
		}
		out = append(out, s)
	}
	return out
}
