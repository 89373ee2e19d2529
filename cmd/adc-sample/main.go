// adc-sample — конвейер выборок АЦП с двойной буферизацией.
//
// Прерывание таймера складывает выборки в один из двух буферов; заполненный буфер
// передаётся задаче усреднения. Если задача не успевает, выставляется overrun,
// выборки теряются, а на дисплей уходит сообщение об ошибке.
//
// Использование:
//
//	adc-sample -config adc-sample.yml   — запуск до SIGINT/SIGTERM
//	adc-sample -check -config adc-sample.yml — проверить конфиг и выйти
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiwa/timecard-mini/adcsample/internal/config"
	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
	"github.com/shiwa/timecard-mini/adcsample/pkg/sampling"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигу (по умолчанию adc-sample.yml)")
	periodMs := flag.Int("period-ms", 0, "период прерывания в мс (переопределяет config)")
	bufferLen := flag.Int("buffer-len", 0, "ёмкость буфера в выборках (переопределяет config)")
	workloadMs := flag.Int("workload-ms", -1, "искусственная задержка усреднения в мс (переопределяет config)")
	metricsAddr := flag.String("metrics", "", "адрес /metrics, например :9100 (переопределяет config)")
	check := flag.Bool("check", false, "проверить конфиг и выйти")
	debug := flag.Bool("debug", false, "отладочный вывод")
	quiet := flag.Bool("quiet", false, "меньше вывода")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if *periodMs > 0 {
		cfg.Sampler.PeriodMs = *periodMs
	}
	if *bufferLen > 0 {
		cfg.Sampler.BufferLen = *bufferLen
	}
	if *workloadMs >= 0 {
		cfg.Consumer.WorkloadMs = *workloadMs
	}
	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	if *check {
		if !*quiet {
			fmt.Printf("config ok: period %v, buffer %d, fill %v\n",
				cfg.Period(), cfg.Sampler.BufferLen, cfg.FillInterval())
		}
		return
	}

	logger.Quiet = *quiet
	logger.SetDebug(*debug)
	runWithShutdown(cfg, *quiet)
}

func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = "adc-sample.yml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return nil, nil
	}
	return config.Load(path)
}

// runWithShutdown запускает конвейер; по SIGINT/SIGTERM контекст отменяется,
// таймер и источники останавливаются.
func runWithShutdown(cfg *config.Config, quiet bool) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := sampling.RunDaemon(ctx, cfg, quiet)
	if err == nil || errors.Is(err, context.Canceled) {
		logger.Info("завершение")
		return
	}
	cancel()
	log.Fatalf("adc-sample: %v", err)
}
