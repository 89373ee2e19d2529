package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — конфигурация adc-sample: конвейер, очередь ошибок, дисплей, источники выборок
type Config struct {
	Sampler  SamplerConfig  `yaml:"sampler"`
	Consumer ConsumerConfig `yaml:"consumer"`
	Errors   ErrorsConfig   `yaml:"errors"`
	Display  DisplayConfig  `yaml:"display"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Sources  SourcesConfig  `yaml:"sources"`
}

// SamplerConfig — период прерывания и ёмкость буферов
type SamplerConfig struct {
	PeriodMs  int `yaml:"period_ms"`
	BufferLen int `yaml:"buffer_len"`
}

// ConsumerConfig — задача усреднения.
// WorkloadMs — искусственная задержка обработки буфера (проверка overrun на стенде).
type ConsumerConfig struct {
	WorkloadMs int `yaml:"workload_ms"`
}

// ErrorsConfig — очередь сообщений об ошибках.
// SendTimeoutMs: nil — ключ не задан (10 мс), 0 — постановка без ожидания.
type ErrorsConfig struct {
	MessageLen    int  `yaml:"message_len"`
	QueueLen      int  `yaml:"queue_len"`
	SendTimeoutMs *int `yaml:"send_timeout_ms"`
}

// Таймаут постановки в очередь ошибок, если send_timeout_ms не задан
const defaultSendTimeoutMs = 10

// DisplayConfig — период вывода среднего и ошибок
type DisplayConfig struct {
	Interval string `yaml:"interval"`
}

// RealtimeConfig — приоритет потока прерывания (0 — не менять) и mlockall
type RealtimeConfig struct {
	Priority   int  `yaml:"priority"`
	LockMemory bool `yaml:"lock_memory"`
}

// MetricsConfig — адрес для /metrics (prometheus); пусто — не запускать
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// SourcesConfig — источники выборок: сначала primary, при недоступности — secondary
type SourcesConfig struct {
	Primary   []SourceConfig `yaml:"primary"`
	Secondary []SourceConfig `yaml:"secondary"`
}

// SourceConfig — один источник выборок (protocol: sim, serial, i2c)
type SourceConfig struct {
	Protocol string `yaml:"protocol"`
	Disable  bool   `yaml:"disable"`

	// sim
	Shape       string  `yaml:"shape"` // constant, ramp, sine, square
	Base        float64 `yaml:"base"`
	Amplitude   float64 `yaml:"amplitude"`
	PeriodTicks int     `yaml:"period_ticks"`
	// serial: строки с числом на каждой
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	// i2c (ADS1115)
	Bus     string `yaml:"bus"`
	Addr    int    `yaml:"addr"`
	Channel int    `yaml:"channel"`
	// serial, i2c
	PollInterval string `yaml:"pollinterval"`
	StaleAfter   string `yaml:"stale_after"`
}

// Default возвращает конфиг по умолчанию (10 выборок по 100 мс, очередь на 5 сообщений)
func Default() *Config {
	return &Config{
		Sampler: SamplerConfig{
			PeriodMs:  100,
			BufferLen: 10,
		},
		Errors: ErrorsConfig{
			MessageLen:    100,
			QueueLen:      5,
			SendTimeoutMs: intPtr(defaultSendTimeoutMs),
		},
		Display: DisplayConfig{
			Interval: "1s",
		},
		Sources: SourcesConfig{
			Primary: []SourceConfig{{
				Protocol:    "sim",
				Shape:       "sine",
				Base:        2048,
				Amplitude:   1024,
				PeriodTicks: 50,
			}},
		},
	}
}

// Load читает конфиг из YAML
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

// Validate проверяет значения, без которых конвейер не собрать
func (c *Config) Validate() error {
	var errs []error
	if c.Sampler.PeriodMs <= 0 {
		errs = append(errs, fmt.Errorf("sampler.period_ms must be > 0, got %d", c.Sampler.PeriodMs))
	}
	if c.Sampler.BufferLen <= 0 {
		errs = append(errs, fmt.Errorf("sampler.buffer_len must be > 0, got %d", c.Sampler.BufferLen))
	}
	if c.Errors.MessageLen <= 0 {
		errs = append(errs, fmt.Errorf("errors.message_len must be > 0, got %d", c.Errors.MessageLen))
	}
	if c.Errors.QueueLen <= 0 {
		errs = append(errs, fmt.Errorf("errors.queue_len must be > 0, got %d", c.Errors.QueueLen))
	}
	if c.Consumer.WorkloadMs < 0 || (c.Errors.SendTimeoutMs != nil && *c.Errors.SendTimeoutMs < 0) {
		errs = append(errs, errors.New("consumer.workload_ms and errors.send_timeout_ms must be >= 0"))
	}
	if c.Realtime.Priority < 0 || c.Realtime.Priority > 99 {
		errs = append(errs, fmt.Errorf("realtime.priority must be 0..99, got %d", c.Realtime.Priority))
	}
	if _, err := time.ParseDuration(c.Display.Interval); err != nil {
		errs = append(errs, fmt.Errorf("display.interval: %w", err))
	}
	enabled := 0
	for _, s := range append(append([]SourceConfig{}, c.Sources.Primary...), c.Sources.Secondary...) {
		if !s.Disable {
			enabled++
		}
	}
	if enabled == 0 {
		errs = append(errs, errors.New("sources: at least one enabled source required"))
	}
	return errors.Join(errs...)
}

// Period возвращает период прерывания P
func (c *Config) Period() time.Duration {
	return time.Duration(c.Sampler.PeriodMs) * time.Millisecond
}

// FillInterval возвращает время заполнения одного буфера P×N
func (c *Config) FillInterval() time.Duration {
	return c.Period() * time.Duration(c.Sampler.BufferLen)
}

// SendTimeout возвращает таймаут постановки сообщения в очередь ошибок
func (c *Config) SendTimeout() time.Duration {
	ms := defaultSendTimeoutMs
	if c.Errors.SendTimeoutMs != nil {
		ms = *c.Errors.SendTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// Workload возвращает искусственную задержку обработки буфера
func (c *Config) Workload() time.Duration {
	return time.Duration(c.Consumer.WorkloadMs) * time.Millisecond
}

// DisplayInterval возвращает период дисплея (1s при пустом или неверном значении)
func (c *Config) DisplayInterval() time.Duration {
	return ParseDuration(c.Display.Interval, time.Second)
}

// ParseDuration парсит строку длительности; пустая строка или ошибка — defaultVal
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func intPtr(v int) *int {
	return &v
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Sampler.PeriodMs == 0 {
		c.Sampler.PeriodMs = d.Sampler.PeriodMs
	}
	if c.Sampler.BufferLen == 0 {
		c.Sampler.BufferLen = d.Sampler.BufferLen
	}
	if c.Errors.MessageLen == 0 {
		c.Errors.MessageLen = d.Errors.MessageLen
	}
	if c.Errors.QueueLen == 0 {
		c.Errors.QueueLen = d.Errors.QueueLen
	}
	if c.Errors.SendTimeoutMs == nil {
		c.Errors.SendTimeoutMs = d.Errors.SendTimeoutMs
	}
	if c.Display.Interval == "" {
		c.Display.Interval = d.Display.Interval
	}
	if len(c.Sources.Primary) == 0 && len(c.Sources.Secondary) == 0 {
		c.Sources.Primary = d.Sources.Primary
	}
	for i := range c.Sources.Primary {
		applySourceDefaults(&c.Sources.Primary[i])
	}
	for i := range c.Sources.Secondary {
		applySourceDefaults(&c.Sources.Secondary[i])
	}
}

func applySourceDefaults(s *SourceConfig) {
	switch s.Protocol {
	case "serial":
		if s.Device == "" {
			s.Device = "/dev/ttyUSB0"
		}
		if s.Baud == 0 {
			s.Baud = 115200
		}
	case "i2c":
		if s.Bus == "" {
			s.Bus = "1"
		}
		if s.Addr == 0 {
			s.Addr = 0x48
		}
	case "sim":
		if s.Shape == "" {
			s.Shape = "constant"
		}
	}
}
