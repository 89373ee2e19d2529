//go:build linux

package source

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

// I2C — АЦП ADS1115 на шине I2C (periph). Регистр преобразования опрашивается
// фоновой горутиной с периодом interval; Read отдаёт последнее значение.
type I2C struct {
	bus      i2c.BusCloser
	dev      *i2c.Dev
	busName  string
	channel  int
	interval time.Duration
	latch    latch
	stop     chan struct{}
	done     chan struct{}

	wr [1]byte
	rd [2]byte
}

// initDrivers регистрирует драйверы хоста periph (sysfs-i2c и др.) и загружает их.
// Повторные вызовы возвращают то же состояние.
func initDrivers() (*driverreg.State, error) {
	return host.Init()
}

// NewI2C открывает шину busName, настраивает ADS1115 по адресу addr и запускает опрос
func NewI2C(busName string, addr uint16, channel int, interval, staleAfter time.Duration) (*I2C, error) {
	cfg, err := ads1115Config(channel)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	if _, err := initDrivers(); err != nil {
		return nil, fmt.Errorf("i2c: periph init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("i2c open %s: %w", busName, err)
	}
	dev := &i2c.Dev{Addr: addr, Bus: bus}
	if err := dev.Tx([]byte{adsRegConfig, byte(cfg >> 8), byte(cfg)}, nil); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("i2c %s@0x%02x: write config: %w", busName, addr, err)
	}
	s := &I2C{
		bus:      bus,
		dev:      dev,
		busName:  busName,
		channel:  channel,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.wr[0] = adsRegConversion
	s.latch.staleAfter = staleAfter
	go s.pollLoop()
	return s, nil
}

// Name возвращает имя источника
func (s *I2C) Name() string {
	return fmt.Sprintf("i2c:%s@0x%02x/ain%d", s.busName, s.dev.Addr, s.channel)
}

// Protocol возвращает протокол
func (s *I2C) Protocol() string {
	return "i2c"
}

// Read возвращает последнее преобразование
func (s *I2C) Read() pipeline.Sample {
	return s.latch.load()
}

// Status возвращает live, пока опрос успешен не реже staleAfter
func (s *I2C) Status() Status {
	return s.latch.status(time.Now())
}

// Close останавливает опрос и закрывает шину
func (s *I2C) Close() error {
	if s.latch.closed.Swap(true) {
		return nil
	}
	close(s.stop)
	<-s.done
	return s.bus.Close()
}

func (s *I2C) pollLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	failing := false
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		if err := s.dev.Tx(s.wr[:], s.rd[:]); err != nil {
			if !failing {
				logger.Warn("%s: %v", s.Name(), err)
				failing = true
			}
			continue
		}
		failing = false
		s.latch.store(ads1115Sample(s.rd), time.Now())
	}
}
