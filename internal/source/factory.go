package source

import (
	"fmt"
	"time"

	"github.com/shiwa/timecard-mini/adcsample/internal/config"
)

// Таймаут, после которого источник без новых данных считается stale
const defaultStaleAfter = time.Second

// NewFromConfig создаёт Source из конфига (sources.primary / sources.secondary)
func NewFromConfig(c config.SourceConfig) (Source, error) {
	if c.Disable {
		return nil, fmt.Errorf("source disabled")
	}
	staleAfter := config.ParseDuration(c.StaleAfter, defaultStaleAfter)
	switch c.Protocol {
	case "sim":
		s, err := NewSim(c.Shape, c.Base, c.Amplitude, c.PeriodTicks)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "serial":
		dev := c.Device
		if dev == "" {
			dev = "/dev/ttyUSB0"
		}
		s, err := NewSerial(dev, c.Baud, staleAfter)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "i2c":
		bus := c.Bus
		if bus == "" {
			bus = "1"
		}
		addr := c.Addr
		if addr == 0 {
			addr = 0x48
		}
		interval := config.ParseDuration(c.PollInterval, 10*time.Millisecond)
		s, err := NewI2C(bus, uint16(addr), c.Channel, interval, staleAfter)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, c.Protocol)
	}
}
