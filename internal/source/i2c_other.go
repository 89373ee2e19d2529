//go:build !linux

package source

import (
	"fmt"
	"time"
)

// NewI2C — I2C АЦП поддерживается только на Linux
func NewI2C(busName string, addr uint16, channel int, interval, staleAfter time.Duration) (Source, error) {
	return nil, fmt.Errorf("i2c %s: %w", busName, ErrUnsupported)
}
