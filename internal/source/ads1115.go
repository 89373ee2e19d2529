package source

import (
	"encoding/binary"
	"fmt"

	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

// Регистры и поля ADS1115 (TI SBAS444)
const (
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsConfigOS       = 1 << 15 // запуск преобразования
	adsConfigMuxBase  = 0x4     // AINx относительно GND: MUX = 100 + x
	adsConfigMuxShift = 12
	adsConfigPGA4096  = 0x1 << 9 // ±4.096 V
	adsConfigDR128    = 0x4 << 5 // 128 SPS
	adsConfigNoComp   = 0x3      // компаратор выключен
)

// ads1115Config возвращает слово конфигурации: непрерывное преобразование,
// однополярный вход channel (0..3), ±4.096 V, 128 SPS
func ads1115Config(channel int) (uint16, error) {
	if channel < 0 || channel > 3 {
		return 0, fmt.Errorf("ads1115: channel %d out of range 0..3", channel)
	}
	mux := uint16(adsConfigMuxBase+channel) << adsConfigMuxShift
	return adsConfigOS | mux | adsConfigPGA4096 | adsConfigDR128 | adsConfigNoComp, nil
}

// ads1115Sample переводит регистр преобразования (big-endian, со знаком) в выборку.
// Отрицательные значения однополярного входа — шум около нуля, обрезаются до 0.
func ads1115Sample(raw [2]byte) pipeline.Sample {
	v := int16(binary.BigEndian.Uint16(raw[:]))
	if v < 0 {
		return 0
	}
	return pipeline.Sample(v)
}
