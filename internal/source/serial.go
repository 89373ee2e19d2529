package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tarm/serial"

	"github.com/shiwa/timecard-mini/adcsample/internal/logger"
	"github.com/shiwa/timecard-mini/adcsample/internal/pipeline"
)

// Таймаут одного чтения порта; ограничивает время выхода фоновой горутины при Close
const serialReadTimeout = 500 * time.Millisecond

// Serial — источник выборок с последовательного порта: АЦП-мост шлёт по строке на отсчёт
// ("1234", "A0:1234" или "adc=1234"). Порт читает фоновая горутина, Read отдаёт
// последнее значение без ожидания.
type Serial struct {
	port   *serial.Port
	device string
	baud   int
	latch  latch
	done   chan struct{}
}

// NewSerial открывает порт и запускает чтение строк.
// staleAfter — через сколько без новых строк источник считается stale (0 — никогда).
func NewSerial(device string, baud int, staleAfter time.Duration) (*Serial, error) {
	if baud == 0 {
		baud = 115200
	}
	c := &serial.Config{Name: device, Baud: baud, ReadTimeout: serialReadTimeout}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", device, err)
	}
	s := &Serial{
		port:   port,
		device: device,
		baud:   baud,
		done:   make(chan struct{}),
	}
	s.latch.staleAfter = staleAfter
	go s.readLoop()
	return s, nil
}

// Name возвращает имя источника
func (s *Serial) Name() string {
	return fmt.Sprintf("serial:%s", s.device)
}

// Protocol возвращает протокол
func (s *Serial) Protocol() string {
	return "serial"
}

// Read возвращает последнюю принятую выборку
func (s *Serial) Read() pipeline.Sample {
	return s.latch.load()
}

// Status возвращает live, пока строки приходят не реже staleAfter
func (s *Serial) Status() Status {
	return s.latch.status(time.Now())
}

// Close останавливает чтение и закрывает порт
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	s.latch.closed.Store(true)
	err := s.port.Close()
	<-s.done
	return err
}

func (s *Serial) readLoop() {
	defer close(s.done)
	store := func(v pipeline.Sample) { s.latch.store(v, time.Now()) }
	err := readSamples(s.port, store, s.latch.closed.Load)
	if err != nil && !s.latch.closed.Load() {
		logger.Warn("%s: %v", s.Name(), err)
	}
}

// readSamples читает строки из r и передаёт разобранные выборки в store.
// io.EOF и io.ErrNoProgress (таймаут чтения порта) не считаются ошибкой; выход — по stop() или другой ошибке.
func readSamples(r io.Reader, store func(pipeline.Sample), stop func() bool) error {
	rd := bufio.NewReader(r)
	var pending strings.Builder
	for !stop() {
		chunk, err := rd.ReadString('\n')
		pending.WriteString(chunk)
		if err == nil {
			if v, ok := parseSampleLine(pending.String()); ok {
				store(v)
			}
			pending.Reset()
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrNoProgress) {
			continue
		}
		return err
	}
	return nil
}

// parseSampleLine разбирает строку вида "1234", "A0:1234" или "adc=1234"
func parseSampleLine(line string) (pipeline.Sample, bool) {
	line = strings.TrimSpace(line)
	if i := strings.LastIndexAny(line, ":="); i >= 0 {
		line = strings.TrimSpace(line[i+1:])
	}
	if line == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(line, 10, 16)
	if err != nil {
		return 0, false
	}
	return pipeline.Sample(v), true
}
