// Package brush reads the bend sensors of the ThermalPaint brush.
//
// The brush firmware prints one line per reading, "right,left\n", at a
// much higher rate than the control loop consumes them.
package brush

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/gwillem/thermalpaint/pkg/paint"
)

// DefaultBaudRate matches the brush firmware.
const DefaultBaudRate = 115200

const (
	readTimeout = time.Second
	maxLine     = 256
)

// Port is the part of a serial port the sensor needs.
type Port interface {
	io.ReadCloser
	ResetInputBuffer() error
}

// Sensor returns the most recent brush reading on each Read.
//
// A Sensor without a port is valid and never has data. Open returns one
// when the serial port cannot be opened.
type Sensor struct {
	port    Port
	buf     []byte
	pending []byte
}

// Open opens the brush serial port.
// On failure it returns a disconnected Sensor together with the error.
func Open(name string, baud int) (*Sensor, error) {
	if name == "" {
		return &Sensor{}, errors.New("open sensor: no port configured")
	}
	if baud <= 0 {
		baud = DefaultBaudRate
	}

	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return &Sensor{}, fmt.Errorf("open sensor port %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return &Sensor{}, fmt.Errorf("set read timeout: %w", err)
	}
	return NewSensor(p), nil
}

// NewSensor wraps an already open port.
func NewSensor(p Port) *Sensor {
	return &Sensor{
		port: p,
		buf:  make([]byte, 64),
	}
}

// Connected reports whether the sensor has a port.
func (s *Sensor) Connected() bool {
	return s.port != nil
}

// Read returns the latest reading.
//
// Buffered lines are stale by the time the loop gets to them, so the input
// buffer is flushed first, the partial line that follows is dropped and
// the next complete line is parsed. It reports false when no line arrives
// within the read timeout or the line is malformed.
func (s *Sensor) Read() (paint.Sample, bool) {
	if s.port == nil {
		return paint.Sample{}, false
	}

	if err := s.port.ResetInputBuffer(); err != nil {
		return paint.Sample{}, false
	}
	s.pending = s.pending[:0]

	if _, ok := s.readLine(); !ok {
		return paint.Sample{}, false
	}
	line, ok := s.readLine()
	if !ok {
		return paint.Sample{}, false
	}
	return ParseLine(line)
}

func (s *Sensor) readLine() (string, bool) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = append(s.pending[:0], s.pending[i+1:]...)
			return line, true
		}
		if len(s.pending) > maxLine {
			// No newline in sight, not our firmware.
			s.pending = s.pending[:0]
			return "", false
		}

		n, err := s.port.Read(s.buf)
		if err != nil || n == 0 {
			return "", false
		}
		s.pending = append(s.pending, s.buf[:n]...)
	}
}

// Close closes the serial port.
func (s *Sensor) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// ParseLine parses a "right,left" reading. Extra fields are ignored.
func ParseLine(line string) (paint.Sample, bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) < 2 {
		return paint.Sample{}, false
	}
	right, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return paint.Sample{}, false
	}
	left, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return paint.Sample{}, false
	}
	return paint.Sample{Right: right, Left: left}, true
}
