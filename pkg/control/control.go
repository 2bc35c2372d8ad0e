// Package control runs the ThermalPaint loop: read the brush, pick the
// color under the active side, and drive the blinds.
package control

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/gwillem/thermalpaint/pkg/paint"
)

// DefaultHz is the default loop frequency.
const DefaultHz = 30

// Sensor reports the latest brush reading, or false when none is available.
type Sensor interface {
	Read() (paint.Sample, bool)
}

// Frames is a frame source. Read captures a new frame; At samples the last
// captured one.
type Frames interface {
	Read() bool
	At(x, y int) paint.Color
	Width() int
	Height() int
}

// Actuator moves the blinds.
type Actuator interface {
	SetAngle(ctx context.Context, angle float64) error
}

// Marker is told about every completed cycle, e.g. to draw a preview. It
// returns true to stop the loop.
type Marker interface {
	Mark(c Cycle) bool
}

// Cycle is the outcome of one loop iteration that actuated the blinds.
type Cycle struct {
	State     paint.State
	Sample    paint.Sample
	Point     image.Point // color-picking position, zero when idle
	Color     paint.Color // sampled color, zero when idle
	Angle     float64
	Timestamp time.Time
	Error     error // actuation error, the loop carries on regardless
}

// Config holds the collaborators and settings of a Controller. The
// controller owns the collaborators: Close closes those that implement
// io.Closer.
type Config struct {
	Parameters paint.Parameters
	Thresholds paint.Thresholds
	Sensor     Sensor
	Frames     Frames
	Blinds     Actuator
	Marker     Marker // optional
	Hz         int
}

// Controller manages the paint control loop.
type Controller struct {
	params     paint.Parameters
	thresholds paint.Thresholds
	sensor     Sensor
	frames     Frames
	blinds     Actuator
	marker     Marker
	hz         int

	mu        sync.Mutex
	running   bool
	lastState paint.State
	cycleCh   chan Cycle
	logCh     chan string
}

// NewController creates a controller. The parameters are copied and never
// change while the controller lives.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Sensor == nil || cfg.Frames == nil || cfg.Blinds == nil {
		return nil, fmt.Errorf("controller needs a sensor, a frame source and blinds")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = DefaultHz
	}

	return &Controller{
		params:     cfg.Parameters,
		thresholds: cfg.Thresholds,
		sensor:     cfg.Sensor,
		frames:     cfg.Frames,
		blinds:     cfg.Blinds,
		marker:     cfg.Marker,
		hz:         cfg.Hz,
		cycleCh:    make(chan Cycle, 1),
		logCh:      make(chan string, 10),
	}, nil
}

// Cycles returns a channel that receives the latest cycle.
func (c *Controller) Cycles() <-chan Cycle {
	return c.cycleCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// Parameters returns the calibration in use.
func (c *Controller) Parameters() paint.Parameters {
	return c.params
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the control loop until ctx is done or the marker asks to
// stop. It returns ctx.Err() on cancellation and nil on a marker stop.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.log("Painting started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log("Painting stopped")
			return ctx.Err()
		case <-ticker.C:
			cycle, ok := c.Step(ctx)
			if !ok {
				continue
			}
			if c.marker != nil && c.marker.Mark(cycle) {
				c.log("Painting stopped")
				return nil
			}
		}
	}
}

// Step runs one iteration. It reports false when there was no sensor
// reading or no frame; the blinds are left untouched in that case.
func (c *Controller) Step(ctx context.Context) (Cycle, bool) {
	sample, ok := c.sensor.Read()
	if !ok {
		return Cycle{}, false
	}
	if !c.frames.Read() {
		return Cycle{}, false
	}

	cycle := Cycle{
		State:  paint.Classify(sample, c.params, c.thresholds),
		Sample: sample,
		Angle:  paint.ClosedAngle,
	}

	if side, painting := cycle.State.Side(); painting {
		cycle.Point = c.params.Project(side, sample.Value(side), c.frames.Width(), c.frames.Height())
		cycle.Color = c.frames.At(cycle.Point.X, cycle.Point.Y)
		cycle.Angle = cycle.Color.Angle()
	}

	// Idle drives the fins closed on every tick, not only on the
	// transition, so a missed command is corrected on the next one.
	if err := c.blinds.SetAngle(ctx, cycle.Angle); err != nil {
		cycle.Error = err
		c.log("Blinds error: %v", err)
	}
	cycle.Timestamp = time.Now()

	if cycle.State != c.lastState {
		c.log("State: %s", cycle.State)
		c.lastState = cycle.State
	}

	c.sendCycle(cycle)
	return cycle, true
}

func (c *Controller) sendCycle(s Cycle) {
	select {
	case c.cycleCh <- s:
	default:
		// Drop old cycle if channel full, replace with new
		select {
		case <-c.cycleCh:
		default:
		}
		c.cycleCh <- s
	}
}

// Close releases the collaborators and returns the first errors met.
func (c *Controller) Close() error {
	var errs []error
	for _, v := range []any{c.marker, c.frames, c.sensor, c.blinds} {
		if closer, ok := v.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
