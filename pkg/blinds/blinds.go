// Package blinds drives the ThermoBlinds fin servo.
package blinds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// DefaultBaudRate is the factory baud rate of STS servos.
const DefaultBaudRate = 1_000_000

// ErrDisconnected is returned by Angle when no servo bus is open.
var ErrDisconnected = errors.New("blinds not connected")

// Blinds is the fin servo of the ThermoBlinds.
//
// A Blinds value without a bus is valid: SetAngle does nothing and Close
// succeeds. Open returns one when the servo cannot be reached so the
// control loop keeps running.
type Blinds struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration
}

// Open connects to the servo on port and enables its torque.
// On failure it returns disconnected Blinds together with the error.
func Open(ctx context.Context, port string, baud int, cal Calibration) (*Blinds, error) {
	b := &Blinds{calibration: cal}
	if port == "" {
		return b, fmt.Errorf("open blinds: no port configured")
	}
	if baud <= 0 {
		baud = DefaultBaudRate
	}

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baud,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return b, fmt.Errorf("open bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, cal.ID)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return b, fmt.Errorf("enable torque: %w", err)
	}

	b.bus = bus
	b.group = group
	return b, nil
}

// Connected reports whether a servo bus is open.
func (b *Blinds) Connected() bool {
	return b.group != nil
}

// SetAngle moves the fins to angle degrees.
func (b *Blinds) SetAngle(ctx context.Context, angle float64) error {
	if b.group == nil {
		return nil
	}
	raw := feetech.PositionMap{b.calibration.ID: b.calibration.Denormalize(angle)}
	if err := b.group.SetPositions(ctx, raw); err != nil {
		return fmt.Errorf("set angle %.1f: %w", angle, err)
	}
	return nil
}

// Angle reads back the current fin angle.
func (b *Blinds) Angle(ctx context.Context) (float64, error) {
	if b.group == nil {
		return 0, ErrDisconnected
	}
	positions, err := b.group.Positions(ctx)
	if err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}
	raw, ok := positions[b.calibration.ID]
	if !ok {
		return 0, fmt.Errorf("read position: servo %d did not answer", b.calibration.ID)
	}
	return b.calibration.Normalize(raw), nil
}

// Close releases the servo bus. Torque stays enabled so the fins hold
// their last position.
func (b *Blinds) Close() error {
	if b.bus == nil {
		return nil
	}
	err := b.bus.Close()
	b.bus = nil
	b.group = nil
	return err
}
