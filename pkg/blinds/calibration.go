package blinds

import "math"

// StepsPerRevolution is the encoder resolution of STS servos.
const StepsPerRevolution = 4096

// Calibration maps fin angles to raw servo positions.
type Calibration struct {
	ID           int `json:"id"`
	DriveMode    int `json:"drive_mode"`    // 1 inverts the rotation direction
	HomingOffset int `json:"homing_offset"` // raw position of a 0 degree fin
	RangeMin     int `json:"range_min"`
	RangeMax     int `json:"range_max"`
}

// DefaultCalibration is a single STS3215 with servo ID 1, fins flat at
// the encoder midpoint.
func DefaultCalibration() Calibration {
	return Calibration{
		ID:           1,
		HomingOffset: StepsPerRevolution / 2,
		RangeMin:     0,
		RangeMax:     StepsPerRevolution - 1,
	}
}

// Denormalize converts a fin angle in degrees to a raw servo position,
// clamped to the calibrated range.
func (c Calibration) Denormalize(angle float64) int {
	steps := angle * StepsPerRevolution / 360
	if c.DriveMode != 0 {
		steps = -steps
	}
	raw := c.HomingOffset + int(math.Round(steps))
	if c.RangeMax > c.RangeMin {
		raw = max(c.RangeMin, min(raw, c.RangeMax))
	}
	return raw
}

// Normalize converts a raw servo position back to a fin angle in degrees.
func (c Calibration) Normalize(raw int) float64 {
	angle := float64(raw-c.HomingOffset) * 360 / StepsPerRevolution
	if c.DriveMode != 0 {
		angle = -angle
	}
	return angle
}
