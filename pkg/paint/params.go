// Package paint implements the ThermalPaint brush model: calibration
// parameters, projection of sensor deflection to screen coordinates, stroke
// detection and the color to fin angle mapping.
package paint

import "image"

// Default calibration values, measured on the first brush prototype.
const (
	DefaultRightBaseline = 549
	DefaultLeftBaseline  = 529
	DefaultRightOriginX  = 410
	DefaultRightOriginY  = 210
	DefaultLeftOriginX   = 255
	DefaultLeftOriginY   = 210
	DefaultRightXCoeff   = 4.6
	DefaultRightYCoeff   = 0.0
	DefaultLeftXCoeff    = 6.0
	DefaultLeftYCoeff    = 0.0
)

// Side identifies one of the two bend sensors on the brush.
type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Parameters holds the brush calibration: the resting sensor values and
// the linear mapping from sensor deflection to the color-picking position
// on screen, for each side.
type Parameters struct {
	RightBaseline int
	LeftBaseline  int

	RightOriginX int
	RightOriginY int
	LeftOriginX  int
	LeftOriginY  int

	RightXCoeff float64
	RightYCoeff float64
	LeftXCoeff  float64
	LeftYCoeff  float64
}

// DefaultParameters returns the compiled-in calibration.
func DefaultParameters() Parameters {
	return Parameters{
		RightBaseline: DefaultRightBaseline,
		LeftBaseline:  DefaultLeftBaseline,
		RightOriginX:  DefaultRightOriginX,
		RightOriginY:  DefaultRightOriginY,
		LeftOriginX:   DefaultLeftOriginX,
		LeftOriginY:   DefaultLeftOriginY,
		RightXCoeff:   DefaultRightXCoeff,
		RightYCoeff:   DefaultRightYCoeff,
		LeftXCoeff:    DefaultLeftXCoeff,
		LeftYCoeff:    DefaultLeftYCoeff,
	}
}

// Baseline returns the resting sensor value for a side.
func (p Parameters) Baseline(side Side) int {
	if side == Left {
		return p.LeftBaseline
	}
	return p.RightBaseline
}

// Origin returns the color-picking position at zero deflection for a side.
func (p Parameters) Origin(side Side) image.Point {
	if side == Left {
		return image.Pt(p.LeftOriginX, p.LeftOriginY)
	}
	return image.Pt(p.RightOriginX, p.RightOriginY)
}

// Project converts a sensor reading into a pixel position inside a
// width x height frame.
//
// The left sensor bends the opposite way, so its deflection is subtracted
// from the origin instead of added. The result is always inside the frame.
func (p Parameters) Project(side Side, value, width, height int) image.Point {
	var x, y float64
	switch side {
	case Left:
		delta := float64(value - p.LeftBaseline)
		x = float64(p.LeftOriginX) - delta*p.LeftXCoeff
		y = float64(p.LeftOriginY) - delta*p.LeftYCoeff
	default:
		delta := float64(value - p.RightBaseline)
		x = float64(p.RightOriginX) + delta*p.RightXCoeff
		y = float64(p.RightOriginY) + delta*p.RightYCoeff
	}
	return image.Pt(clampPixel(x, width), clampPixel(y, height))
}

// clampPixel clamps v to [0, size-1] and truncates it to a pixel index.
func clampPixel(v float64, size int) int {
	hi := float64(size - 1)
	if v > hi {
		v = hi
	}
	if v < 0 || v != v {
		v = 0
	}
	return int(v)
}

// ClampPoint keeps a point inside a width x height frame.
func ClampPoint(pt image.Point, width, height int) image.Point {
	return image.Pt(
		clampPixel(float64(pt.X), width),
		clampPixel(float64(pt.Y), height),
	)
}
