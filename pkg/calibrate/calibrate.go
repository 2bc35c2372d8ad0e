// Package calibrate implements the brush calibration sequence.
//
// The sequence is driven by events instead of a keyboard: the UI turns arrow
// keys into Adjust calls and Enter into Confirm, and feeds live sensor
// readings through Observe.
package calibrate

import (
	"image"

	"github.com/gwillem/thermalpaint/pkg/paint"
)

// Adjustment steps per key press.
const (
	PositionStep    = 3
	CoefficientStep = 0.1
)

// Stage is a step of the calibration sequence.
type Stage int

const (
	Baseline Stage = iota
	RightPosition
	LeftPosition
	RightCoefficient
	LeftCoefficient
	Done
)

func (s Stage) String() string {
	switch s {
	case Baseline:
		return "Baseline"
	case RightPosition:
		return "Right position"
	case LeftPosition:
		return "Left position"
	case RightCoefficient:
		return "Right coefficient"
	case LeftCoefficient:
		return "Left coefficient"
	default:
		return "Done"
	}
}

// Instructions tells the user what to do during a stage.
func (s Stage) Instructions() string {
	switch s {
	case Baseline:
		return "Hold the brush in the air without touching anything."
	case RightPosition:
		return "Move the circle to the right of the brush."
	case LeftPosition:
		return "Move the circle to the left of the brush."
	case RightCoefficient:
		return "Stroke from left to right and keep the circle right of the brush."
	case LeftCoefficient:
		return "Stroke from right to left and keep the circle left of the brush."
	default:
		return "Calibration complete."
	}
}

// UsesSensor reports whether the cursor follows the sensor in this stage.
func (s Stage) UsesSensor() bool {
	return s == RightCoefficient || s == LeftCoefficient
}

// Direction is an arrow key.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Procedure holds the calibration in progress.
type Procedure struct {
	params paint.Parameters
	stage  Stage
	width  int
	height int
	latest paint.Sample
}

// New starts a calibration from p for a width x height camera.
func New(p paint.Parameters, width, height int) *Procedure {
	return &Procedure{
		params: p,
		width:  width,
		height: height,
		latest: paint.Sample{Right: p.RightBaseline, Left: p.LeftBaseline},
	}
}

// Stage returns the current stage.
func (c *Procedure) Stage() Stage {
	return c.stage
}

// Done reports whether every stage was confirmed.
func (c *Procedure) Done() bool {
	return c.stage == Done
}

// Parameters returns the calibration so far.
func (c *Procedure) Parameters() paint.Parameters {
	return c.params
}

// Resize updates the frame size used for clamping.
func (c *Procedure) Resize(width, height int) {
	c.width, c.height = width, height
}

// SetBaseline stores the resting sensor values and leaves the baseline stage.
func (c *Procedure) SetBaseline(s paint.Sample) {
	c.params.RightBaseline = s.Right
	c.params.LeftBaseline = s.Left
	c.latest = s
	if c.stage == Baseline {
		c.stage = RightPosition
	}
}

// Observe records a live sensor reading.
func (c *Procedure) Observe(s paint.Sample) {
	c.latest = s
}

// Confirm accepts the current stage and moves to the next one. The
// baseline stage is only left through SetBaseline.
func (c *Procedure) Confirm() {
	if c.stage != Baseline && c.stage != Done {
		c.stage++
	}
}

// Adjust applies one arrow key press to the field of the current stage.
func (c *Procedure) Adjust(d Direction) {
	p := &c.params
	switch c.stage {
	case RightPosition:
		p.RightOriginX, p.RightOriginY = c.move(p.RightOriginX, p.RightOriginY, d)
	case LeftPosition:
		p.LeftOriginX, p.LeftOriginY = c.move(p.LeftOriginX, p.LeftOriginY, d)
	case RightCoefficient:
		switch d {
		case Right:
			p.RightXCoeff += CoefficientStep
		case Left:
			p.RightXCoeff -= CoefficientStep
		case Up:
			p.RightYCoeff -= CoefficientStep
		case Down:
			p.RightYCoeff += CoefficientStep
		}
	case LeftCoefficient:
		// Left projection subtracts the deflection, x keys are reversed.
		switch d {
		case Right:
			p.LeftXCoeff -= CoefficientStep
		case Left:
			p.LeftXCoeff += CoefficientStep
		case Up:
			p.LeftYCoeff -= CoefficientStep
		case Down:
			p.LeftYCoeff += CoefficientStep
		}
	}
}

func (c *Procedure) move(x, y int, d Direction) (int, int) {
	switch d {
	case Right:
		x += PositionStep
	case Left:
		x -= PositionStep
	case Up:
		y -= PositionStep
	case Down:
		y += PositionStep
	}
	pt := paint.ClampPoint(image.Pt(x, y), c.width, c.height)
	return pt.X, pt.Y
}

// Cursor returns where the color is picked with the current values: the
// origin during position stages, the projected latest reading during
// coefficient stages.
func (c *Procedure) Cursor() image.Point {
	switch c.stage {
	case RightPosition:
		return paint.ClampPoint(c.params.Origin(paint.Right), c.width, c.height)
	case LeftPosition:
		return paint.ClampPoint(c.params.Origin(paint.Left), c.width, c.height)
	case RightCoefficient:
		return c.params.Project(paint.Right, c.latest.Right, c.width, c.height)
	case LeftCoefficient:
		return c.params.Project(paint.Left, c.latest.Left, c.width, c.height)
	default:
		return image.Point{}
	}
}
