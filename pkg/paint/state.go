package paint

// Detection buffers above the baseline, in sensor units.
const (
	DefaultRightBuffer = 6
	DefaultLeftBuffer  = 4
)

// State is what the brush is doing during one control cycle.
type State int

const (
	Idle State = iota
	PaintingRight
	PaintingLeft
)

func (s State) String() string {
	switch s {
	case PaintingRight:
		return "painting right"
	case PaintingLeft:
		return "painting left"
	default:
		return "idle"
	}
}

// Side returns the active side of a painting state.
func (s State) Side() (Side, bool) {
	switch s {
	case PaintingRight:
		return Right, true
	case PaintingLeft:
		return Left, true
	default:
		return 0, false
	}
}

// Thresholds is how far above its baseline a sensor must read before a
// stroke is detected on that side.
type Thresholds struct {
	Right int `json:"right"`
	Left  int `json:"left"`
}

// DefaultThresholds returns the buffers tuned for the brush prototype.
func DefaultThresholds() Thresholds {
	return Thresholds{Right: DefaultRightBuffer, Left: DefaultLeftBuffer}
}

// Classify decides the state for a single sample. It keeps no history.
// Right is checked first and wins when both sides exceed their threshold.
func Classify(s Sample, p Parameters, t Thresholds) State {
	switch {
	case s.Right > p.RightBaseline+t.Right:
		return PaintingRight
	case s.Left > p.LeftBaseline+t.Left:
		return PaintingLeft
	default:
		return Idle
	}
}
