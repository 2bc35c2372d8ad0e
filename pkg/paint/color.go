package paint

import (
	"fmt"
	"math"
)

// Fin angle limits of the ThermoBlinds, in degrees.
const (
	ClosedAngle = 10.0
	OpenAngle   = 90.0
)

// Hue mapping constants tuned on the blinds prototype. Hues below hueWrap
// are shifted up by 360, so reds slightly towards magenta stay negative.
const (
	hueWrap   = -30.0
	hueOffset = 330.0
)

// Color is an 8-bit RGB pixel sample.
type Color struct {
	R, G, B uint8
}

// Angle returns the fin angle for this color. See ColorToAngle.
func (c Color) Angle() float64 {
	return ColorToAngle(float64(c.R), float64(c.G), float64(c.B))
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Hue returns the hue of an RGB triple in degrees, before wrapping. The
// result only depends on channel ordering and ratios, so any scale works.
// Gray (all channels equal) has hue 0.
func Hue(r, g, b float64) float64 {
	lo := math.Min(r, math.Min(g, b))
	hi := math.Max(r, math.Max(g, b))
	delta := hi - lo

	switch {
	case delta == 0:
		return 0
	case hi == r:
		return 60 * ((g - b) / delta)
	case hi == g:
		return 60 * (2 + (b-r)/delta)
	default:
		return 60 * (4 + (r-g)/delta)
	}
}

// ColorToAngle converts a painted color into a ThermoBlinds fin angle in
// [ClosedAngle, OpenAngle] degrees.
//
// The hue goes through a cosine rather than a linear map, which follows the
// fin's response to "heat": warm hues open the fins, cool ones close them.
func ColorToAngle(r, g, b float64) float64 {
	hue := Hue(r, g, b)
	if hue < hueWrap {
		hue += 360
	}

	cosArg := 1 - (hueOffset-hue)/360
	cosArg = math.Max(-1, math.Min(1, cosArg))
	angle := math.Acos(cosArg) * 180 / math.Pi

	if angle < ClosedAngle {
		angle = ClosedAngle
	}
	if angle > OpenAngle {
		angle = OpenAngle
	}
	return angle
}
