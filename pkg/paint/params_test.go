package paint

import (
	"image"
	"testing"
)

func TestParameters_ProjectZeroDeflection(t *testing.T) {
	p := DefaultParameters()

	tests := []struct {
		side Side
		want image.Point
	}{
		{Right, image.Pt(410, 210)},
		{Left, image.Pt(255, 210)},
	}

	for _, tt := range tests {
		got := p.Project(tt.side, p.Baseline(tt.side), 640, 480)
		if got != tt.want {
			t.Errorf("Project(%s, baseline) = %v, want %v", tt.side, got, tt.want)
		}
		if got != p.Origin(tt.side) {
			t.Errorf("Project(%s, baseline) = %v, want origin %v", tt.side, got, p.Origin(tt.side))
		}
	}
}

func TestParameters_Project(t *testing.T) {
	p := DefaultParameters()

	tests := []struct {
		name  string
		side  Side
		value int
		want  image.Point
	}{
		{"right stroke truncates", Right, 560, image.Pt(460, 210)},    // 410 + 11*4.6 = 460.6
		{"right negative deflection", Right, 540, image.Pt(368, 210)}, // 410 - 9*4.6 = 368.6
		{"left stroke moves left", Left, 539, image.Pt(195, 210)},     // 255 - 10*6.0
		{"left negative deflection", Left, 519, image.Pt(315, 210)},   // 255 + 10*6.0
		{"right clamps high", Right, 1000, image.Pt(639, 210)},
		{"left clamps low", Left, 1000, image.Pt(0, 210)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Project(tt.side, tt.value, 640, 480)
			if got != tt.want {
				t.Errorf("Project(%s, %d) = %v, want %v", tt.side, tt.value, got, tt.want)
			}
		})
	}
}

func TestParameters_ProjectYCoefficients(t *testing.T) {
	p := DefaultParameters()
	p.RightYCoeff = 2.5
	p.LeftYCoeff = 1.5

	if got := p.Project(Right, p.RightBaseline+4, 640, 480); got.Y != 220 {
		t.Errorf("right y = %d, want 220", got.Y)
	}
	if got := p.Project(Left, p.LeftBaseline+4, 640, 480); got.Y != 204 {
		t.Errorf("left y = %d, want 204", got.Y)
	}
}

func TestParameters_ProjectAlwaysInFrame(t *testing.T) {
	p := Parameters{
		RightBaseline: 500, LeftBaseline: 500,
		RightOriginX: 50, RightOriginY: 50, LeftOriginX: 50, LeftOriginY: 50,
		RightXCoeff: 37.3, RightYCoeff: -12.1, LeftXCoeff: -8.8, LeftYCoeff: 21.7,
	}
	sizes := []image.Point{{1, 1}, {2, 3}, {64, 48}, {640, 480}}

	for _, size := range sizes {
		for _, side := range []Side{Right, Left} {
			for v := -2000; v <= 3000; v += 37 {
				got := p.Project(side, v, size.X, size.Y)
				if got.X < 0 || got.X >= size.X || got.Y < 0 || got.Y >= size.Y {
					t.Fatalf("Project(%s, %d, %d, %d) = %v, outside frame", side, v, size.X, size.Y, got)
				}
			}
		}
	}
}

func TestClampPoint(t *testing.T) {
	tests := []struct {
		in, want image.Point
	}{
		{image.Pt(-3, 10), image.Pt(0, 10)},
		{image.Pt(700, 500), image.Pt(639, 479)},
		{image.Pt(12, 34), image.Pt(12, 34)},
	}

	for _, tt := range tests {
		if got := ClampPoint(tt.in, 640, 480); got != tt.want {
			t.Errorf("ClampPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
