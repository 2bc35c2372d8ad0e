package camera

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/gwillem/thermalpaint/pkg/paint"
)

// Ring sizes of the color-picking marker.
const (
	markerOuter = 24
	markerInner = 20
)

// Marker is the color-picking position drawn on the preview.
type Marker struct {
	Point image.Point
	Color paint.Color
	Label string
}

// AngleLabel formats a fin angle for a marker label.
func AngleLabel(angle float64) string {
	return fmt.Sprintf("Angle: %.1fdeg", angle)
}

// Preview is an OpenCV window showing the camera image.
type Preview struct {
	window *gocv.Window
}

// NewPreview opens a window with the given title.
func NewPreview(title string) *Preview {
	return &Preview{window: gocv.NewWindow(title)}
}

// Show displays the last frame of cam with an optional marker. It reports
// true when 'q' was pressed in the window.
func (p *Preview) Show(cam *Camera, m *Marker) bool {
	img := cam.Frame()
	if m != nil {
		gocv.Circle(img, m.Point, markerOuter, color.RGBA{0, 255, 0, 0}, -1)
		gocv.Circle(img, m.Point, markerInner, color.RGBA{m.Color.R, m.Color.G, m.Color.B, 0}, -1)
		if m.Label != "" {
			gocv.PutText(img, m.Label, image.Pt(m.Point.X+30, m.Point.Y),
				gocv.FontHersheySimplex, 0.7, color.RGBA{255, 255, 255, 0}, 2)
		}
	}
	p.window.IMShow(*img)
	return p.window.WaitKey(1)&0xFF == 'q'
}

// Close destroys the window.
func (p *Preview) Close() error {
	return p.window.Close()
}
