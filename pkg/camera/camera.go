// Package camera captures frames from the brush webcam.
package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/gwillem/thermalpaint/pkg/paint"
)

// Camera is an open video capture device holding the last captured frame.
type Camera struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	width   int
	height  int
}

// Open opens a capture device by index.
func Open(device int) (*Camera, error) {
	capture, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open camera %d: device not available", device)
	}

	// Keep only the newest frame queued.
	capture.Set(gocv.VideoCaptureBufferSize, 1)

	return &Camera{
		capture: capture,
		frame:   gocv.NewMat(),
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}, nil
}

// Width returns the frame width in pixels.
func (c *Camera) Width() int { return c.width }

// Height returns the frame height in pixels.
func (c *Camera) Height() int { return c.height }

// Read captures the next frame. It reports false when the device
// delivered nothing, in which case At must not be used.
func (c *Camera) Read() bool {
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return false
	}
	// Some drivers report a different size than they deliver.
	c.width = c.frame.Cols()
	c.height = c.frame.Rows()
	return true
}

// At returns the color of the pixel at column x, row y of the last frame.
func (c *Camera) At(x, y int) paint.Color {
	v := c.frame.GetVecbAt(y, x)
	return paint.Color{R: v[2], G: v[1], B: v[0]}
}

// Frame exposes the last captured BGR image for drawing.
func (c *Camera) Frame() *gocv.Mat {
	return &c.frame
}

// Close releases the capture device and the frame buffer.
func (c *Camera) Close() error {
	c.frame.Close()
	return c.capture.Close()
}
