package control

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"github.com/gwillem/thermalpaint/pkg/paint"
)

type fakeSensor struct {
	samples []paint.Sample
	ok      []bool
	i       int
	closed  bool
}

func (s *fakeSensor) Read() (paint.Sample, bool) {
	if s.i >= len(s.samples) {
		return paint.Sample{}, false
	}
	defer func() { s.i++ }()
	return s.samples[s.i], s.ok[s.i]
}

func (s *fakeSensor) Close() error {
	s.closed = true
	return nil
}

// steady returns the same sample forever.
type steady paint.Sample

func (s steady) Read() (paint.Sample, bool) { return paint.Sample(s), true }

type fakeFrames struct {
	width, height int
	color         func(x, y int) paint.Color
	missing       bool
	sampled       []image.Point
	closed        bool
}

func (f *fakeFrames) Read() bool  { return !f.missing }
func (f *fakeFrames) Width() int  { return f.width }
func (f *fakeFrames) Height() int { return f.height }
func (f *fakeFrames) Close() error {
	f.closed = true
	return nil
}

func (f *fakeFrames) At(x, y int) paint.Color {
	f.sampled = append(f.sampled, image.Pt(x, y))
	if f.color == nil {
		return paint.Color{}
	}
	return f.color(x, y)
}

type fakeBlinds struct {
	angles []float64
	err    error
	closed bool
}

func (b *fakeBlinds) SetAngle(ctx context.Context, angle float64) error {
	b.angles = append(b.angles, angle)
	return b.err
}

func (b *fakeBlinds) Close() error {
	b.closed = true
	return nil
}

func solid(c paint.Color) func(x, y int) paint.Color {
	return func(x, y int) paint.Color { return c }
}

func newTestController(t *testing.T, sensor Sensor, frames *fakeFrames, blinds *fakeBlinds) *Controller {
	t.Helper()
	ctrl, err := NewController(Config{
		Parameters: paint.DefaultParameters(),
		Thresholds: paint.DefaultThresholds(),
		Sensor:     sensor,
		Frames:     frames,
		Blinds:     blinds,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func TestController_StepRightStroke(t *testing.T) {
	orange := paint.Color{R: 200, G: 100, B: 50}
	frames := &fakeFrames{width: 640, height: 480, color: solid(orange)}
	blinds := &fakeBlinds{}
	ctrl := newTestController(t, steady{Right: 560, Left: 500}, frames, blinds)

	cycle, ok := ctrl.Step(context.Background())
	if !ok {
		t.Fatal("Step skipped the cycle")
	}
	if cycle.State != paint.PaintingRight {
		t.Errorf("state = %s, want painting right", cycle.State)
	}
	// 410 + (560-549)*4.6 = 460.6
	if want := image.Pt(460, 210); cycle.Point != want {
		t.Errorf("point = %v, want %v", cycle.Point, want)
	}
	if len(frames.sampled) != 1 || frames.sampled[0] != image.Pt(460, 210) {
		t.Errorf("sampled %v, want one sample at (460,210)", frames.sampled)
	}
	if cycle.Color != orange {
		t.Errorf("color = %+v, want %+v", cycle.Color, orange)
	}
	if len(blinds.angles) != 1 || math.Abs(blinds.angles[0]-orange.Angle()) > 1e-9 {
		t.Errorf("angles = %v, want [%f]", blinds.angles, orange.Angle())
	}
}

func TestController_StepLeftStroke(t *testing.T) {
	blue := paint.Color{B: 255}
	frames := &fakeFrames{width: 640, height: 480, color: solid(blue)}
	blinds := &fakeBlinds{}
	ctrl := newTestController(t, steady{Right: 549, Left: 539}, frames, blinds)

	cycle, ok := ctrl.Step(context.Background())
	if !ok {
		t.Fatal("Step skipped the cycle")
	}
	if cycle.State != paint.PaintingLeft {
		t.Errorf("state = %s, want painting left", cycle.State)
	}
	// 255 - (539-529)*6.0
	if want := image.Pt(195, 210); cycle.Point != want {
		t.Errorf("point = %v, want %v", cycle.Point, want)
	}
	if len(blinds.angles) != 1 || math.Abs(blinds.angles[0]-41.4096) > 0.001 {
		t.Errorf("angles = %v, want [41.41]", blinds.angles)
	}
}

func TestController_StepBothSidesRightWins(t *testing.T) {
	frames := &fakeFrames{width: 640, height: 480}
	ctrl := newTestController(t, steady{Right: 556, Left: 600}, frames, &fakeBlinds{})

	cycle, _ := ctrl.Step(context.Background())
	if cycle.State != paint.PaintingRight {
		t.Errorf("state = %s, want painting right", cycle.State)
	}
}

func TestController_StepIdleClosesEveryTick(t *testing.T) {
	frames := &fakeFrames{width: 640, height: 480, color: solid(paint.Color{R: 255})}
	blinds := &fakeBlinds{}
	ctrl := newTestController(t, steady{Right: 549, Left: 529}, frames, blinds)

	for i := 0; i < 3; i++ {
		cycle, ok := ctrl.Step(context.Background())
		if !ok {
			t.Fatal("Step skipped the cycle")
		}
		if cycle.State != paint.Idle {
			t.Errorf("state = %s, want idle", cycle.State)
		}
	}
	if len(frames.sampled) != 0 {
		t.Errorf("idle cycles sampled pixels %v", frames.sampled)
	}
	want := []float64{paint.ClosedAngle, paint.ClosedAngle, paint.ClosedAngle}
	if len(blinds.angles) != len(want) {
		t.Fatalf("angles = %v, want %v", blinds.angles, want)
	}
	for i := range want {
		if blinds.angles[i] != want[i] {
			t.Errorf("angles = %v, want %v", blinds.angles, want)
		}
	}
}

func TestController_StepSkipsWithoutInput(t *testing.T) {
	tests := []struct {
		name   string
		sensor Sensor
		frames *fakeFrames
	}{
		{"no sensor data", &fakeSensor{samples: []paint.Sample{{Right: 600}}, ok: []bool{false}}, &fakeFrames{width: 640, height: 480}},
		{"no frame", steady{Right: 600}, &fakeFrames{width: 640, height: 480, missing: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blinds := &fakeBlinds{}
			ctrl := newTestController(t, tt.sensor, tt.frames, blinds)

			if _, ok := ctrl.Step(context.Background()); ok {
				t.Error("Step should skip the cycle")
			}
			if len(blinds.angles) != 0 {
				t.Errorf("blinds moved: %v", blinds.angles)
			}
		})
	}
}

func TestController_StepActuatorErrorIsNotFatal(t *testing.T) {
	blinds := &fakeBlinds{err: errors.New("bus timeout")}
	ctrl := newTestController(t, steady{Right: 549, Left: 529}, &fakeFrames{width: 640, height: 480}, blinds)

	cycle, ok := ctrl.Step(context.Background())
	if !ok {
		t.Fatal("Step skipped the cycle")
	}
	if cycle.Error == nil {
		t.Error("cycle should carry the actuation error")
	}
	if _, ok := ctrl.Step(context.Background()); !ok {
		t.Error("Step after an actuation error skipped the cycle")
	}
	if len(blinds.angles) != 2 {
		t.Errorf("angles = %v, want two commands", blinds.angles)
	}
}

func TestController_CyclesKeepsLatest(t *testing.T) {
	sensor := &fakeSensor{
		samples: []paint.Sample{{Right: 549, Left: 529}, {Right: 560, Left: 529}},
		ok:      []bool{true, true},
	}
	ctrl := newTestController(t, sensor, &fakeFrames{width: 640, height: 480}, &fakeBlinds{})

	ctrl.Step(context.Background())
	ctrl.Step(context.Background())

	select {
	case c := <-ctrl.Cycles():
		if c.State != paint.PaintingRight {
			t.Errorf("latest cycle state = %s, want painting right", c.State)
		}
	default:
		t.Fatal("no cycle published")
	}
	select {
	case c := <-ctrl.Cycles():
		t.Errorf("stale cycle still queued: %+v", c)
	default:
	}
}

type stopAfter struct {
	n, seen int
}

func (m *stopAfter) Mark(c Cycle) bool {
	m.seen++
	return m.seen >= m.n
}

func TestController_StartStopsOnMarker(t *testing.T) {
	blinds := &fakeBlinds{}
	marker := &stopAfter{n: 3}
	ctrl, err := NewController(Config{
		Parameters: paint.DefaultParameters(),
		Thresholds: paint.DefaultThresholds(),
		Sensor:     steady{Right: 549, Left: 529},
		Frames:     &fakeFrames{width: 640, height: 480},
		Blinds:     blinds,
		Marker:     marker,
		Hz:         1000,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctrl.Start(ctx); err != nil {
		t.Fatalf("Start = %v, want nil after marker stop", err)
	}
	if marker.seen != 3 || len(blinds.angles) != 3 {
		t.Errorf("marker saw %d cycles, blinds got %d commands, want 3 and 3", marker.seen, len(blinds.angles))
	}
}

func TestController_StartStopsOnCancel(t *testing.T) {
	ctrl := newTestController(t, steady{Right: 549, Left: 529}, &fakeFrames{width: 640, height: 480}, &fakeBlinds{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctrl.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestController_Close(t *testing.T) {
	sensor := &fakeSensor{}
	frames := &fakeFrames{width: 640, height: 480}
	blinds := &fakeBlinds{}
	ctrl := newTestController(t, sensor, frames, blinds)

	if err := ctrl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !sensor.closed || !frames.closed || !blinds.closed {
		t.Errorf("closed sensor=%v frames=%v blinds=%v, want all true", sensor.closed, frames.closed, blinds.closed)
	}
}

func TestNewController_RequiresCollaborators(t *testing.T) {
	if _, err := NewController(Config{Sensor: steady{}}); err == nil {
		t.Error("NewController without frames and blinds should fail")
	}
}
