package paint

import "testing"

func TestClassify(t *testing.T) {
	p := DefaultParameters()  // baselines 549 / 529
	th := DefaultThresholds() // buffers 6 / 4

	tests := []struct {
		name   string
		sample Sample
		want   State
	}{
		{"resting", Sample{549, 529}, Idle},
		{"right at threshold", Sample{555, 529}, Idle},
		{"right above threshold", Sample{556, 529}, PaintingRight},
		{"left at threshold", Sample{549, 533}, Idle},
		{"left above threshold", Sample{549, 534}, PaintingLeft},
		{"both above, right wins", Sample{560, 540}, PaintingRight},
		{"right stroke with left bent back", Sample{560, 500}, PaintingRight},
		{"below baseline", Sample{300, 300}, Idle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.sample, p, th); got != tt.want {
				t.Errorf("Classify(%+v) = %s, want %s", tt.sample, got, tt.want)
			}
		})
	}
}

func TestState_Side(t *testing.T) {
	if side, ok := PaintingRight.Side(); !ok || side != Right {
		t.Errorf("PaintingRight.Side() = %v, %v", side, ok)
	}
	if side, ok := PaintingLeft.Side(); !ok || side != Left {
		t.Errorf("PaintingLeft.Side() = %v, %v", side, ok)
	}
	if _, ok := Idle.Side(); ok {
		t.Error("Idle.Side() should report no side")
	}
}
