package paint

import "testing"

func sequence(samples []Sample, ok []bool) func() (Sample, bool) {
	i := 0
	return func() (Sample, bool) {
		defer func() { i++ }()
		if i >= len(samples) {
			return Sample{}, false
		}
		return samples[i], ok[i]
	}
}

func TestEstimateBaseline(t *testing.T) {
	samples := []Sample{{550, 530}, {549, 528}, {551, 529}, {548, 531}}
	ok := []bool{true, true, true, true}

	// (550+549+551+548)/4 = 549.5, (530+528+529+531)/4 = 529.5
	got := EstimateBaseline(sequence(samples, ok), len(samples))
	if want := (Sample{Right: 549, Left: 529}); got != want {
		t.Errorf("EstimateBaseline = %+v, want %+v", got, want)
	}
}

func TestEstimateBaseline_SkipsFailedReads(t *testing.T) {
	samples := []Sample{{600, 500}, {0, 0}, {602, 503}, {0, 0}}
	ok := []bool{true, false, true, false}

	got := EstimateBaseline(sequence(samples, ok), len(samples))
	if want := (Sample{Right: 601, Left: 501}); got != want {
		t.Errorf("EstimateBaseline = %+v, want %+v", got, want)
	}
}

func TestEstimateBaseline_CountsAttempts(t *testing.T) {
	calls := 0
	read := func() (Sample, bool) {
		calls++
		return Sample{Right: 10, Left: 20}, calls%3 == 0
	}

	got := EstimateBaseline(read, 300)
	if calls != 300 {
		t.Errorf("read called %d times, want 300", calls)
	}
	if want := (Sample{Right: 10, Left: 20}); got != want {
		t.Errorf("EstimateBaseline = %+v, want %+v", got, want)
	}
}

func TestEstimateBaseline_NoData(t *testing.T) {
	read := func() (Sample, bool) { return Sample{Right: 999, Left: 999}, false }

	if got := EstimateBaseline(read, 50); got != (Sample{}) {
		t.Errorf("EstimateBaseline = %+v, want zero sample", got)
	}
	if got := EstimateBaseline(read, 0); got != (Sample{}) {
		t.Errorf("EstimateBaseline(0 attempts) = %+v, want zero sample", got)
	}
}

func TestEstimateBaselineWithProgress(t *testing.T) {
	var last, calls int
	read := func() (Sample, bool) { return Sample{Right: 1, Left: 1}, true }

	EstimateBaselineWithProgress(read, 7, func(done int) {
		calls++
		last = done
	})
	if calls != 7 || last != 7 {
		t.Errorf("progress called %d times, last=%d, want 7 and 7", calls, last)
	}
}
