package paint

// Sample is one reading of both bend sensors.
type Sample struct {
	Right int
	Left  int
}

// Value returns the reading of one side.
func (s Sample) Value(side Side) int {
	if side == Left {
		return s.Left
	}
	return s.Right
}

// EstimateBaseline averages sensor readings to find the resting values.
//
// read is called exactly attempts times. Calls that return no sample still
// count as an attempt, so a quiet line gives an average over fewer values.
// The zero Sample is returned when no read succeeded.
func EstimateBaseline(read func() (Sample, bool), attempts int) Sample {
	return EstimateBaselineWithProgress(read, attempts, nil)
}

// EstimateBaselineWithProgress is EstimateBaseline with a callback invoked
// after every attempt with the number of attempts done so far.
func EstimateBaselineWithProgress(read func() (Sample, bool), attempts int, progress func(done int)) Sample {
	var right, left, count int
	for i := 0; i < attempts; i++ {
		if s, ok := read(); ok {
			right += s.Right
			left += s.Left
			count++
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	if count == 0 {
		return Sample{}
	}
	return Sample{Right: right / count, Left: left / count}
}
