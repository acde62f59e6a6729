package carousel

const (
	velocitySamples     = 5
	peakDecay           = 0.99
	decelRatioThreshold = 0.7
	decelPeakThreshold  = 0.5
)

// velocityTracker smooths frame velocities over a short ring buffer and keeps
// a slowly decaying peak envelope of the smoothed value.
type velocityTracker struct {
	samples [velocitySamples]float64
	next    int
	avg     float64
	peak    float64
}

// Push records v, dropping the oldest sample, and updates the average and
// peak envelope. The buffer starts zero-filled, so the first pushes average
// against zeros.
func (t *velocityTracker) Push(v float64) {
	t.samples[t.next] = v
	t.next = (t.next + 1) % velocitySamples

	var sum float64
	for _, s := range t.samples {
		sum += s
	}
	t.avg = sum / velocitySamples

	t.peak = max(t.peak, t.avg)
	t.peak *= peakDecay
}

// Average returns the mean of the buffered samples.
func (t *velocityTracker) Average() float64 { return t.avg }

// Peak returns the decaying peak envelope.
func (t *velocityTracker) Peak() float64 { return t.peak }

// Decelerating reports whether the average has fallen well below a
// significant recent peak.
func (t *velocityTracker) Decelerating() bool {
	ratio := t.avg / (t.peak + 0.001)
	return ratio < decelRatioThreshold && t.peak > decelPeakThreshold
}
