package carousel

import "time"

// debugLogInterval is how many frames pass between debug log lines.
const debugLogInterval = 60

// debugStats holds per-frame timing and draw metrics.
// Only populated when Config.Debug is true.
type debugStats struct {
	tickTime  time.Duration
	drawTime  time.Duration
	triangles int
	drawCalls int
	visible   int
	loads     int
}

// debugLog prints timing, draw and animator stats every debugLogInterval
// frames.
func (c *Carousel) debugLog(stats debugStats) {
	if !c.cfg.Debug {
		return
	}
	c.debugFrame++
	if c.debugFrame%debugLogInterval != 0 {
		return
	}
	snap := c.anim.Snapshot()
	logger.Printf("tick: %v | draw: %v | slides: %d | triangles: %d | draw calls: %d | loads: %d",
		stats.tickTime, stats.drawTime, stats.visible, stats.triangles, stats.drawCalls, stats.loads)
	logger.Printf("%s | pos: %.3f -> %.3f | speed: %.4f | distortion: %.3f -> %.3f | vel: %.2f avg %.2f peak %.2f",
		snap.State, snap.Position, snap.TargetPosition, snap.AutoScrollSpeed,
		snap.Distortion, snap.TargetDistortion, snap.Velocity, snap.AvgVelocity, snap.PeakVelocity)
}

// countVisible counts slides positioned this frame.
func countVisible(slides []*Slide) int {
	n := 0
	for _, s := range slides {
		if s.Visible {
			n++
		}
	}
	return n
}
