package carousel

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

const (
	momentumDecayFloor   = 0.92
	momentumDecayBase    = 0.97
	momentumDecaySlope   = 0.5
	momentumStopSpeed    = 0.001
	nudgeSettleDistance  = 0.001 // key nudge counts as scrolling until this close
	distortionVelocity   = 0.05 // frame velocity that starts feeding distortion
	distortionGain       = 0.1
	idleVelocity         = 0.2
	idleDecayScale       = 0.9
	wheelDistortionGain  = 0.001
	wheelMomentumGain    = 0.0005
	wheelMomentumMax     = 0.05
	touchDistortionGain  = 0.02
	touchReleaseGain     = 0.005
	touchReleaseMin      = 0.5
	touchMomentumScale   = 0.05
	touchReleaseDistGain = 1.0
)

// touchState tracks the single active swipe gesture.
type touchState struct {
	active bool
	startX float64
	lastX  float64
}

// Animator owns the carousel's scroll and distortion state and advances it
// one frame at a time with Tick. It does no drawing and reads no devices, so
// any scheduler can drive it: Carousel.Update in a running game, or a plain
// loop in tests.
//
// Time is the sum of the dt values passed to Tick. Debounce timers are
// deadlines on that clock, so a restarted timer simply replaces the old
// deadline.
type Animator struct {
	cfg    Config
	slides []*Slide

	currentPosition float64
	targetPosition  float64
	autoScrollSpeed float64

	currentDistortion float64
	targetDistortion  float64
	velocity          velocityTracker

	scrolling      bool
	scrollDeadline time.Duration
	now            time.Duration

	touch touchState
	goTo  *scrollTween
	// nudging is set by keyboard and GoTo moves and cleared once the
	// position settles on the target.
	nudging bool

	lastVelocity float64
}

// NewAnimator creates the slides described by cfg. cfg is not validated;
// call Config.Validate first for untrusted input.
func NewAnimator(cfg Config) *Animator {
	a := &Animator{cfg: cfg}
	a.slides = make([]*Slide, cfg.SlideCount)
	for i := range a.slides {
		a.slides[i] = newSlide(i, &a.cfg)
	}
	return a
}

// Config returns the configuration the animator was built with.
func (a *Animator) Config() Config { return a.cfg }

// Slides returns the slides in index order. The returned slice MUST NOT be
// mutated.
func (a *Animator) Slides() []*Slide { return a.slides }

// Position returns the smoothed scroll position.
func (a *Animator) Position() float64 { return a.currentPosition }

// TargetPosition returns the position the scroll is easing toward.
func (a *Animator) TargetPosition() float64 { return a.targetPosition }

// AutoScrollSpeed returns the momentum velocity added to the target each
// frame while scrolling.
func (a *Animator) AutoScrollSpeed() float64 { return a.autoScrollSpeed }

// Distortion returns the smoothed distortion factor.
func (a *Animator) Distortion() float64 { return a.currentDistortion }

// TargetDistortion returns the distortion factor being eased toward.
func (a *Animator) TargetDistortion() float64 { return a.targetDistortion }

// Scrolling reports whether a gesture or its momentum tail is active.
func (a *Animator) Scrolling() bool { return a.scrolling }

// Elapsed returns the animator clock: the sum of all ticked dt.
func (a *Animator) Elapsed() time.Duration { return a.now }

// State returns StateScrolling while scrolling, while a finger is down, and
// while a key nudge or GoTo is still moving the position.
func (a *Animator) State() State {
	if a.scrolling || a.touch.active || a.nudging {
		return StateScrolling
	}
	return StateIdle
}

// ActiveIndex returns the index of the slide nearest the centre of the view.
func (a *Animator) ActiveIndex() int {
	n := len(a.slides)
	i := int(math.Round(a.currentPosition / a.cfg.SlideUnit()))
	return ((i % n) + n) % n
}

// Tick advances the animation by dt seconds: timers, scroll, distortion,
// layout and deformation, in that order. Non-positive dt is ignored.
func (a *Animator) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	a.now += time.Duration(dt * float64(time.Second))
	if a.scrolling && a.now >= a.scrollDeadline {
		a.scrolling = false
		a.autoScrollSpeed = 0
	}

	prev := a.currentPosition
	a.updateGoTo(float32(dt))
	a.updateScroll()
	if a.nudging && a.goTo == nil && math.Abs(a.targetPosition-a.currentPosition) < nudgeSettleDistance {
		a.nudging = false
	}
	a.updateDistortion(prev, dt)
	a.layoutSlides()

	for _, s := range a.slides {
		s.Material.update(float32(dt))
	}
}

// updateScroll applies momentum to the target, then eases the position
// toward it.
func (a *Animator) updateScroll() {
	if a.scrolling {
		a.targetPosition += a.autoScrollSpeed
		decay := math.Max(momentumDecayFloor, momentumDecayBase-math.Abs(a.autoScrollSpeed)*momentumDecaySlope)
		a.autoScrollSpeed *= decay
		if math.Abs(a.autoScrollSpeed) < momentumStopSpeed {
			a.autoScrollSpeed = 0
		}
	}
	a.currentPosition = lerp(a.currentPosition, a.targetPosition, a.cfg.Smoothing)
}

// updateDistortion feeds the observed velocity into the distortion target
// and eases the current factor toward it.
func (a *Animator) updateDistortion(prev, dt float64) {
	v := math.Abs(a.currentPosition-prev) / dt
	a.lastVelocity = v
	a.velocity.Push(v)

	avg := a.velocity.Average()
	decelerating := a.velocity.Decelerating()

	if v > distortionVelocity {
		a.targetDistortion = math.Max(a.targetDistortion, math.Min(1, v*distortionGain))
	}
	if decelerating || avg < idleVelocity {
		rate := a.cfg.DistortionDecay
		if !decelerating {
			rate *= idleDecayScale
		}
		a.targetDistortion *= rate
	}
	a.currentDistortion = lerp(a.currentDistortion, a.targetDistortion, a.cfg.DistortionSmoothing)
}

func (a *Animator) updateGoTo(dt float32) {
	if a.goTo == nil {
		return
	}
	pos, done := a.goTo.update(dt)
	a.targetPosition = pos
	if done {
		a.goTo = nil
	}
}

// GoTo eases the target position to centre slide index over duration,
// taking the shorter way around the loop. Any later input cancels it.
func (a *Animator) GoTo(index int, duration time.Duration, fn ease.TweenFunc) {
	n := len(a.slides)
	index = ((index % n) + n) % n
	if fn == nil {
		fn = ease.OutCubic
	}
	total := a.cfg.TotalWidth()
	delta := wrapOffset(float64(index)*a.cfg.SlideUnit()-a.targetPosition, total)
	to := a.targetPosition + delta
	a.nudging = true
	if duration <= 0 {
		a.goTo = nil
		a.targetPosition = to
		return
	}
	a.goTo = newScrollTween(a.targetPosition, to, float32(duration.Seconds()), fn)
}

// SetSlideImage swaps a loaded image into slide i's material, rescales the
// plane to the image's aspect ratio and starts the fade-in.
func (a *Animator) SetSlideImage(i int, img *ebiten.Image) {
	if i < 0 || i >= len(a.slides) || img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	s := a.slides[i]
	s.ScaleX, s.ScaleY = fitAspect(float64(b.Dx())/float64(b.Dy()), a.cfg.SlideWidth/a.cfg.SlideHeight)
	s.Material.setImage(img, float32(a.cfg.FadeInDuration.Seconds()))
}

// Snapshot is a copy of the animator's scalar state, for HUDs and logs.
type Snapshot struct {
	Elapsed          time.Duration
	State            State
	Position         float64
	TargetPosition   float64
	AutoScrollSpeed  float64
	Distortion       float64
	TargetDistortion float64
	Velocity         float64
	AvgVelocity      float64
	PeakVelocity     float64
	ActiveIndex      int
}

// Snapshot returns the current scalar state.
func (a *Animator) Snapshot() Snapshot {
	return Snapshot{
		Elapsed:          a.now,
		State:            a.State(),
		Position:         a.currentPosition,
		TargetPosition:   a.targetPosition,
		AutoScrollSpeed:  a.autoScrollSpeed,
		Distortion:       a.currentDistortion,
		TargetDistortion: a.targetDistortion,
		Velocity:         a.lastVelocity,
		AvgVelocity:      a.velocity.Average(),
		PeakVelocity:     a.velocity.Peak(),
		ActiveIndex:      a.ActiveIndex(),
	}
}
