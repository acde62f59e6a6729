package carousel

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// --- Event handlers ---
//
// These mutate only targets, momentum and the scrolling flag; the next Tick
// turns them into motion.

// Key nudges the target by one slide in dir and bumps the distortion target.
func (a *Animator) Key(dir Direction) {
	a.goTo = nil
	a.nudging = true
	a.targetPosition += float64(dir) * a.cfg.SlideUnit()
	a.targetDistortion = math.Min(1, a.targetDistortion+a.cfg.KeyDistortionBump)
}

// Wheel applies one wheel event. deltaY is in pixels, positive when the
// content scrolls down.
func (a *Animator) Wheel(deltaY float64) {
	a.goTo = nil
	abs := math.Abs(deltaY)
	a.targetPosition -= deltaY * a.cfg.WheelSensitivity
	a.targetDistortion = math.Min(1, a.targetDistortion+abs*wheelDistortionGain)

	a.scrolling = true
	speed := math.Min(abs*wheelMomentumGain, wheelMomentumMax)
	if deltaY < 0 {
		speed = -speed
	}
	a.autoScrollSpeed = speed
	a.scrollDeadline = a.now + a.cfg.WheelDebounce
}

// TouchStart begins a swipe at screen x.
func (a *Animator) TouchStart(x float64) {
	a.goTo = nil
	a.touch = touchState{active: true, startX: x, lastX: x}
}

// TouchMove follows the swipe to screen x. Unlike wheel and keyboard input,
// swipe movement lowers the distortion target and may push it below zero;
// a negative factor bends the slides away from the viewer.
func (a *Animator) TouchMove(x float64) {
	if !a.touch.active {
		return
	}
	deltaX := x - a.touch.lastX
	a.targetPosition -= deltaX * a.cfg.TouchSensitivity
	a.targetDistortion = math.Min(1, a.targetDistortion-math.Abs(deltaX)*touchDistortionGain)
	a.touch.lastX = x
}

// TouchEnd releases the swipe. A fast enough swipe hands off to momentum
// for TouchMomentumDuration.
func (a *Animator) TouchEnd() {
	if !a.touch.active {
		return
	}
	a.touch.active = false

	velocity := (a.touch.lastX - a.touch.startX) * touchReleaseGain
	if math.Abs(velocity) <= touchReleaseMin {
		return
	}
	a.autoScrollSpeed = -velocity * a.cfg.MomentumMultiplier * touchMomentumScale
	a.targetDistortion = math.Min(1, math.Abs(velocity)*touchReleaseDistGain)
	a.scrolling = true
	a.scrollDeadline = a.now + a.cfg.TouchMomentumDuration
}

// Touching reports whether a swipe is in progress.
func (a *Animator) Touching() bool { return a.touch.active }

// --- Device polling ---

const (
	keyRepeatDelay    = 24 // ticks before a held arrow starts repeating
	keyRepeatInterval = 4  // ticks between repeats
	goToDuration      = 600 * time.Millisecond
)

type inputKind uint8

const (
	inputKey inputKind = iota
	inputWheel
	inputTouchStart
	inputTouchMove
	inputTouchEnd
	inputGoTo
)

// syntheticInput is a queued event, consumed one per frame in place of
// device input.
type syntheticInput struct {
	kind  inputKind
	value float64
}

// InputPoller translates Ebitengine device state into Animator events once
// per frame. Queued synthetic events take priority: while any are pending,
// one is delivered per frame and the devices are ignored.
type InputPoller struct {
	wheelLineHeight float64
	mouseDrag       bool

	touchID  ebiten.TouchID
	touching bool
	mouse    bool
	lastX    float64
	touchBuf []ebiten.TouchID

	queue []syntheticInput
}

// NewInputPoller creates a poller using cfg's wheel scale and mouse-drag
// setting.
func NewInputPoller(cfg Config) *InputPoller {
	return &InputPoller{
		wheelLineHeight: cfg.WheelLineHeight,
		mouseDrag:       cfg.MouseDrag,
	}
}

// Pending returns the number of queued synthetic events.
func (p *InputPoller) Pending() int { return len(p.queue) }

// InjectKey queues an arrow-key press.
func (p *InputPoller) InjectKey(dir Direction) {
	p.queue = append(p.queue, syntheticInput{kind: inputKey, value: float64(dir)})
}

// InjectWheel queues a wheel event with deltaY in pixels.
func (p *InputPoller) InjectWheel(deltaY float64) {
	p.queue = append(p.queue, syntheticInput{kind: inputWheel, value: deltaY})
}

// InjectGoTo queues a tween to slide index.
func (p *InputPoller) InjectGoTo(index int) {
	p.queue = append(p.queue, syntheticInput{kind: inputGoTo, value: float64(index)})
}

// InjectSwipe queues a swipe from fromX to toX: a start, frames-2 evenly
// spaced moves ending at toX, and a release. The sequence consumes frames
// frames (min 3).
func (p *InputPoller) InjectSwipe(fromX, toX float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	p.queue = append(p.queue, syntheticInput{kind: inputTouchStart, value: fromX})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p.queue = append(p.queue, syntheticInput{kind: inputTouchMove, value: fromX + (toX-fromX)*t})
	}
	p.queue = append(p.queue, syntheticInput{kind: inputTouchEnd})
}

// Poll delivers this frame's input to a.
func (p *InputPoller) Poll(a *Animator) {
	if p.processInjected(a) {
		return
	}
	p.pollKeys(a)
	p.pollWheel(a)
	if !p.pollTouch(a) && p.mouseDrag {
		p.pollMouse(a)
	}
}

func (p *InputPoller) processInjected(a *Animator) bool {
	if len(p.queue) == 0 {
		return false
	}
	evt := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]

	switch evt.kind {
	case inputKey:
		a.Key(Direction(evt.value))
	case inputWheel:
		a.Wheel(evt.value)
	case inputTouchStart:
		a.TouchStart(evt.value)
	case inputTouchMove:
		a.TouchMove(evt.value)
	case inputTouchEnd:
		a.TouchEnd()
	case inputGoTo:
		a.GoTo(int(evt.value), goToDuration, ease.OutCubic)
	}
	return true
}

// repeatingKeyPressed reports a press on the first tick and then at a fixed
// interval while the key stays held.
func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}

func (p *InputPoller) pollKeys(a *Animator) {
	if repeatingKeyPressed(ebiten.KeyArrowLeft) {
		a.Key(DirectionPrev)
	}
	if repeatingKeyPressed(ebiten.KeyArrowRight) {
		a.Key(DirectionNext)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		a.GoTo(0, goToDuration, ease.OutCubic)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		a.GoTo(len(a.Slides())-1, goToDuration, ease.OutCubic)
	}
}

// pollWheel converts Ebitengine wheel lines (positive = up) to pixel deltaY
// (positive = down).
func (p *InputPoller) pollWheel(a *Animator) {
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	a.Wheel(-wy * p.wheelLineHeight)
}

// pollTouch follows the first finger down until it lifts. Returns true while
// a touch gesture owns the swipe.
func (p *InputPoller) pollTouch(a *Animator) bool {
	if p.touching {
		if inpututil.IsTouchJustReleased(p.touchID) {
			p.touching = false
			a.TouchEnd()
			return false
		}
		x, _ := ebiten.TouchPosition(p.touchID)
		if fx := float64(x); fx != p.lastX {
			a.TouchMove(fx)
			p.lastX = fx
		}
		return true
	}

	if p.mouse {
		return false
	}
	p.touchBuf = inpututil.AppendJustPressedTouchIDs(p.touchBuf[:0])
	if len(p.touchBuf) == 0 {
		return false
	}
	p.touchID = p.touchBuf[0]
	p.touching = true
	x, _ := ebiten.TouchPosition(p.touchID)
	p.lastX = float64(x)
	a.TouchStart(p.lastX)
	return true
}

// pollMouse treats a left-button drag as a swipe.
func (p *InputPoller) pollMouse(a *Animator) {
	mx, _ := ebiten.CursorPosition()
	x := float64(mx)
	switch {
	case !p.mouse && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.mouse = true
		p.lastX = x
		a.TouchStart(x)
	case p.mouse && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.mouse = false
		a.TouchEnd()
	case p.mouse && x != p.lastX:
		a.TouchMove(x)
		p.lastX = x
	}
}
