package carousel

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

func TestInitialSlidePositions(t *testing.T) {
	a := newTestAnimator()
	slides := a.Slides()
	if len(slides) != 10 {
		t.Fatalf("slides = %d, want 10", len(slides))
	}
	for i, s := range slides {
		want := float64(i)*3.1 - 15.5
		if !approxEqual(s.X, want, 1e-9) {
			t.Errorf("slide %d X = %f, want %f", i, s.X, want)
		}
		if !approxEqual(s.CurrentX, want, 1e-9) || !approxEqual(s.TargetX, want, 1e-9) {
			t.Errorf("slide %d current/target = %f/%f, want %f", i, s.CurrentX, s.TargetX, want)
		}
		if !approxEqual(s.BaseOffset, float64(i)*3.1, 1e-9) {
			t.Errorf("slide %d BaseOffset = %f, want %f", i, s.BaseOffset, float64(i)*3.1)
		}
		if s.ImageIndex != i%5 {
			t.Errorf("slide %d ImageIndex = %d, want %d", i, s.ImageIndex, i%5)
		}
	}
}

func TestPositionConvergesToTarget(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext)
	err0 := a.TargetPosition() - a.Position()

	for k := 1; k <= 40; k++ {
		a.Tick(1.0 / 60)
		want := err0 * math.Pow(0.9, float64(k))
		got := a.TargetPosition() - a.Position()
		if !approxEqual(got, want, 1e-9) {
			t.Fatalf("frame %d: error = %g, want %g", k, got, want)
		}
	}
}

func TestPositionNeverOvershoots(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext)
	a.Key(DirectionNext)
	for i := 0; i < 200; i++ {
		a.Tick(1.0 / 60)
		if a.Position() > a.TargetPosition()+epsilon {
			t.Fatalf("frame %d: position %f overshot target %f", i, a.Position(), a.TargetPosition())
		}
	}
}

func TestWheelScenario(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(100)

	if !approxEqual(a.TargetPosition(), -1.0, 1e-12) {
		t.Errorf("TargetPosition = %f, want -1.0", a.TargetPosition())
	}
	if !approxEqual(a.AutoScrollSpeed(), 0.05, 1e-12) {
		t.Errorf("AutoScrollSpeed = %f, want 0.05", a.AutoScrollSpeed())
	}
	if !approxEqual(a.TargetDistortion(), 0.1, 1e-12) {
		t.Errorf("TargetDistortion = %f, want 0.1", a.TargetDistortion())
	}
	if !a.Scrolling() {
		t.Error("Scrolling = false, want true")
	}
	if a.State() != StateScrolling {
		t.Errorf("State = %v, want scrolling", a.State())
	}
}

func TestWheelNegativeDelta(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(-40)
	if !approxEqual(a.TargetPosition(), 0.4, 1e-12) {
		t.Errorf("TargetPosition = %f, want 0.4", a.TargetPosition())
	}
	if !approxEqual(a.AutoScrollSpeed(), -0.02, 1e-12) {
		t.Errorf("AutoScrollSpeed = %f, want -0.02", a.AutoScrollSpeed())
	}
}

func TestWheelDistortionClamped(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(5000)
	if a.TargetDistortion() != 1 {
		t.Errorf("TargetDistortion = %f, want 1", a.TargetDistortion())
	}
	if a.AutoScrollSpeed() != wheelMomentumMax {
		t.Errorf("AutoScrollSpeed = %f, want %f", a.AutoScrollSpeed(), wheelMomentumMax)
	}
}

func TestMomentumAppliedAndDecays(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(100)
	a.Tick(1.0 / 60)

	// target moves by the momentum, then the momentum decays by
	// max(0.92, 0.97 - 0.05*0.5) = 0.945.
	if !approxEqual(a.TargetPosition(), -0.95, 1e-9) {
		t.Errorf("TargetPosition = %f, want -0.95", a.TargetPosition())
	}
	if !approxEqual(a.AutoScrollSpeed(), 0.05*0.945, 1e-9) {
		t.Errorf("AutoScrollSpeed = %f, want %f", a.AutoScrollSpeed(), 0.05*0.945)
	}
}

func TestMomentumDecayFloor(t *testing.T) {
	a := newTestAnimator()
	a.scrolling = true
	a.scrollDeadline = time.Hour
	a.autoScrollSpeed = 0.2
	a.Tick(1.0 / 60)
	// 0.97 - 0.1 = 0.87 is below the floor.
	if !approxEqual(a.AutoScrollSpeed(), 0.2*0.92, 1e-12) {
		t.Errorf("AutoScrollSpeed = %f, want %f", a.AutoScrollSpeed(), 0.2*0.92)
	}
}

func TestMomentumSnapsToZero(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(1)
	a.Tick(1.0 / 60)
	if a.AutoScrollSpeed() != 0 {
		t.Errorf("AutoScrollSpeed = %g, want exactly 0", a.AutoScrollSpeed())
	}
}

func TestWheelDebounce(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(100)
	tickN(a, 8) // ~133ms
	if !a.Scrolling() {
		t.Fatal("Scrolling cleared before 150ms")
	}
	tickN(a, 2) // ~167ms
	if a.Scrolling() {
		t.Fatal("Scrolling still set after 150ms")
	}
	if a.AutoScrollSpeed() != 0 {
		t.Errorf("AutoScrollSpeed = %f after idle, want 0", a.AutoScrollSpeed())
	}
	if a.State() != StateIdle {
		t.Errorf("State = %v, want idle", a.State())
	}
}

func TestWheelDebounceRestarts(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(100)
	tickN(a, 6) // 100ms
	a.Wheel(100)
	tickN(a, 6) // 200ms total, 100ms since the last event
	if !a.Scrolling() {
		t.Fatal("second wheel event did not restart the debounce")
	}
	tickN(a, 4)
	if a.Scrolling() {
		t.Fatal("Scrolling still set 166ms after the last event")
	}
}

func TestKeyNudge(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext)
	if !approxEqual(a.TargetPosition(), 3.1, 1e-12) {
		t.Errorf("TargetPosition = %f, want 3.1", a.TargetPosition())
	}
	if !approxEqual(a.TargetDistortion(), 0.3, 1e-12) {
		t.Errorf("TargetDistortion = %f, want 0.3", a.TargetDistortion())
	}
	a.Key(DirectionPrev)
	a.Key(DirectionPrev)
	if !approxEqual(a.TargetPosition(), -3.1, 1e-12) {
		t.Errorf("TargetPosition = %f, want -3.1", a.TargetPosition())
	}
	a.Key(DirectionNext)
	if a.TargetDistortion() != 1 {
		t.Errorf("TargetDistortion = %f, want clamped to 1", a.TargetDistortion())
	}
	if a.Scrolling() {
		t.Error("keyboard input should not start momentum")
	}
}

func TestTouchReleaseScenario(t *testing.T) {
	a := newTestAnimator()
	a.TouchStart(0)
	if a.State() != StateScrolling {
		t.Errorf("State during touch = %v, want scrolling", a.State())
	}
	a.TouchMove(200)
	if !approxEqual(a.TargetPosition(), -2, 1e-12) {
		t.Errorf("TargetPosition = %f, want -2", a.TargetPosition())
	}
	a.TouchEnd()

	if !approxEqual(a.AutoScrollSpeed(), -0.1, 1e-12) {
		t.Errorf("AutoScrollSpeed = %f, want -0.1", a.AutoScrollSpeed())
	}
	if !approxEqual(a.TargetDistortion(), 1, 1e-12) {
		t.Errorf("TargetDistortion = %f, want 1", a.TargetDistortion())
	}
	if !a.Scrolling() {
		t.Fatal("Scrolling = false after fast release")
	}
	if a.Touching() {
		t.Error("Touching = true after release")
	}

	tickN(a, 47) // ~783ms
	if !a.Scrolling() {
		t.Fatal("momentum cleared before 800ms")
	}
	tickN(a, 2) // ~817ms
	if a.Scrolling() {
		t.Fatal("momentum still active after 800ms")
	}
}

func TestTouchSlowReleaseNoMomentum(t *testing.T) {
	a := newTestAnimator()
	a.TouchStart(100)
	a.TouchMove(150) // velocity 0.25
	a.TouchEnd()
	if a.Scrolling() {
		t.Error("slow swipe started momentum")
	}
	if a.AutoScrollSpeed() != 0 {
		t.Errorf("AutoScrollSpeed = %f, want 0", a.AutoScrollSpeed())
	}
}

func TestTouchMoveLowersDistortion(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext) // target distortion 0.3
	a.TouchStart(0)
	a.TouchMove(10)
	if !approxEqual(a.TargetDistortion(), 0.1, 1e-12) {
		t.Errorf("TargetDistortion = %f, want 0.1", a.TargetDistortion())
	}
	a.TouchMove(30)
	if !approxEqual(a.TargetDistortion(), -0.3, 1e-12) {
		t.Errorf("TargetDistortion = %f, want -0.3 (no lower clamp)", a.TargetDistortion())
	}
}

func TestTouchMoveWithoutStartIgnored(t *testing.T) {
	a := newTestAnimator()
	a.TouchMove(500)
	a.TouchEnd()
	if a.TargetPosition() != 0 || a.Scrolling() {
		t.Error("touch events without TouchStart should be ignored")
	}
}

func TestIdleStability(t *testing.T) {
	a := newTestAnimator()
	for i := 0; i < 5; i++ {
		a.Wheel(300)
		a.Tick(1.0 / 60)
	}
	if a.Distortion() <= 0 {
		t.Fatalf("Distortion = %f after fast scrolling, want > 0", a.Distortion())
	}

	tickN(a, 900)
	if math.Abs(a.Distortion()) > 1e-3 {
		t.Errorf("Distortion = %f after idling, want ~0", a.Distortion())
	}
	if math.Abs(a.TargetDistortion()) > 1e-3 {
		t.Errorf("TargetDistortion = %f after idling, want ~0", a.TargetDistortion())
	}
	if a.AutoScrollSpeed() != 0 {
		t.Errorf("AutoScrollSpeed = %f after idling, want 0", a.AutoScrollSpeed())
	}
	if !approxEqual(a.Position(), a.TargetPosition(), 1e-6) {
		t.Errorf("Position = %f, want target %f", a.Position(), a.TargetPosition())
	}
}

func TestVelocityRaisesDistortion(t *testing.T) {
	a := newTestAnimator()
	a.targetPosition = 20
	a.Tick(1.0 / 60)
	// position moved 2 units in 1/60s: velocity 120, so the target is raised
	// to min(1, 12) before decay applies.
	if a.TargetDistortion() < 0.8 {
		t.Errorf("TargetDistortion = %f, want near 1", a.TargetDistortion())
	}
	if a.Distortion() <= 0 {
		t.Errorf("Distortion = %f, want > 0", a.Distortion())
	}
}

// preloadVelocity fills the velocity buffer with samples.
func preloadVelocity(a *Animator, samples ...float64) {
	for _, v := range samples {
		a.velocity.Push(v)
	}
}

func TestDistortionDecaysWhileDecelerating(t *testing.T) {
	a := newTestAnimator()
	// After this tick's zero sample: avg 0.6, peak ~0.97, ratio below 0.7.
	preloadVelocity(a, 1, 1, 1, 1, 1, 0)
	a.targetDistortion = 0.5
	a.Tick(1.0 / 60)

	if !a.velocity.Decelerating() {
		t.Fatal("velocity should be decelerating")
	}
	if !approxEqual(a.TargetDistortion(), 0.5*0.95, 1e-12) {
		t.Errorf("TargetDistortion = %f, want %f", a.TargetDistortion(), 0.5*0.95)
	}
}

func TestDistortionDecaysFasterWhenIdle(t *testing.T) {
	a := newTestAnimator()
	a.targetDistortion = 0.5
	a.Tick(1.0 / 60)

	if a.velocity.Decelerating() {
		t.Fatal("zero velocity from rest should not count as decelerating")
	}
	want := 0.5 * 0.95 * 0.9
	if !approxEqual(a.TargetDistortion(), want, 1e-12) {
		t.Errorf("TargetDistortion = %f, want %f", a.TargetDistortion(), want)
	}
}

func TestDistortionHoldsAtSteadySpeed(t *testing.T) {
	a := newTestAnimator()
	preloadVelocity(a, 1, 1, 1, 1, 1)
	// One tick at smoothing 0.1 moves the position 1/60: velocity 1.
	a.targetPosition = 1.0 / 6
	a.targetDistortion = 0.9
	a.Tick(1.0 / 60)

	if !approxEqual(a.Snapshot().Velocity, 1, 1e-9) {
		t.Fatalf("velocity = %f, want 1", a.Snapshot().Velocity)
	}
	// v*0.1 = 0.1 is below the current target, which must not drop.
	if a.TargetDistortion() != 0.9 {
		t.Errorf("TargetDistortion = %f, want 0.9 unchanged", a.TargetDistortion())
	}
}

func TestDistortionRaisedToVelocityTarget(t *testing.T) {
	a := newTestAnimator()
	preloadVelocity(a, 1, 1, 1, 1, 1)
	a.targetPosition = 1.0 / 6
	a.targetDistortion = 0.05
	a.Tick(1.0 / 60)

	if !approxEqual(a.TargetDistortion(), 0.1, 1e-9) {
		t.Errorf("TargetDistortion = %f, want 0.1", a.TargetDistortion())
	}
}

func TestKeyNudgeReportsScrolling(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext)
	if a.State() != StateScrolling {
		t.Fatalf("State after key = %v, want scrolling", a.State())
	}
	tickN(a, 30)
	if a.State() != StateScrolling {
		t.Errorf("State while the nudge is moving = %v, want scrolling", a.State())
	}
	tickN(a, 200)
	if a.State() != StateIdle {
		t.Errorf("State after the nudge settled = %v, want idle", a.State())
	}
	if a.Scrolling() {
		t.Error("key nudge should not start momentum")
	}
}

func TestGoToReportsScrollingUntilSettled(t *testing.T) {
	a := newTestAnimator()
	a.GoTo(2, 500*time.Millisecond, ease.Linear)
	tickN(a, 40) // tween done, position still easing
	if a.State() != StateScrolling {
		t.Errorf("State = %v, want scrolling until the position settles", a.State())
	}
	tickN(a, 300)
	if a.State() != StateIdle {
		t.Errorf("State = %v, want idle", a.State())
	}
}

func TestWrapInvariant(t *testing.T) {
	a := newTestAnimator()
	rng := rand.New(rand.NewSource(1))
	cfg := a.Config()
	half := cfg.TotalWidth() / 2

	for frame := 0; frame < 2000; frame++ {
		switch rng.Intn(6) {
		case 0:
			a.Wheel(rng.Float64()*600 - 300)
		case 1:
			a.Key(Direction(rng.Intn(2)*2 - 1))
		}
		a.Tick(1.0 / 60)
		for _, s := range a.Slides() {
			if s.TargetX <= -half || s.TargetX > half {
				t.Fatalf("frame %d slide %d: TargetX %f outside (-%f, %f]", frame, s.Index, s.TargetX, half, half)
			}
		}
	}
}

func TestWrapSnap(t *testing.T) {
	a := newTestAnimator()
	snap := 2 * a.Config().SlideWidth
	prev := make([]float64, len(a.Slides()))
	snaps := 0

	for frame := 0; frame < 600; frame++ {
		for i, s := range a.Slides() {
			prev[i] = s.TargetX
		}
		a.Wheel(-400)
		a.Tick(1.0 / 60)
		for i, s := range a.Slides() {
			if math.Abs(s.TargetX-prev[i]) > snap {
				snaps++
				if s.CurrentX != s.TargetX {
					t.Fatalf("frame %d slide %d: wrapped but CurrentX %f != TargetX %f",
						frame, i, s.CurrentX, s.TargetX)
				}
			}
		}
	}
	if snaps == 0 {
		t.Fatal("no wrap occurred; test did not exercise the snap")
	}
}

func TestFirstTickSnapsSlideZeroToCentre(t *testing.T) {
	a := newTestAnimator()
	a.Tick(1.0 / 60)
	s := a.Slides()[0]
	if s.TargetX != 0 || s.CurrentX != 0 {
		t.Errorf("slide 0 current/target = %f/%f, want 0/0", s.CurrentX, s.TargetX)
	}
}

func TestFlatWithoutDistortion(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext)
	a.targetDistortion = 0
	a.targetPosition = 7.7
	for frame := 0; frame < 30; frame++ {
		// Pin distortion at zero while the strip moves.
		a.targetDistortion, a.currentDistortion = 0, 0
		a.layoutSlides()
		for _, s := range a.Slides() {
			for i := 0; i < s.Plane.VertexCount(); i++ {
				if s.Plane.Z(i) != 0 {
					t.Fatalf("slide %d vertex %d: Z = %f, want 0", s.Index, i, s.Plane.Z(i))
				}
			}
		}
		a.currentPosition += 0.37
	}
}

func TestTickIgnoresNonPositiveDt(t *testing.T) {
	a := newTestAnimator()
	a.Key(DirectionNext)
	a.Tick(0)
	a.Tick(-1)
	if a.Position() != 0 || a.Elapsed() != 0 {
		t.Errorf("Position = %f, Elapsed = %v after dt <= 0, want 0, 0", a.Position(), a.Elapsed())
	}
}

func TestGoToTweensToSlide(t *testing.T) {
	a := newTestAnimator()
	a.GoTo(3, 500*time.Millisecond, ease.Linear)
	tickN(a, 15)
	mid := a.TargetPosition()
	if mid <= 0 || mid >= 9.3 {
		t.Errorf("mid-tween target = %f, want between 0 and 9.3", mid)
	}
	tickN(a, 20)
	if !approxEqual(a.TargetPosition(), 9.3, 1e-4) {
		t.Errorf("TargetPosition = %f, want 9.3", a.TargetPosition())
	}
	if a.goTo != nil {
		t.Error("tween not cleared after finishing")
	}
}

func TestGoToTakesShortestPath(t *testing.T) {
	a := newTestAnimator()
	a.GoTo(9, 0, nil)
	if !approxEqual(a.TargetPosition(), -3.1, 1e-9) {
		t.Errorf("TargetPosition = %f, want -3.1", a.TargetPosition())
	}
	tickN(a, 300)
	if a.ActiveIndex() != 9 {
		t.Errorf("ActiveIndex = %d, want 9", a.ActiveIndex())
	}
}

func TestInputCancelsGoTo(t *testing.T) {
	a := newTestAnimator()
	a.GoTo(5, time.Second, ease.Linear)
	tickN(a, 5)
	a.Key(DirectionNext)
	if a.goTo != nil {
		t.Fatal("key input did not cancel the tween")
	}
	target := a.TargetPosition()
	tickN(a, 5)
	if a.TargetPosition() != target {
		t.Errorf("TargetPosition moved to %f after cancel, want %f", a.TargetPosition(), target)
	}
}

func TestSetSlideImageAspect(t *testing.T) {
	a := newTestAnimator()

	a.SetSlideImage(0, ebiten.NewImage(400, 100)) // wider than the 2:1 slide
	s := a.Slides()[0]
	if s.ScaleX != 1 || !approxEqual(s.ScaleY, 0.5, epsilon) {
		t.Errorf("wide image scale = %f,%f, want 1,0.5", s.ScaleX, s.ScaleY)
	}

	a.SetSlideImage(1, ebiten.NewImage(100, 100))
	s = a.Slides()[1]
	if !approxEqual(s.ScaleX, 0.5, epsilon) || s.ScaleY != 1 {
		t.Errorf("square image scale = %f,%f, want 0.5,1", s.ScaleX, s.ScaleY)
	}
	if !s.Material.Loaded() || !s.Material.Fading() || s.Material.Alpha != 0 {
		t.Errorf("material loaded=%v fading=%v alpha=%f, want true,true,0",
			s.Material.Loaded(), s.Material.Fading(), s.Material.Alpha)
	}

	tickN(a, 30) // 0.5s > 400ms fade
	if s.Material.Alpha != 1 || s.Material.Fading() {
		t.Errorf("alpha = %f fading = %v after fade, want 1, false", s.Material.Alpha, s.Material.Fading())
	}
}

func TestSetSlideImageIgnoresBadInput(t *testing.T) {
	a := newTestAnimator()
	a.SetSlideImage(-1, ebiten.NewImage(10, 10))
	a.SetSlideImage(10, ebiten.NewImage(10, 10))
	a.SetSlideImage(0, nil)
	for _, s := range a.Slides() {
		if s.Material.Loaded() {
			t.Fatalf("slide %d loaded from invalid input", s.Index)
		}
	}
}

func TestSnapshot(t *testing.T) {
	a := newTestAnimator()
	a.Wheel(100)
	a.Tick(1.0 / 60)
	snap := a.Snapshot()
	if snap.State != StateScrolling {
		t.Errorf("State = %v, want scrolling", snap.State)
	}
	if snap.Position != a.Position() || snap.TargetPosition != a.TargetPosition() {
		t.Error("snapshot positions do not match animator")
	}
	if snap.Velocity <= 0 || snap.AvgVelocity <= 0 {
		t.Errorf("velocity = %f avg = %f, want > 0", snap.Velocity, snap.AvgVelocity)
	}
	if snap.Elapsed != a.Elapsed() {
		t.Errorf("Elapsed = %v, want %v", snap.Elapsed, a.Elapsed())
	}
}
