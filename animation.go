package carousel

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PlaceholderColor fills a slide until its image arrives.
var PlaceholderColor = Color{R: 0.16, G: 0.17, B: 0.2, A: 1}

// Material is what a slide is drawn with: the placeholder until Image is
// set, then Image faded in over the placeholder.
type Material struct {
	Image *ebiten.Image
	// Alpha is the image opacity over the placeholder.
	Alpha float64

	fade *gween.Tween
}

func newMaterial() Material {
	return Material{}
}

// Loaded reports whether an image has been swapped in.
func (m *Material) Loaded() bool {
	return m.Image != nil
}

// Fading reports whether the fade-in is still running.
func (m *Material) Fading() bool {
	return m.fade != nil
}

// setImage swaps img in and starts a fade from transparent. A zero duration
// shows the image at full opacity immediately.
func (m *Material) setImage(img *ebiten.Image, duration float32) {
	m.Image = img
	if duration <= 0 {
		m.Alpha = 1
		m.fade = nil
		return
	}
	m.Alpha = 0
	m.fade = gween.New(0, 1, duration, ease.OutCubic)
}

// update advances the fade by dt seconds.
func (m *Material) update(dt float32) {
	if m.fade == nil {
		return
	}
	val, done := m.fade.Update(dt)
	m.Alpha = float64(val)
	if done {
		m.Alpha = 1
		m.fade = nil
	}
}

// scrollTween drives the target position toward a slide.
type scrollTween struct {
	tween *gween.Tween
	// base keeps float32 tween values small when the position has wandered
	// far from zero.
	base float64
}

func newScrollTween(from, to float64, duration float32, fn ease.TweenFunc) *scrollTween {
	return &scrollTween{
		tween: gween.New(0, float32(to-from), duration, fn),
		base:  from,
	}
}

// update returns the new target position and whether the tween finished.
func (t *scrollTween) update(dt float32) (float64, bool) {
	val, done := t.tween.Update(dt)
	return t.base + float64(val), done
}
