package carousel

import "math"

// Slide is one carousel item. Index and BaseOffset are fixed at creation;
// TargetX and CurrentX are recomputed every frame by the layout pass.
type Slide struct {
	Index      int
	ImageIndex int
	BaseOffset float64

	// TargetX is the wrapped screen-space position the slide is heading to.
	TargetX float64
	// CurrentX trails TargetX by SlideLerp per frame, except across a wrap.
	CurrentX float64

	// X is the position the plane was last deformed and drawn at. It goes
	// stale while the slide is culled.
	X float64
	// ScaleX and ScaleY correct the plane for the loaded image's aspect.
	ScaleX, ScaleY float64
	Visible        bool

	Plane    *Plane
	Material Material
}

func newSlide(index int, cfg *Config) *Slide {
	unit := cfg.SlideUnit()
	x := float64(index)*unit - cfg.TotalWidth()/2
	return &Slide{
		Index:      index,
		ImageIndex: index % cfg.ImagesCount,
		BaseOffset: float64(index) * unit,
		TargetX:    x,
		CurrentX:   x,
		X:          x,
		ScaleX:     1,
		ScaleY:     1,
		Visible:    true,
		Plane:      NewPlane(cfg.SlideWidth, cfg.SlideHeight, cfg.Segments.X, cfg.Segments.Y),
		Material:   newMaterial(),
	}
}

// wrapOffset maps an unwrapped strip offset onto the shortest signed offset
// from the viewer, in (-total/2, total/2].
func wrapOffset(x, total float64) float64 {
	x = math.Mod(math.Mod(x, total)+total, total)
	if x > total/2 {
		x -= total
	}
	return x
}

// fitAspect returns the plane scale that letterboxes an image of the given
// aspect (w/h) into a slide of the given aspect without stretching it.
func fitAspect(imageAspect, slideAspect float64) (sx, sy float64) {
	if imageAspect > slideAspect {
		return 1, slideAspect / imageAspect
	}
	return imageAspect / slideAspect, 1
}

// layoutSlides positions every slide for the current scroll position and
// deforms the visible ones.
func (a *Animator) layoutSlides() {
	unit := a.cfg.SlideUnit()
	total := a.cfg.TotalWidth()
	snap := 2 * a.cfg.SlideWidth
	cull := 1.5 * (total/2 + a.cfg.SlideWidth)

	for _, s := range a.slides {
		baseX := wrapOffset(float64(s.Index)*unit-a.currentPosition, total)

		// Crossing the wrap seam: jump instead of sliding across the strip.
		if math.Abs(baseX-s.TargetX) > snap {
			s.CurrentX = baseX
		}
		s.TargetX = baseX
		s.CurrentX = lerp(s.CurrentX, s.TargetX, a.cfg.SlideLerp)

		s.Visible = math.Abs(s.CurrentX) < cull
		if !s.Visible {
			continue
		}
		s.X = s.CurrentX
		s.Plane.ApplyCurve(s.X, a.currentDistortion, a.cfg.MaxDistortion, a.cfg.DistortionRadius)
	}
}
