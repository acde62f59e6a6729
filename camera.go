package carousel

import "math"

// Camera is a perspective camera at (0, 0, z) looking down -Z with +Y up.
// It maps world points onto a viewport of width x height pixels. The eye
// position and field of view are fixed at construction.
type Camera struct {
	z   float64 // distance of the eye from the slide plane
	fov float64 // vertical field of view in degrees

	width, height float64
	focal         float64 // pixels per world unit at distance 1
	dirty         bool
}

// NewCamera creates a camera for a viewport of the given pixel size.
func NewCamera(fov, z float64, width, height int) *Camera {
	c := &Camera{z: z, fov: fov, dirty: true}
	c.Resize(width, height)
	return c
}

// Resize updates the viewport size. The projection is recomputed lazily.
func (c *Camera) Resize(width, height int) {
	w, h := float64(width), float64(height)
	if w == c.width && h == c.height {
		return
	}
	c.width, c.height = w, h
	c.dirty = true
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (width, height float64) {
	return c.width, c.height
}

func (c *Camera) computeProjection() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.focal = (c.height / 2) / math.Tan(c.fov*math.Pi/360)
}

// Project maps a world point to screen pixels. ok is false for points at
// or behind the eye.
func (c *Camera) Project(p Vec3) (sx, sy float64, ok bool) {
	c.computeProjection()
	depth := c.z - p.Z
	if depth <= 1e-6 {
		return 0, 0, false
	}
	s := c.focal / depth
	return c.width/2 + p.X*s, c.height/2 - p.Y*s, true
}

// VisibleHalfWidth returns half the world-space width visible on the z=0
// plane.
func (c *Camera) VisibleHalfWidth() float64 {
	c.computeProjection()
	if c.focal == 0 {
		return 0
	}
	return (c.width / 2) * c.z / c.focal
}
