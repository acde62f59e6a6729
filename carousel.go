package carousel

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector. World space is right-handed: +X right, +Y up, +Z
// toward the viewer.
type Vec3 struct {
	X, Y, Z float64
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Normalize returns v scaled to unit length, or the zero vector if v is
// degenerate.
func (v Vec3) Normalize() Vec3 {
	l := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if l < 1e-10 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// State is the implicit mode of the carousel.
type State uint8

const (
	StateIdle      State = iota // no gesture or momentum; distortion relaxing
	StateScrolling              // driven by input or its momentum tail
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScrolling:
		return "scrolling"
	default:
		return "unknown"
	}
}

// Direction is a keyboard nudge direction.
type Direction int8

const (
	DirectionPrev Direction = -1 // left arrow
	DirectionNext Direction = 1  // right arrow
)

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// lerp moves cur toward target by factor t.
func lerp(cur, target, t float64) float64 {
	return cur + (target-cur)*t
}
