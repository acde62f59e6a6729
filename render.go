package carousel

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	ambientLight = 0.55
	diffuseLight = 0.45
)

// lightDir points from the surface toward the light: up and to the left of
// the viewer.
var lightDir = Vec3{X: -0.3, Y: 0.4, Z: 1}.Normalize()

// shade returns the Lambert brightness for a surface normal.
func shade(n Vec3) float64 {
	return ambientLight + diffuseLight*math.Max(0, n.Dot(lightDir))
}

// renderer projects slide planes through the camera and submits them with
// DrawTriangles. Buffers grow to a high-water mark and are reused.
type renderer struct {
	verts []ebiten.Vertex
	order []*Slide
	white *ebiten.Image

	triangles int
	drawCalls int
}

// ensureWhitePixel returns a lazily-initialized 1x1 white image for the
// untextured placeholder pass.
func (r *renderer) ensureWhitePixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(ColorWhite.toRGBA())
	}
	return r.white
}

// drawOrder returns the visible slides sorted far to near. The slide in the
// middle of the view bulges toward the camera, so it goes last.
func (r *renderer) drawOrder(slides []*Slide) []*Slide {
	r.order = r.order[:0]
	for _, s := range slides {
		if s.Visible {
			r.order = append(r.order, s)
		}
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		return math.Abs(r.order[i].X) > math.Abs(r.order[j].X)
	})
	return r.order
}

func (r *renderer) draw(screen *ebiten.Image, cam *Camera, slides []*Slide) {
	r.triangles, r.drawCalls = 0, 0
	halfW := cam.VisibleHalfWidth()

	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.Filter = ebiten.FilterLinear
	op.AntiAlias = true

	for _, s := range r.drawOrder(slides) {
		if math.Abs(s.X)-s.Plane.width/2*s.ScaleX > halfW {
			continue
		}
		m := &s.Material
		if !m.Loaded() || m.Alpha < 1 {
			if !r.project(s, cam, nil, PlaceholderColor) {
				continue
			}
			r.submit(screen, s, r.ensureWhitePixel(), &op)
		}
		if m.Loaded() && m.Alpha > 0 {
			if !r.project(s, cam, m.Image, Color{R: 1, G: 1, B: 1, A: m.Alpha}) {
				continue
			}
			r.submit(screen, s, m.Image, &op)
		}
	}
}

func (r *renderer) submit(screen *ebiten.Image, s *Slide, img *ebiten.Image, op *ebiten.DrawTrianglesOptions) {
	inds := s.Plane.Indices()
	screen.DrawTriangles(r.verts, inds, img, op)
	r.triangles += len(inds) / 3
	r.drawCalls++
}

// project fills r.verts with the slide's plane in screen space. With a nil
// img every vertex samples the centre of the white pixel. Colors are
// premultiplied and scaled by the vertex's Lambert term. Returns false if any
// vertex falls behind the camera.
func (r *renderer) project(s *Slide, cam *Camera, img *ebiten.Image, tint Color) bool {
	p := s.Plane
	n := p.VertexCount()
	if cap(r.verts) < n {
		r.verts = make([]ebiten.Vertex, n)
	}
	r.verts = r.verts[:n]

	var srcX, srcY, srcW, srcH float64
	if img != nil {
		b := img.Bounds()
		srcX, srcY = float64(b.Min.X), float64(b.Min.Y)
		srcW, srcH = float64(b.Dx()), float64(b.Dy())
	}

	for i := 0; i < n; i++ {
		v := p.Vertex(i)
		world := Vec3{X: s.X + v.X*s.ScaleX, Y: v.Y * s.ScaleY, Z: v.Z}
		sx, sy, ok := cam.Project(world)
		if !ok {
			return false
		}

		l := shade(p.Normal(i))
		a := tint.A
		vert := ebiten.Vertex{
			DstX:   float32(sx),
			DstY:   float32(sy),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: float32(tint.R * l * a),
			ColorG: float32(tint.G * l * a),
			ColorB: float32(tint.B * l * a),
			ColorA: float32(a),
		}
		if img != nil {
			u, vv := p.UV(i)
			vert.SrcX = float32(srcX + u*srcW)
			vert.SrcY = float32(srcY + vv*srcH)
		}
		r.verts[i] = vert
	}
	return true
}
