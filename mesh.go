package carousel

import "math"

// Plane is a deformable rectangular grid mesh centred on its local origin.
// Only the Z coordinate of each vertex is ever displaced; X and Y stay at
// the rest positions captured at construction, so every deformation is a
// pure function of the inputs to ApplyCurve and never accumulates.
type Plane struct {
	cols, rows    int
	width, height float64

	rest    []Vec2 // undeformed vertex positions, immutable
	z       []float64
	normals []Vec3
	indices []uint16

	normalsDirty bool
}

// NewPlane builds a width x height plane with cols x rows cells.
// Vertices are laid out row-major from the top edge (+Y) down, left to right.
func NewPlane(width, height float64, cols, rows int) *Plane {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	vcols := cols + 1
	vrows := rows + 1
	numVerts := vcols * vrows

	p := &Plane{
		cols:    cols,
		rows:    rows,
		width:   width,
		height:  height,
		rest:    make([]Vec2, numVerts),
		z:       make([]float64, numVerts),
		normals: make([]Vec3, numVerts),
		indices: make([]uint16, cols*rows*6),
	}

	cellW := width / float64(cols)
	cellH := height / float64(rows)
	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			idx := r*vcols + c
			p.rest[idx] = Vec2{
				X: -width/2 + float64(c)*cellW,
				Y: height/2 - float64(r)*cellH,
			}
			p.normals[idx] = Vec3{Z: 1}
		}
	}

	ii := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := uint16(r*vcols + c)
			tr := tl + 1
			bl := uint16((r+1)*vcols + c)
			br := bl + 1
			p.indices[ii+0] = tl
			p.indices[ii+1] = bl
			p.indices[ii+2] = tr
			p.indices[ii+3] = tr
			p.indices[ii+4] = bl
			p.indices[ii+5] = br
			ii += 6
		}
	}
	return p
}

// Cols returns the number of grid columns.
func (p *Plane) Cols() int { return p.cols }

// Rows returns the number of grid rows.
func (p *Plane) Rows() int { return p.rows }

// VertexCount returns (Cols+1)*(Rows+1).
func (p *Plane) VertexCount() int { return len(p.rest) }

// Indices returns the triangle list. The returned slice MUST NOT be mutated.
func (p *Plane) Indices() []uint16 { return p.indices }

// Rest returns the undeformed position of vertex i.
func (p *Plane) Rest(i int) Vec2 { return p.rest[i] }

// Z returns the current Z displacement of vertex i.
func (p *Plane) Z(i int) float64 { return p.z[i] }

// Vertex returns the current local position of vertex i.
func (p *Plane) Vertex(i int) Vec3 {
	r := p.rest[i]
	return Vec3{X: r.X, Y: r.Y, Z: p.z[i]}
}

// UV returns the texture coordinate of vertex i in [0,1], with v=0 at the top
// edge.
func (p *Plane) UV(i int) (u, v float64) {
	vcols := p.cols + 1
	return float64(i%vcols) / float64(p.cols), float64(i/vcols) / float64(p.rows)
}

// ApplyCurve displaces every vertex along Z for a plane whose origin sits at
// worldX. The bulge is centred on the world origin, so a plane deforms most
// while it passes through the middle of the view:
//
//	r = |(worldX + x, y)|
//	strength = max(0, 1 - r/radius)
//	z = sin(strength*pi/2)^1.5 * maxDistortion * d
func (p *Plane) ApplyCurve(worldX, d, maxDistortion, radius float64) {
	for i, rest := range p.rest {
		wx := worldX + rest.X
		r := math.Sqrt(wx*wx + rest.Y*rest.Y)
		strength := math.Max(0, 1-r/radius)
		p.z[i] = math.Pow(math.Sin(strength*math.Pi/2), 1.5) * maxDistortion * d
	}
	p.normalsDirty = true
}

// Normal returns the lighting normal of vertex i, recomputing all normals
// first if the surface changed since the last call.
func (p *Plane) Normal(i int) Vec3 {
	p.recomputeNormals()
	return p.normals[i]
}

// recomputeNormals derives per-vertex normals from central differences of
// the height field, falling back to one-sided differences on the edges.
func (p *Plane) recomputeNormals() {
	if !p.normalsDirty {
		return
	}
	vcols := p.cols + 1
	vrows := p.rows + 1
	cellW := p.width / float64(p.cols)
	cellH := p.height / float64(p.rows)

	for r := 0; r < vrows; r++ {
		r0, r1 := max(r-1, 0), min(r+1, vrows-1)
		for c := 0; c < vcols; c++ {
			c0, c1 := max(c-1, 0), min(c+1, vcols-1)

			dzdx := (p.z[r*vcols+c1] - p.z[r*vcols+c0]) / (float64(c1-c0) * cellW)
			// Rows run top to bottom, so +Y is toward r0.
			dzdy := (p.z[r0*vcols+c] - p.z[r1*vcols+c]) / (float64(r1-r0) * cellH)

			p.normals[r*vcols+c] = Vec3{X: -dzdx, Y: -dzdy, Z: 1}.Normalize()
		}
	}
	p.normalsDirty = false
}
