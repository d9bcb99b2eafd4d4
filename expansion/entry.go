package expansion

import (
	"math"

	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/set"
)

const (
	MaxAngle        = 45
	HandleThickness = 0.05
	HandleStart     = 0.5
	highlightExtent = 1.05
)

var HighlightColor = f32.Vec4{1, 1, 1, 0.025}

// Entry is a live time expansion between two anchor axes.
type Entry struct {
	ID          int
	Left, Right int // anchors, Left has the smaller position

	// Angle of tilt in degrees, see Angle.
	Angle                 float32
	ModelLeft, ModelRight f32.Mat4
	View                  f32.Mat4

	// Absorbed axes lie strictly between the anchors.
	Absorbed set.Slice[int]

	Handles   [2]Handle
	Highlight Highlight
	Middle    Middle

	live bool
}

// Touches reports whether axis is an anchor or absorbed by e.
func (e *Entry) Touches(axis int) bool {
	return axis == e.Left || axis == e.Right || e.Absorbed.Has(axis)
}

// Is reports whether e is anchored on a and b in either order.
func (e *Entry) Is(a, b int) bool {
	return (e.Left == a && e.Right == b) || (e.Left == b && e.Right == a)
}

// Angle returns the tilt for anchors dist apart in data space, proportional to
// their on-screen distance and limited to [0, MaxAngle].
func Angle(dist, scale float32) float32 {
	if dist == 0 || scale == 0 {
		return 0
	}
	a := MaxAngle * float32(math.Abs(float64(dist))) * scale / 2
	return geom.Clamp(a, 0, MaxAngle)
}

// Handle is a draggable time marker on one anchor; T in [0, 1] picks depth.
type Handle struct {
	T         float32
	Thickness float32
	Hot       bool

	// Corners in normalized device space, left corners have smaller x.
	Bounds geom.Quad
}

func newHandle() Handle { return Handle{T: HandleStart, Thickness: HandleThickness} }

// height returns half height of the handle edge at local depth x.
func (h *Handle) height(x float32) float32 {
	return geom.Remap(1-x, f32.Vec2{0, 1}, f32.Vec2{0.125 * (1 + h.Thickness), 1 + h.Thickness})
}

// Place recomputes corners of h drawn with model.
func (h *Handle) Place(model f32.Mat4) {
	x0, x1 := h.T-h.Thickness/2, h.T+h.Thickness/2
	y0, y1 := h.height(x0), h.height(x1)
	pt := func(x, y float32) f32.Vec2 {
		v := geom.Transform16fv(model, f32.Vec4{x, y, 0, 1})
		return f32.Vec2{v[0], v[1]}
	}
	q := geom.Quad{UL: pt(x0, y0), UR: pt(x1, y1), LL: pt(x0, -y0), LR: pt(x1, -y1)}
	if q.UL[0] > q.UR[0] {
		q.UL, q.UR = q.UR, q.UL
		q.LL, q.LR = q.LR, q.LL
	}
	h.Bounds = q
}

// Drag moves T by horizontal normalized delta dx as seen under tilt angle.
// Reports false when the handle is seen edge-on and cannot move.
func (h *Handle) Drag(dx, angle, scale float32) bool {
	proj := float32(math.Sin(float64(angle)*math.Pi/180)) * scale
	if math.Abs(float64(proj)) < 1e-6 {
		return false
	}
	h.T = geom.Clamp(h.T-dx/proj, 0, 1)
	return true
}

func (h *Handle) vertices(dst []float32) []float32 {
	q := h.Bounds
	return append(dst, q.UL[0], q.UL[1], q.UR[0], q.UR[1], q.LL[0], q.LL[1], q.LR[0], q.LR[1])
}

// Highlight is the overlay drawn between anchors while axes are being absorbed.
type Highlight struct {
	Active   bool
	Color    f32.Vec4
	Vertices [8]float32 // data space xy of ul, ur, ll, lr
}

func (h *Highlight) place(left, right float32) {
	e := float32(highlightExtent)
	h.Vertices = [8]float32{left, e, right, e, left, -e, right, -e}
}

// Middle is the segment drawn through absorbed axes.
type Middle struct {
	Order   []int    // left anchor, absorbed by position, right anchor
	Indices []uint32 // for every line, doubled on interior axes
}

func (m *Middle) set(order []int, attrs, rows int) bool {
	if equalInts(m.Order, order) {
		return false
	}
	m.Order = order
	m.Indices = MiddleIndices(order, attrs, rows)
	return true
}

// Depth returns the handle value of anchor axis, or 0 for any other axis.
func (e *Entry) Depth(axis int) float32 {
	switch axis {
	case e.Left:
		return e.Handles[0].T
	case e.Right:
		return e.Handles[1].T
	}
	return 0
}

// MiddleVertex returns the data space point and row of middle vertex v. Anchors
// take their value at the depth of their handle, absorbed axes the first step.
func (e *Entry) MiddleVertex(p *plot.Plot, v uint32) (f32.Vec2, int) {
	attr := int(v) % p.NumAxes()
	pt, row, _ := p.VertexAt(v, e.Depth(attr))
	return pt, row
}

// MiddleIndices returns the line index buffer through order for rows of attrs.
func MiddleIndices(order []int, attrs, rows int) []uint32 {
	out := make([]uint32, 0, rows*2*len(order))
	for row := 0; row < rows; row++ {
		base := uint32(row * attrs)
		for k, a := range order {
			out = append(out, base+uint32(a))
			if k != 0 && k != len(order)-1 {
				out = append(out, base+uint32(a))
			}
		}
	}
	return out
}

// TimeAxis returns depth of each time step spread over [0, 1].
func TimeAxis(steps int) []float32 {
	out := make([]float32, steps)
	for i := range out {
		if steps > 1 {
			out[i] = float32(i) / float32(steps-1)
		}
	}
	return out
}

// TimeIndices returns the index buffer joining consecutive time steps of every
// line, where vertex row*steps+step is a line at a step.
func TimeIndices(rows, steps int) []uint32 {
	if steps < 2 {
		return []uint32{0, 0}
	}
	out := make([]uint32, 0, rows*2*(steps-1))
	for row := 0; row < rows; row++ {
		base := uint32(row * steps)
		for s := 0; s < steps; s++ {
			out = append(out, base+uint32(s))
			if s != 0 && s != steps-1 {
				out = append(out, base+uint32(s))
			}
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
