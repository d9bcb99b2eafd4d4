// Package plot holds the axis model and line buffers of a parallel coordinates plot.
//
// Axis positions are in data space, [-1, 1] before the draw scale is applied.
// Order is the visual left-to-right permutation of axes and is only resorted
// when a caller asks for it. Every mutation that changes what the renderer
// reads is pushed through an Uploader before returning.
package plot

import (
	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/set"
)

// Palette colors lines by consecutive row groups.
type Palette struct {
	Groups    []f32.Vec4 // color of each group, last one repeats
	GroupSize int        // rows per group; zero puts every row in the first group
	Highlight f32.Vec4   // color of selected lines
}

// DefaultPalette matches three groups of fifty rows, like the iris dataset.
var DefaultPalette = Palette{
	Groups: []f32.Vec4{
		{0.30, 0.55, 0.85, 0.6},
		{0.35, 0.75, 0.45, 0.6},
		{0.90, 0.60, 0.25, 0.6},
	},
	GroupSize: 50,
	Highlight: f32.Vec4{1, 0, 0, 1},
}

// Color returns base color of row.
func (p Palette) Color(row int) f32.Vec4 {
	if len(p.Groups) == 0 {
		return f32.Vec4{1, 1, 1, 1}
	}
	g := 0
	if p.GroupSize > 0 {
		g = row / p.GroupSize
	}
	if g >= len(p.Groups) {
		g = len(p.Groups) - 1
	}
	return p.Groups[g]
}

// Plot owns axis positions, order, exclusion and the derived line buffers.
type Plot struct {
	data    Data
	palette Palette
	up      Uploader

	pos      []float32
	order    []int
	excluded []int
	middle   set.Slice[int]

	indices []uint32
	colors  []float32

	rev uint64
}

// New returns plot of d with evenly spaced axes in attribute order. Buffers are
// uploaded before returning. A nil uploader discards.
func New(d Data, pal Palette, up Uploader) (*Plot, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if up == nil {
		up = Discard
	}
	n := d.Attrs
	p := &Plot{
		data:     d,
		palette:  pal,
		up:       up,
		pos:      make([]float32, n),
		order:    make([]int, n),
		excluded: make([]int, n),
	}
	for i := range p.pos {
		if n > 1 {
			p.pos[i] = -1 + 2*float32(i)/float32(n-1)
		}
		p.order[i] = i
	}
	p.colors = make([]float32, 4*d.Rows)
	p.ResetColors()
	p.recompute()
	p.up.UploadFloats(Buffer{Kind: AxisPositions}, 0, p.pos)
	return p, nil
}

func (p *Plot) Data() Data { return p.data }
func (p *Plot) Palette() Palette { return p.palette }
func (p *Plot) NumAxes() int { return p.data.Attrs }
func (p *Plot) Rows() int { return p.data.Rows }
func (p *Plot) Steps() int { return p.data.Steps }
func (p *Plot) Uploader() Uploader { return p.up }

// Positions returns axis positions indexed by axis; callers must not modify.
func (p *Plot) Positions() []float32 { return p.pos }

// Position returns x of axis i.
func (p *Plot) Position(i int) float32 { return p.pos[i] }

// Order returns the visual permutation; callers must not modify.
func (p *Plot) Order() []int { return p.order }

// Excluded returns exclusion count per axis; callers must not modify.
func (p *Plot) Excluded() []int { return p.excluded }

// Middle returns the axes absorbed by any expansion.
func (p *Plot) Middle() set.Slice[int] { return p.middle }

// Indices returns the current line index buffer; callers must not modify.
func (p *Plot) Indices() []uint32 { return p.indices }

// Colors returns rgba per line; callers must not modify.
func (p *Plot) Colors() []float32 { return p.colors }

// Revision changes whenever positions or line indices change.
func (p *Plot) Revision() uint64 { return p.rev }

// SetPositions replaces every axis position. Order is not touched; see Resort.
// Panics if len(pos) is not the axis count.
func (p *Plot) SetPositions(pos []float32) {
	if len(pos) != len(p.pos) {
		panic("plot: position count does not match axis count")
	}
	copy(p.pos, pos)
	p.rev++
	p.up.UploadFloats(Buffer{Kind: AxisPositions}, 0, p.pos)
}

// Move sets x of axis i.
func (p *Plot) Move(i int, x float32) {
	p.pos[i] = x
	p.rev++
	p.up.UploadFloats(Buffer{Kind: AxisPositions}, i, p.pos[i:i+1])
}

// Resort orders axes by position and reports whether order changed,
// recomputing line indices if so.
func (p *Plot) Resort() bool {
	order := append([]int(nil), p.order...)
	if !geom.SortWithIndices(p.pos, order) {
		return false
	}
	p.SetOrder(order)
	return true
}

// SetOrder replaces the visual permutation and recomputes line indices when it
// differs. Panics if order is not a permutation of all axes.
func (p *Plot) SetOrder(order []int) {
	if len(order) != len(p.order) || !IsPermutation(order) {
		panic("plot: order is not a permutation of axes")
	}
	if equalInts(order, p.order) {
		return
	}
	copy(p.order, order)
	log.Debug("axis order changed", "order", p.order)
	p.recompute()
}

// SetExclusion replaces exclusion counts and absorbed axes, recomputing line
// indices when counts differ. Panics if len(counts) is not the axis count.
func (p *Plot) SetExclusion(counts []int, middle set.Slice[int]) {
	if len(counts) != len(p.excluded) {
		panic("plot: exclusion count does not match axis count")
	}
	p.middle = middle.Clone()
	if equalInts(counts, p.excluded) {
		return
	}
	copy(p.excluded, counts)
	log.Debug("axis exclusion changed", "excluded", p.excluded)
	p.recompute()
}

func (p *Plot) recompute() {
	p.indices = Indices(p.order, p.excluded, p.data.Rows)
	p.rev++
	p.up.UploadIndices(Buffer{Kind: LineIndices}, 0, p.indices)
}

// Vertex returns data space point of line vertex v, which encodes row v/N and
// attribute v%N, at the first time step.
func (p *Plot) Vertex(v uint32) (pt f32.Vec2, row, attr int) {
	return p.VertexAt(v, 0)
}

// VertexAt is Vertex at depth t in [0, 1] of the time range, interpolating
// between the bracketing time steps.
func (p *Plot) VertexAt(v uint32, t float32) (pt f32.Vec2, row, attr int) {
	n := p.data.Attrs
	row, attr = int(v)/n, int(v)%n
	lo, hi, frac := StepRange(t, p.data.Steps)
	a, b := p.data.Value(lo, row, attr), p.data.Value(hi, row, attr)
	y := geom.Remap(a+(b-a)*frac, p.data.Ranges[attr], f32.Vec2{-1, 1})
	return f32.Vec2{p.pos[attr], y}, row, attr
}

// StepRange returns the time steps bracketing depth t over steps and how far t
// lies from lo toward hi.
func StepRange(t float32, steps int) (lo, hi int, frac float32) {
	if steps < 2 {
		return 0, 0, 0
	}
	x := geom.Clamp(t, 0, 1) * float32(steps-1)
	lo = int(x)
	if lo >= steps-1 {
		return steps - 1, steps - 1, 0
	}
	return lo, lo + 1, x - float32(lo)
}

// Segments returns the number of segments in the line index buffer.
func (p *Plot) Segments() int { return len(p.indices) / 2 }

// Segment returns endpoints of segment k and the row it belongs to.
func (p *Plot) Segment(k int) (a, b f32.Vec2, row int) {
	a, row, _ = p.Vertex(p.indices[2*k])
	b, _, _ = p.Vertex(p.indices[2*k+1])
	return a, b, row
}

// ResetColors restores the palette color of every line.
func (p *Plot) ResetColors() {
	for row := 0; row < p.data.Rows; row++ {
		c := p.palette.Color(row)
		copy(p.colors[4*row:], c[:])
	}
	p.up.UploadFloats(Buffer{Kind: LineColors}, 0, p.colors)
}

// Highlight colors rows in sel with the palette highlight and every other row
// with its base color.
func (p *Plot) Highlight(sel set.Slice[int]) {
	for row := 0; row < p.data.Rows; row++ {
		c := p.palette.Color(row)
		if sel.Has(row) {
			c = p.palette.Highlight
		}
		copy(p.colors[4*row:], c[:])
	}
	p.up.UploadFloats(Buffer{Kind: LineColors}, 0, p.colors)
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
