package tool

import (
	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
)

const (
	AxisThickness = 0.05
	AxisExtent    = 1.05 // half height of an axis hitbox
)

var (
	AxisColor    = f32.Vec4{0.180, 0.215, 0.298, 0.2}
	AxisHotColor = f32.Vec4{0.180, 0.215, 0.298, 0.4}
)

// floats per axis quad; four vertices of xy rgba.
const quadStride = 4 * 6

// AxisDrag moves axes under the pointer. Several axes may be hot at once when
// their hitboxes overlap; all of them move together.
type AxisDrag struct {
	Thickness float32
	Color     f32.Vec4
	HotColor  f32.Vec4

	hot   []bool
	quads []float32
}

// NewAxisDrag returns tool for n axes with default look.
func NewAxisDrag(n int) *AxisDrag {
	return &AxisDrag{
		Thickness: AxisThickness,
		Color:     AxisColor,
		HotColor:  AxisHotColor,
		hot:       make([]bool, n),
		quads:     make([]float32, n*quadStride),
	}
}

// Hitbox returns data space box of axis i.
func (t *AxisDrag) Hitbox(ctx Context, i int) geom.AABB {
	x, h := ctx.Plot.Position(i), t.Thickness/2
	return geom.NewAABB(f32.Vec2{x - h, AxisExtent}, f32.Vec2{x + h, -AxisExtent})
}

// Hot reports whether axis i is under the pointer; callers must not modify.
func (t *AxisDrag) Hot() []bool { return t.hot }

// Engaged reports whether any axis is hot.
func (t *AxisDrag) Engaged() bool {
	for _, h := range t.hot {
		if h {
			return true
		}
	}
	return false
}

// Hover marks every axis whose hitbox contains pos and recolors on change.
func (t *AxisDrag) Hover(ctx Context, pos f32.Vec2) bool {
	p := ctx.ToData(pos)
	changed := false
	for i := range t.hot {
		h := t.Hitbox(ctx, i).Contains(p)
		changed = changed || h != t.hot[i]
		t.hot[i] = h
	}
	if changed {
		t.Sync(ctx)
	}
	return t.Engaged()
}

// Drag shifts hot axes by the data space delta between prev and cur, resorting
// the plot order. Reports whether any axis is engaged.
func (t *AxisDrag) Drag(ctx Context, prev, cur f32.Vec2) bool {
	if !t.Engaged() {
		return false
	}
	dx := ctx.ToData(cur)[0] - ctx.ToData(prev)[0]
	if dx == 0 {
		return true
	}
	p := ctx.Plot
	pos := append([]float32(nil), p.Positions()...)
	for i, h := range t.hot {
		if h {
			pos[i] += dx
		}
	}
	p.SetPositions(pos)
	if p.Resort() {
		log.Debug("axes reordered", "order", p.Order())
	}
	t.Sync(ctx)
	return true
}

// Release ends a drag; reports whether an axis was engaged.
func (t *AxisDrag) Release(ctx Context, prev, cur f32.Vec2) bool {
	return t.Drag(ctx, prev, cur)
}

// Quads returns hitbox vertices, four per axis of xy rgba; callers must not modify.
func (t *AxisDrag) Quads() []float32 { return t.quads }

// Sync rebuilds hitbox quads from current positions and uploads them.
func (t *AxisDrag) Sync(ctx Context) {
	for i := range t.hot {
		r := t.Hitbox(ctx, i)
		c := t.Color
		if t.hot[i] {
			c = t.HotColor
		}
		q := t.quads[i*quadStride:]
		for j, v := range [4]f32.Vec2{
			{r.Min[0], r.Max[1]}, {r.Max[0], r.Max[1]},
			{r.Min[0], r.Min[1]}, {r.Max[0], r.Min[1]},
		} {
			copy(q[j*6:], []float32{v[0], v[1], c[0], c[1], c[2], c[3]})
		}
	}
	ctx.Plot.Uploader().UploadFloats(plot.Buffer{Kind: plot.AxisQuads}, 0, t.quads)
}
