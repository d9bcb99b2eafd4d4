package tool

import (
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/set"
)

// BoxSelect highlights lines crossing a rectangle dragged in data space.
type BoxSelect struct {
	Active bool
	C1, C2 f32.Vec2

	selected set.Slice[int]
	index    segmentIndex
}

// SetOrigin clears the previous selection and starts a rectangle at pos.
func (t *BoxSelect) SetOrigin(ctx Context, pos f32.Vec2) bool {
	t.selected = t.selected[:0]
	ctx.Plot.ResetColors()
	t.C1 = ctx.ToData(pos)
	t.Active = true
	t.Update(ctx, pos)
	return true
}

// Update moves the free corner to pos and recomputes the selection.
func (t *BoxSelect) Update(ctx Context, pos f32.Vec2) bool {
	if !t.Active {
		return false
	}
	t.C2 = ctx.ToData(pos)
	t.selected = t.index.intersect(ctx.Plot, t.Rect(), t.selected[:0])
	ctx.Plot.Highlight(t.selected)
	ctx.Plot.Uploader().UploadFloats(plot.Buffer{Kind: plot.SelectionRect}, 0, t.Outline())
	return true
}

// Select replaces the rectangle with corners c1, c2 in data space and
// recomputes the selection without starting a drag.
func (t *BoxSelect) Select(ctx Context, c1, c2 f32.Vec2) {
	ctx.Plot.ResetColors()
	t.C1, t.C2 = c1, c2
	t.selected = t.index.intersect(ctx.Plot, t.Rect(), t.selected[:0])
	ctx.Plot.Highlight(t.selected)
	ctx.Plot.Uploader().UploadFloats(plot.Buffer{Kind: plot.SelectionRect}, 0, t.Outline())
}

// Stop ends the drag; the rectangle and selection are kept.
func (t *BoxSelect) Stop() bool {
	t.Active = false
	return true
}

// Rect returns the normalized selection rectangle.
func (t *BoxSelect) Rect() geom.AABB { return geom.NewAABB(t.C1, t.C2) }

// Outline returns the rectangle corners as a line loop of xy pairs.
func (t *BoxSelect) Outline() []float32 {
	return []float32{
		t.C1[0], t.C1[1],
		t.C2[0], t.C1[1],
		t.C2[0], t.C2[1],
		t.C1[0], t.C2[1],
	}
}

// Selected returns ids of lines crossing the rectangle; callers must not modify.
func (t *BoxSelect) Selected() set.Slice[int] { return t.selected }

// Intersect returns rows of p with any segment crossing r, testing every segment.
func Intersect(p *plot.Plot, r geom.AABB) set.Slice[int] {
	var sel set.Slice[int]
	for k := 0; k < p.Segments(); k++ {
		a, b, row := p.Segment(k)
		if !sel.Has(row) && SegmentHits(a, b, r) {
			sel.Insert(row)
		}
	}
	return sel
}

// SegmentHits reports whether the rendered curve from a to b crosses r.
//
// The curve is the cubic with both inner control points at the horizontal
// midpoint, level with their endpoint. It is sampled where x crosses the left
// and right edge of r, taking the x fraction as curve parameter.
func SegmentHits(a, b f32.Vec2, r geom.AABB) bool {
	if !geom.NewAABB(a, b).Overlaps(r) {
		return false
	}
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	dx := b[0] - a[0]
	if dx == 0 {
		return true
	}
	mid := (a[0] + b[0]) / 2
	p1, p2 := f32.Vec2{mid, a[1]}, f32.Vec2{mid, b[1]}
	for _, x := range [2]float32{r.Min[0], r.Max[0]} {
		u := (x - a[0]) / dx
		if u < 0 || u > 1 {
			continue
		}
		if y := geom.Bezier(u, a, p1, p2, b)[1]; r.Min[1] <= y && y <= r.Max[1] {
			return true
		}
	}
	return false
}
