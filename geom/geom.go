// Package geom provides plane primitives for hit testing, curve evaluation and
// axis ordering. Points are f32.Vec2 in normalized or data space.
package geom

import (
	"math"
	"sort"
	"time"

	"golang.org/x/image/math/f32"
)

// AABB is an axis-aligned box with Min <= Max on both components.
type AABB struct{ Min, Max f32.Vec2 }

// NewAABB returns box normalized from two opposite corners given in any order.
func NewAABB(c1, c2 f32.Vec2) AABB {
	return AABB{
		Min: f32.Vec2{min32(c1[0], c2[0]), min32(c1[1], c2[1])},
		Max: f32.Vec2{max32(c1[0], c2[0]), max32(c1[1], c2[1])},
	}
}

// Contains reports whether p lies inside r; all four edges are inside.
func (r AABB) Contains(p f32.Vec2) bool {
	return r.Min[0] <= p[0] && p[0] <= r.Max[0] && r.Min[1] <= p[1] && p[1] <= r.Max[1]
}

// Overlaps reports whether r and s share at least one point.
func (r AABB) Overlaps(s AABB) bool {
	return r.Min[0] <= s.Max[0] && s.Min[0] <= r.Max[0] && r.Min[1] <= s.Max[1] && s.Min[1] <= r.Max[1]
}

// Quad is a convex quadrilateral; upper-left, upper-right, lower-left, lower-right.
type Quad struct{ UL, UR, LL, LR f32.Vec2 }

// Contains reports whether p lies inside q or on its boundary regardless of winding.
func (q Quad) Contains(p f32.Vec2) bool {
	pts := [4]f32.Vec2{q.UL, q.UR, q.LR, q.LL}
	var pos, neg bool
	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		c := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		pos = pos || c > 0
		neg = neg || c < 0
	}
	return !(pos && neg)
}

// Bounds returns the box enclosing all corners of q.
func (q Quad) Bounds() AABB {
	r := NewAABB(q.UL, q.LR)
	for _, p := range [2]f32.Vec2{q.UR, q.LL} {
		r.Min = f32.Vec2{min32(r.Min[0], p[0]), min32(r.Min[1], p[1])}
		r.Max = f32.Vec2{max32(r.Max[0], p[0]), max32(r.Max[1], p[1])}
	}
	return r
}

// Remap linearly maps v from range [from[0], from[1]] to [to[0], to[1]].
// A collapsed source range maps to the middle of the target.
func Remap(v float32, from, to f32.Vec2) float32 {
	if from[0] == from[1] {
		return (to[0] + to[1]) / 2
	}
	return to[0] + (v-from[0])*(to[1]-to[0])/(from[1]-from[0])
}

// Bezier evaluates the cubic curve with control points p0..p3 at t.
func Bezier(t float32, p0, p1, p2, p3 f32.Vec2) f32.Vec2 {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return f32.Vec2{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}

// Distance returns euclidean distance between a and b.
func Distance(a, b f32.Vec2) float32 {
	dx, dy := float64(b[0]-a[0]), float64(b[1]-a[1])
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// Elapsed returns duration from start to end; a zero start is treated as
// infinitely long ago.
func Elapsed(start, end time.Time) time.Duration {
	if start.IsZero() {
		return time.Duration(math.MaxInt64)
	}
	return end.Sub(start)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SortWithIndices writes into order the indices of vals sorted ascending by value,
// ties kept in index order, and reports whether order changed.
// Panics if lengths differ.
func SortWithIndices(vals []float32, order []int) (changed bool) {
	if len(vals) != len(order) {
		panic("geom: SortWithIndices length mismatch")
	}
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })
	for i, x := range idx {
		if order[i] != x {
			changed = true
			order[i] = x
		}
	}
	return changed
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func sin(x float32) float32 { return float32(math.Sin(float64(x))) }
func cos(x float32) float32 { return float32(math.Cos(float64(x))) }
