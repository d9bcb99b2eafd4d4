package tool

import (
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/quadtree"
	"dasa.cc/pcv/set"
)

const (
	indexLevel  = 4
	indexExtent = 1 / DefaultScale // half width of the indexed square
)

// segmentIndex buckets line segments by the quadtree cells their boxes cover.
// Points outside the indexed square fall into border cells.
type segmentIndex struct {
	rev     uint64
	built   bool
	buckets map[uint32][]int
	keys    []uint32
	cand    []int
}

func unit(v float32) float32 { return (v + indexExtent) / (2 * indexExtent) }

func (x *segmentIndex) cover(r geom.AABB) []uint32 {
	x.keys = x.keys[:0]
	quadtree.Cover(unit(r.Min[0]), unit(r.Min[1]), unit(r.Max[0]), unit(r.Max[1]), indexLevel, &x.keys)
	return x.keys
}

func (x *segmentIndex) rebuild(p *plot.Plot) {
	if x.built && x.rev == p.Revision() {
		return
	}
	x.buckets = make(map[uint32][]int, quadtree.Cap(indexLevel))
	for k := 0; k < p.Segments(); k++ {
		a, b, _ := p.Segment(k)
		for _, key := range x.cover(geom.NewAABB(a, b)) {
			x.buckets[key] = append(x.buckets[key], k)
		}
	}
	x.rev, x.built = p.Revision(), true
}

// intersect appends to sel rows with a segment crossing r; same result as Intersect.
func (x *segmentIndex) intersect(p *plot.Plot, r geom.AABB, sel set.Slice[int]) set.Slice[int] {
	x.rebuild(p)
	x.cand = x.cand[:0]
	for _, key := range x.cover(r) {
		x.cand = append(x.cand, x.buckets[key]...)
	}
	set.Filter(&x.cand)
	var a, b f32.Vec2
	var row int
	for _, k := range x.cand {
		if a, b, row = p.Segment(k); !sel.Has(row) && SegmentHits(a, b, r) {
			sel.Insert(row)
		}
	}
	return sel
}
