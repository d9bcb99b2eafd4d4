// Package expansion manages time expansions: tilted sub-views between two
// neighbouring axes showing every time step of the lines passing through them.
//
// Entries live in an arena and keep their id for their whole life. Deleting an
// entry only marks its slot free; the lowest free slot is reused on create.
// Axes that fall strictly between the anchors of an entry are absorbed by it and
// leave the main line buffer, see Exclusion.
package expansion

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/set"
	"dasa.cc/pcv/tool"
)

// ErrConflict is returned by Add when the new entry would share an axis with a
// live entry.
var ErrConflict = errors.New("expansion: conflicting entry")

// Arena holds every expansion of a plot.
type Arena struct {
	// Color of highlight overlays, HighlightColor if zero.
	Color f32.Vec4

	slots    []Entry
	snapshot []float32
}

// Len returns the number of live entries.
func (a *Arena) Len() int {
	var n int
	for i := range a.slots {
		if a.slots[i].live {
			n++
		}
	}
	return n
}

// Live returns live entries in id order. Pointers are valid until the next
// entry is created.
func (a *Arena) Live() []*Entry {
	var es []*Entry
	for i := range a.slots {
		if a.slots[i].live {
			es = append(es, &a.slots[i])
		}
	}
	return es
}

// Get returns live entry by id.
func (a *Arena) Get(id int) (*Entry, bool) {
	if id < 0 || id >= len(a.slots) || !a.slots[id].live {
		return nil, false
	}
	return &a.slots[id], true
}

// Find returns live entry anchored on l and r in either order.
func (a *Arena) Find(l, r int) (*Entry, bool) {
	for _, e := range a.Live() {
		if e.Is(l, r) {
			return e, true
		}
	}
	return nil, false
}

// Exclusion returns how many times each of n axes is claimed by entries and the
// set of absorbed axes. Anchors count once, absorbed axes twice.
func Exclusion(entries []*Entry, n int) ([]int, set.Slice[int]) {
	counts := make([]int, n)
	var middle set.Slice[int]
	for _, e := range entries {
		counts[e.Left]++
		counts[e.Right]++
		for _, x := range e.Absorbed {
			counts[x] += 2
			middle.Insert(x)
		}
	}
	return counts, middle
}

// push recomputes the aggregate exclusion and hands it to the plot.
func (a *Arena) push(ctx tool.Context) {
	counts, middle := Exclusion(a.Live(), ctx.Plot.NumAxes())
	ctx.Plot.SetExclusion(counts, middle)
}

// Toggle handles a double click at pos. The click picks the strip between two
// neighbouring axes. An entry elsewhere touching either of them is a conflict:
// every such entry is deleted and nothing is created. Otherwise the entry on the
// pair is deleted if present or created. Reports whether the click hit a strip.
func (a *Arena) Toggle(ctx tool.Context, pos f32.Vec2) bool {
	pt := ctx.ToData(pos)
	l, r, ok := strip(ctx.Plot, pt)
	if !ok {
		return false
	}

	var conflicts []int
	exact := -1
	for _, e := range a.Live() {
		switch {
		case e.Is(l, r):
			exact = e.ID
		case e.Touches(l) || e.Touches(r):
			conflicts = append(conflicts, e.ID)
		}
	}

	switch {
	case len(conflicts) != 0:
		for _, id := range conflicts {
			a.remove(ctx, id)
		}
		log.Debug("expansion conflict resolved", "left", l, "right", r, "deleted", conflicts)
	case exact >= 0:
		a.remove(ctx, exact)
	default:
		a.create(ctx, l, r)
	}
	a.push(ctx)
	return true
}

// strip returns neighbouring axes around pt in visual order.
func strip(p *plot.Plot, pt f32.Vec2) (l, r int, ok bool) {
	order := p.Order()
	for i := 0; i+1 < len(order); i++ {
		l, r = order[i], order[i+1]
		box := geom.NewAABB(f32.Vec2{p.Position(l), -1}, f32.Vec2{p.Position(r), 1})
		if box.Contains(pt) {
			return l, r, true
		}
	}
	return 0, 0, false
}

// Add creates an entry on anchors l and r, absorbing axes already between them,
// and updates the plot exclusion. Used to restore saved layouts. Nothing is
// created when an anchor or an axis between them is an anchor or absorbed axis
// of a live entry.
func (a *Arena) Add(ctx tool.Context, l, r int) (*Entry, error) {
	n := ctx.Plot.NumAxes()
	if l < 0 || l >= n || r < 0 || r >= n || l == r {
		return nil, fmt.Errorf("expansion: anchors %v, %v not distinct axes of %v", l, r, n)
	}
	span := a.span(ctx, l, r)
	for _, e := range a.Live() {
		for _, x := range span {
			if e.Touches(x) {
				return nil, fmt.Errorf("%w: axis %v belongs to entry %v between %v and %v", ErrConflict, x, e.ID, e.Left, e.Right)
			}
		}
	}
	e := a.create(ctx, l, r)
	a.absorb(ctx, e)
	a.push(ctx)
	return e, nil
}

// span returns anchors l, r and every axis strictly between them.
func (a *Arena) span(ctx tool.Context, l, r int) []int {
	pos := ctx.Plot.Positions()
	lo, hi := pos[l], pos[r]
	if lo > hi {
		lo, hi = hi, lo
	}
	out := []int{l, r}
	for i, x := range pos {
		if i != l && i != r && lo < x && x < hi {
			out = append(out, i)
		}
	}
	return out
}

func (a *Arena) create(ctx tool.Context, l, r int) *Entry {
	if ctx.Plot.Position(l) > ctx.Plot.Position(r) {
		l, r = r, l
	}
	id := -1
	for i := range a.slots {
		if !a.slots[i].live {
			id = i
			break
		}
	}
	if id < 0 {
		id = len(a.slots)
		a.slots = append(a.slots, Entry{})
	}
	color := a.Color
	if color == (f32.Vec4{}) {
		color = HighlightColor
	}
	a.slots[id] = Entry{
		ID:        id,
		Left:      l,
		Right:     r,
		Handles:   [2]Handle{newHandle(), newHandle()},
		Highlight: Highlight{Color: color},
		live:      true,
	}
	e := &a.slots[id]
	a.arrange(ctx, e)
	a.place(ctx, e)
	log.Debug("expansion created", "id", id, "left", l, "right", r)
	return e
}

func (a *Arena) remove(ctx tool.Context, id int) {
	e := &a.slots[id]
	if !e.live {
		return
	}
	log.Debug("expansion deleted", "id", id, "left", e.Left, "right", e.Right)
	*e = Entry{ID: id}
}

// Update follows axis movement since the previous call: anchors are swapped
// when they cross, axes entering or leaving the span of an entry are absorbed
// or released, and entries whose anchor got absorbed by another entry are
// deleted, newest first. Reports whether exclusion changed.
func (a *Arena) Update(ctx tool.Context) bool {
	pos := ctx.Plot.Positions()
	if a.snapshot != nil && equalFloats(pos, a.snapshot) {
		return false
	}
	a.snapshot = append(a.snapshot[:0], pos...)

	changed := false
	live := a.Live()
	for _, e := range live {
		if pos[e.Left] > pos[e.Right] {
			e.Left, e.Right = e.Right, e.Left
			a.arrange(ctx, e)
		}
		if a.absorb(ctx, e) {
			changed = true
			e.Highlight.Active = true
		}
		a.place(ctx, e)
	}

	for i := len(live) - 1; i >= 0; i-- {
		e := live[i]
		for _, o := range live {
			if o != e && o.live && (o.Absorbed.Has(e.Left) || o.Absorbed.Has(e.Right)) {
				log.Debug("expansion anchor absorbed", "id", e.ID, "by", o.ID)
				a.remove(ctx, e.ID)
				changed = true
				break
			}
		}
	}

	if changed {
		a.push(ctx)
	}
	return changed
}

// absorb updates absorbed axes of e from current positions, rearranging the
// middle segment when membership changes.
func (a *Arena) absorb(ctx tool.Context, e *Entry) bool {
	pos := ctx.Plot.Positions()
	lo, hi := pos[e.Left], pos[e.Right]
	changed := false
	for i, x := range pos {
		if i == e.Left || i == e.Right {
			continue
		}
		if lo < x && x < hi {
			if _, ok := e.Absorbed.Insert(i); ok {
				changed = true
			}
		} else if e.Absorbed.Remove(i) {
			changed = true
		}
	}
	if changed {
		a.arrange(ctx, e)
	}
	return changed
}

// Settle ends an axis drag: middle segments follow final positions and
// highlights are cleared.
func (a *Arena) Settle(ctx tool.Context) {
	for _, e := range a.Live() {
		a.arrange(ctx, e)
		if e.Highlight.Active {
			e.Highlight.Active = false
			ctx.Plot.Uploader().UploadFloats(plot.Buffer{Kind: plot.HighlightQuad, ID: e.ID}, 0, e.Highlight.Vertices[:])
		}
	}
}

// arrange orders the middle segment of e by current position.
func (a *Arena) arrange(ctx tool.Context, e *Entry) {
	p := ctx.Plot
	order := make([]int, 0, len(e.Absorbed)+2)
	order = append(order, e.Left)
	mid := append([]int(nil), e.Absorbed...)
	vals := make([]float32, len(mid))
	for i, x := range mid {
		vals[i] = p.Position(x)
	}
	idx := make([]int, len(mid))
	geom.SortWithIndices(vals, idx)
	for _, i := range idx {
		order = append(order, mid[i])
	}
	order = append(order, e.Right)
	if e.Middle.set(order, p.NumAxes(), p.Rows()) {
		p.Uploader().UploadIndices(plot.Buffer{Kind: plot.MiddleIndices, ID: e.ID}, 0, e.Middle.Indices)
	}
}

// place recomputes tilt, transforms, handles and highlight of e.
func (a *Arena) place(ctx tool.Context, e *Entry) {
	p := ctx.Plot
	s := ctx.DrawScale()
	l, r := p.Position(e.Left), p.Position(e.Right)
	e.Angle = Angle(r-l, s)

	draw := ctx.DrawModel()
	e.ModelLeft = geom.Mul16fv(draw, geom.Mul16fv(geom.Translate16fv(l, 0, 0), geom.RotateY16fv(90-e.Angle)))
	e.ModelRight = geom.Mul16fv(draw, geom.Mul16fv(geom.Translate16fv(r, 0, 0), geom.RotateY16fv(90+e.Angle)))
	m := (l + r) / 2 * s
	e.View = geom.LookAt16fv(f32.Vec3{m, 0, 1}, f32.Vec3{m, 0, 0}, f32.Vec3{0, 1, 0})

	a.placeHandles(ctx, e)
	e.Highlight.place(l, r)
	p.Uploader().UploadFloats(plot.Buffer{Kind: plot.HighlightQuad, ID: e.ID}, 0, e.Highlight.Vertices[:])
}

func (a *Arena) placeHandles(ctx tool.Context, e *Entry) {
	e.Handles[0].Place(e.ModelLeft)
	e.Handles[1].Place(e.ModelRight)
	buf := make([]float32, 0, 16)
	buf = e.Handles[0].vertices(buf)
	buf = e.Handles[1].vertices(buf)
	ctx.Plot.Uploader().UploadFloats(plot.Buffer{Kind: plot.HandleQuads, ID: e.ID}, 0, buf)
}

// HoverHandles marks handles under pos; reports whether any is hot.
func (a *Arena) HoverHandles(ctx tool.Context, pos f32.Vec2) bool {
	n := ctx.Norm(pos)
	hot := false
	for _, e := range a.Live() {
		for i := range e.Handles {
			h := &e.Handles[i]
			h.Hot = h.Bounds.Contains(n)
			hot = hot || h.Hot
		}
	}
	return hot
}

// DragHandles moves hot handles by the normalized delta between prev and cur.
// Reports whether any handle is hot.
func (a *Arena) DragHandles(ctx tool.Context, prev, cur f32.Vec2) bool {
	dx := ctx.Norm(cur)[0] - ctx.Norm(prev)[0]
	s := ctx.DrawScale()
	engaged := false
	for _, e := range a.Live() {
		moved := false
		for i := range e.Handles {
			h := &e.Handles[i]
			if !h.Hot {
				continue
			}
			engaged = true
			angle := e.Angle
			if i == 0 {
				angle = -angle
			}
			if dx != 0 && h.Drag(dx, angle, s) {
				moved = true
			}
		}
		if moved {
			a.placeHandles(ctx, e)
		}
	}
	return engaged
}

// SetHandles sets both handle values of entry id, clamped to [0, 1].
func (a *Arena) SetHandles(ctx tool.Context, id int, left, right float32) bool {
	e, ok := a.Get(id)
	if !ok {
		return false
	}
	e.Handles[0].T = geom.Clamp(left, 0, 1)
	e.Handles[1].T = geom.Clamp(right, 0, 1)
	a.placeHandles(ctx, e)
	return true
}

// Reset deletes every entry and releases all axes.
func (a *Arena) Reset(ctx tool.Context) {
	for i := range a.slots {
		a.remove(ctx, i)
	}
	a.snapshot = nil
	a.push(ctx)
}

func equalFloats(a, b []float32) bool {
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
