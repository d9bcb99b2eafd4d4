package expansion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/expansion"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/plot/plottest"
	"dasa.cc/pcv/set"
	"dasa.cc/pcv/tool"
)

var res = f32.Vec2{1000, 1000}

func screen(x, y float32) f32.Vec2 {
	return f32.Vec2{(x*tool.DefaultScale + 1) / 2 * res[0], (y*tool.DefaultScale + 1) / 2 * res[1]}
}

// pixel converts normalized device space to pixels.
func pixel(n f32.Vec2) f32.Vec2 {
	return f32.Vec2{(n[0] + 1) / 2 * res[0], (n[1] + 1) / 2 * res[1]}
}

// newContext returns plot of two lines over attrs evenly spaced axes.
func newContext(t *testing.T, up plot.Uploader, attrs int) tool.Context {
	t.Helper()
	a, b := make([]float32, attrs), make([]float32, attrs)
	for i := range a {
		a[i], b[i] = 0.5, -0.5
	}
	p, err := plot.New(plottest.Data(a, b), plot.DefaultPalette, up)
	require.NoError(t, err)
	return tool.Context{Plot: p, Resolution: res}
}

func add(t *testing.T, ctx tool.Context, arena *expansion.Arena, l, r int) *expansion.Entry {
	t.Helper()
	e, err := arena.Add(ctx, l, r)
	require.NoError(t, err)
	return e
}

func TestToggle(t *testing.T) {
	var rec plottest.Recorder
	ctx := newContext(t, &rec, 4)
	var arena expansion.Arena

	require.True(t, arena.Toggle(ctx, screen(0, 0)))
	require.Equal(t, 1, arena.Len())
	e, ok := arena.Get(0)
	require.True(t, ok)
	assert.Equal(t, 1, e.Left)
	assert.Equal(t, 2, e.Right)
	assert.Equal(t, []int{0, 1, 1, 0}, ctx.Plot.Excluded())
	assert.Equal(t, []int{1, 2}, e.Middle.Order)

	u, ok := rec.Last(plot.Buffer{Kind: plot.HandleQuads, ID: 0})
	require.True(t, ok)
	assert.Len(t, u.Floats, 16)
	_, ok = rec.Last(plot.Buffer{Kind: plot.MiddleIndices, ID: 0})
	assert.True(t, ok)

	require.True(t, arena.Toggle(ctx, screen(0, 0.5)))
	assert.Equal(t, 0, arena.Len())
	assert.Equal(t, []int{0, 0, 0, 0}, ctx.Plot.Excluded())

	assert.False(t, arena.Toggle(ctx, screen(1.2, 0)), "outside every strip")
	assert.False(t, arena.Toggle(ctx, screen(0, 1.1)), "above axes")
}

func TestToggleConflict(t *testing.T) {
	ctx := newContext(t, nil, 4)
	ctx.Plot.SetPositions([]float32{-1, 0.6, 0, 0.8})
	ctx.Plot.Resort()
	require.Equal(t, []int{0, 2, 1, 3}, ctx.Plot.Order())

	var arena expansion.Arena
	require.True(t, arena.Toggle(ctx, screen(-0.5, 0)))
	e, ok := arena.Find(0, 2)
	require.True(t, ok)

	ctx.Plot.SetPositions([]float32{-1, -0.5, 0, -0.3})
	ctx.Plot.Resort()
	require.Equal(t, []int{0, 1, 3, 2}, ctx.Plot.Order())
	require.True(t, arena.Update(ctx))
	assert.Equal(t, set.Of(1, 3), e.Absorbed)
	assert.Equal(t, []int{1, 2, 1, 2}, ctx.Plot.Excluded())
	assert.Equal(t, set.Of(1, 3), ctx.Plot.Middle())
	assert.Equal(t, []int{0, 1, 3, 2}, e.Middle.Order)
	assert.True(t, e.Highlight.Active)

	// strip between absorbed axes 1 and 3 touches the live entry
	require.True(t, arena.Toggle(ctx, screen(-0.4, 0)))
	assert.Equal(t, 0, arena.Len())
	assert.Equal(t, []int{0, 0, 0, 0}, ctx.Plot.Excluded())
	assert.Empty(t, ctx.Plot.Middle())
}

func TestAddConflict(t *testing.T) {
	ctx := newContext(t, nil, 4)
	var arena expansion.Arena
	require.False(t, arena.Update(ctx))
	add(t, ctx, &arena, 0, 1)

	_, err := arena.Add(ctx, 1, 2)
	assert.ErrorIs(t, err, expansion.ErrConflict, "shared anchor")
	_, err = arena.Add(ctx, 0, 1)
	assert.ErrorIs(t, err, expansion.ErrConflict, "same anchors")
	_, err = arena.Add(ctx, 2, 2)
	assert.Error(t, err)
	_, err = arena.Add(ctx, 2, 4)
	assert.Error(t, err)
	assert.False(t, arena.Update(ctx))
	assert.Equal(t, 1, arena.Len())
	assert.Equal(t, []int{1, 1, 0, 0}, ctx.Plot.Excluded())

	arena.Reset(ctx)
	add(t, ctx, &arena, 1, 2)
	_, err = arena.Add(ctx, 3, 0)
	assert.ErrorIs(t, err, expansion.ErrConflict, "span covers a live entry")
	assert.Equal(t, []int{0, 1, 1, 0}, ctx.Plot.Excluded())
}

func TestMiddleFollowsHandles(t *testing.T) {
	d := plottest.Data([]float32{0, 0, 0})
	d.Steps = 3
	d.Values = append(d.Values, 1, 0.2, -1, -1, 0.4, 1)
	p, err := plot.New(d, plot.DefaultPalette, nil)
	require.NoError(t, err)
	ctx := tool.Context{Plot: p, Resolution: res}

	var arena expansion.Arena
	e := add(t, ctx, &arena, 0, 2)
	require.Equal(t, []uint32{0, 1, 1, 2}, e.Middle.Indices)

	ys := func() []float32 {
		var out []float32
		for _, v := range e.Middle.Indices {
			pt, row := e.MiddleVertex(p, v)
			require.Equal(t, 0, row)
			out = append(out, pt[1])
		}
		return out
	}
	assert.InDeltaSlice(t, []float32{1, 0, 0, -1}, ys(), 1e-6)

	require.True(t, arena.SetHandles(ctx, e.ID, 0, 1))
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, ys(), 1e-6)

	require.True(t, arena.SetHandles(ctx, e.ID, 0.25, 0.75))
	assert.InDeltaSlice(t, []float32{0.5, 0, 0, 0}, ys(), 1e-6)
	assert.Equal(t, float32(0.25), e.Depth(0))
	assert.Equal(t, float32(0), e.Depth(1), "absorbed axes stay on the first step")
}

func TestUpdateSwapsAnchors(t *testing.T) {
	ctx := newContext(t, nil, 3)
	var arena expansion.Arena
	e := add(t, ctx, &arena, 0, 1)
	assert.False(t, arena.Update(ctx))

	ctx.Plot.SetPositions([]float32{0.5, 0, 1})
	assert.False(t, arena.Update(ctx), "crossing anchors leaves exclusion alone")
	assert.Equal(t, 1, e.Left)
	assert.Equal(t, 0, e.Right)
	assert.Equal(t, []int{1, 0}, e.Middle.Order)
	assert.False(t, arena.Update(ctx), "unchanged positions")
}

func TestAbsorbAndSettle(t *testing.T) {
	ctx := newContext(t, nil, 3)
	var arena expansion.Arena
	e := add(t, ctx, &arena, 0, 2)
	assert.Equal(t, set.Of(1), e.Absorbed)
	assert.Equal(t, []int{0, 1, 2}, e.Middle.Order)
	assert.Equal(t, []int{1, 2, 1}, ctx.Plot.Excluded())
	assert.False(t, e.Highlight.Active)

	ctx.Plot.SetPositions([]float32{-1, 1.5, 1})
	require.True(t, arena.Update(ctx))
	assert.Empty(t, e.Absorbed)
	assert.True(t, e.Highlight.Active)
	assert.Equal(t, []int{1, 0, 1}, ctx.Plot.Excluded())
	assert.Equal(t, []int{0, 2}, e.Middle.Order)

	arena.Settle(ctx)
	assert.False(t, e.Highlight.Active)
}

func TestMiddleOrderFollowsPosition(t *testing.T) {
	ctx := newContext(t, nil, 4)
	ctx.Plot.SetPositions([]float32{-1, 0.5, -0.5, 1})
	var arena expansion.Arena
	e := add(t, ctx, &arena, 0, 3)
	assert.Equal(t, []int{0, 2, 1, 3}, e.Middle.Order)
	assert.Equal(t, expansion.MiddleIndices([]int{0, 2, 1, 3}, 4, 2), e.Middle.Indices)
}

func TestForcedDeletion(t *testing.T) {
	ctx := newContext(t, nil, 5)
	var arena expansion.Arena
	a := add(t, ctx, &arena, 0, 1)
	b := add(t, ctx, &arena, 3, 4)
	require.Equal(t, 0, a.ID)
	require.Equal(t, 1, b.ID)

	ctx.Plot.Move(3, -0.75)
	ctx.Plot.Resort()
	require.True(t, arena.Update(ctx))

	require.Equal(t, 1, arena.Len())
	a, ok := arena.Get(0)
	require.True(t, ok, "older entry survives")
	_, ok = arena.Get(1)
	assert.False(t, ok)
	assert.Equal(t, set.Of(3), a.Absorbed)
	assert.Equal(t, []int{1, 1, 0, 2, 0}, ctx.Plot.Excluded())
}

func TestArenaReusesSlots(t *testing.T) {
	ctx := newContext(t, nil, 6)
	var arena expansion.Arena
	add(t, ctx, &arena, 0, 1)
	add(t, ctx, &arena, 2, 3)
	require.True(t, arena.Toggle(ctx, screen(-0.8, 0)))
	_, ok := arena.Get(0)
	require.False(t, ok)

	e := add(t, ctx, &arena, 4, 5)
	assert.Equal(t, 0, e.ID)
	e, ok = arena.Get(1)
	require.True(t, ok)
	assert.True(t, e.Is(3, 2))
	assert.Len(t, arena.Live(), 2)

	arena.Reset(ctx)
	assert.Equal(t, 0, arena.Len())
	assert.Equal(t, make([]int, 6), ctx.Plot.Excluded())
}

func TestHandles(t *testing.T) {
	ctx := newContext(t, nil, 2)
	var arena expansion.Arena
	e := add(t, ctx, &arena, 0, 1)
	assert.InDelta(t, 36, e.Angle, 1e-4)
	assert.Equal(t, float32(expansion.HandleStart), e.Handles[0].T)

	q := e.Handles[0].Bounds
	center := f32.Vec2{(q.UL[0] + q.LR[0]) / 2, (q.UL[1] + q.LR[1]) / 2}
	assert.InDelta(t, -0.5649, center[0], 1e-3)

	prev := pixel(center)
	require.True(t, arena.HoverHandles(ctx, prev))
	assert.True(t, e.Handles[0].Hot)
	assert.False(t, e.Handles[1].Hot)

	cur := f32.Vec2{prev[0] + 50, prev[1]}
	require.True(t, arena.DragHandles(ctx, prev, cur))
	assert.InDelta(t, 0.7127, e.Handles[0].T, 1e-3)
	assert.Equal(t, float32(expansion.HandleStart), e.Handles[1].T)

	// far right clamps
	arena.DragHandles(ctx, cur, f32.Vec2{cur[0] + 900, cur[1]})
	assert.Equal(t, float32(1), e.Handles[0].T)

	assert.False(t, arena.HoverHandles(ctx, screen(0, 0.9)))
	assert.False(t, arena.DragHandles(ctx, prev, cur))

	require.True(t, arena.SetHandles(ctx, 0, -1, 0.25))
	assert.Equal(t, float32(0), e.Handles[0].T)
	assert.Equal(t, float32(0.25), e.Handles[1].T)
	assert.False(t, arena.SetHandles(ctx, 7, 0, 0))
}

func TestHandleDragEdgeOn(t *testing.T) {
	h := expansion.Handle{T: 0.5}
	assert.False(t, h.Drag(0.1, 0, tool.DefaultScale))
	assert.Equal(t, float32(0.5), h.T)
}

func TestAngle(t *testing.T) {
	assert.Equal(t, float32(0), expansion.Angle(0, 0.8))
	assert.InDelta(t, 36, expansion.Angle(2, 0.8), 1e-4)
	assert.InDelta(t, 36, expansion.Angle(-2, 0.8), 1e-4)
	assert.Equal(t, float32(expansion.MaxAngle), expansion.Angle(10, 0.8))
}

func TestExclusion(t *testing.T) {
	es := []*expansion.Entry{
		{Left: 0, Right: 3, Absorbed: set.Of(1, 2)},
		{Left: 3, Right: 4},
	}
	counts, middle := expansion.Exclusion(es, 5)
	assert.Equal(t, []int{1, 2, 2, 2, 1}, counts)
	assert.Equal(t, set.Of(1, 2), middle)

	counts, middle = expansion.Exclusion(nil, 2)
	assert.Equal(t, []int{0, 0}, counts)
	assert.Empty(t, middle)
}

func TestIndexBuffers(t *testing.T) {
	assert.Equal(t, []uint32{0, 2, 2, 1, 3, 5, 5, 4}, expansion.MiddleIndices([]int{0, 2, 1}, 3, 2))
	assert.Equal(t, []uint32{1, 0, 3, 2}, expansion.MiddleIndices([]int{1, 0}, 2, 2))
	assert.Equal(t, []uint32{0, 1, 1, 2, 3, 4, 4, 5}, expansion.TimeIndices(2, 3))
	assert.Equal(t, []uint32{0, 0}, expansion.TimeIndices(5, 1))
	assert.Equal(t, []float32{0, 0.5, 1}, expansion.TimeAxis(3))
	assert.Equal(t, []float32{0}, expansion.TimeAxis(1))
}
