package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/mouse"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/gesture"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/plot/plottest"
	"dasa.cc/pcv/set"
	"dasa.cc/pcv/tool"
)

var res = f32.Vec2{1000, 1000}

func screen(x, y float32) f32.Vec2 {
	return f32.Vec2{(x*tool.DefaultScale + 1) / 2 * res[0], (y*tool.DefaultScale + 1) / 2 * res[1]}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func event(p f32.Vec2, dir mouse.Direction) mouse.Event {
	return mouse.Event{X: p[0], Y: p[1], Button: mouse.ButtonLeft, Direction: dir}
}

func newApp(t *testing.T, up plot.Uploader) (*app.App, *clock) {
	t.Helper()
	c := &clock{t: time.Unix(1000, 0)}
	a, err := app.New(plottest.Data(
		[]float32{0.0, 0.5, -0.5, 0.2},
		[]float32{0.8, 0.9, 0.1, -0.9},
		[]float32{0.5, -0.7, 0.3, 0.0},
	), app.Options{Now: c.now, Uploader: up})
	require.NoError(t, err)
	a.Frame(res)
	return a, c
}

// step sends e and runs one frame.
func step(a *app.App, e mouse.Event) gesture.State {
	a.Mouse(e)
	a.Frame(res)
	return a.Status().State
}

func TestNewError(t *testing.T) {
	_, err := app.New(plot.Data{}, app.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, plot.ErrEmpty)
}

func TestDoubleClickToggle(t *testing.T) {
	a, c := newApp(t, nil)
	pos := screen(0, 0)

	require.Equal(t, gesture.Click, step(a, event(pos, mouse.DirPress)))
	require.Equal(t, gesture.Release, step(a, event(pos, mouse.DirRelease)))
	c.advance(100 * time.Millisecond)
	require.Equal(t, gesture.DoubleClick, step(a, event(pos, mouse.DirPress)))

	require.Len(t, a.Entries(), 1)
	e := a.Entries()[0]
	assert.True(t, e.Is(1, 2))
	assert.Equal(t, []int{0, 1, 1, 0}, a.Plot().Excluded())

	step(a, event(pos, mouse.DirRelease))
	c.advance(time.Second)
	step(a, event(pos, mouse.DirPress))
	step(a, event(pos, mouse.DirRelease))
	c.advance(100 * time.Millisecond)
	require.Equal(t, gesture.DoubleClick, step(a, event(pos, mouse.DirPress)))
	assert.Empty(t, a.Entries())
	assert.Equal(t, []int{0, 0, 0, 0}, a.Plot().Excluded())
}

func TestSlowClicksDoNotToggle(t *testing.T) {
	a, c := newApp(t, nil)
	pos := screen(0, 0)
	step(a, event(pos, mouse.DirPress))
	step(a, event(pos, mouse.DirRelease))
	c.advance(gesture.DoubleClickTime + time.Millisecond)
	require.Equal(t, gesture.Click, step(a, event(pos, mouse.DirPress)))
	assert.Empty(t, a.Entries())
}

func TestBoxSelect(t *testing.T) {
	var rec plottest.Recorder
	a, _ := newApp(t, &rec)

	step(a, event(screen(-0.6, -0.2), mouse.DirPress))
	assert.True(t, a.Box().Active)
	require.Equal(t, gesture.Drag, step(a, event(screen(-0.1, 0.3), mouse.DirNone)))
	require.Equal(t, gesture.Release, step(a, event(screen(-0.1, 0.3), mouse.DirRelease)))
	assert.False(t, a.Box().Active)

	// row 0 falls from 0.5 through the right edge, the others pass above or below
	sel := a.Box().Selected()
	assert.Equal(t, set.Of(0), sel)

	_, ok := rec.Last(plot.Buffer{Kind: plot.SelectionRect})
	assert.True(t, ok)
	assert.Equal(t, sel, tool.Intersect(a.Plot(), a.Box().Rect()))
}

func TestAxisDrag(t *testing.T) {
	a, _ := newApp(t, nil)
	axis := screen(-1.0/3, 0)

	require.Equal(t, gesture.Default, step(a, mouse.Event{X: axis[0], Y: axis[1]}))
	require.True(t, a.Axes().Engaged())

	step(a, event(axis, mouse.DirPress))
	to := screen(0.5, 0)
	require.Equal(t, gesture.Drag, step(a, event(to, mouse.DirNone)))
	assert.InDelta(t, 0.5, a.Plot().Position(1), 1e-4)
	assert.Equal(t, []int{0, 2, 1, 3}, a.Plot().Order())
	assert.False(t, a.Box().Active, "axis drag consumes the frame")

	require.Equal(t, gesture.Release, step(a, event(to, mouse.DirRelease)))
	assert.True(t, plot.IsPermutation(a.Plot().Order()))
}

func TestAxisDragAbsorbs(t *testing.T) {
	a, c := newApp(t, nil)
	// expand between axes 0 and 1
	pos := screen(-2.0/3, 0)
	step(a, event(pos, mouse.DirPress))
	step(a, event(pos, mouse.DirRelease))
	c.advance(50 * time.Millisecond)
	step(a, event(pos, mouse.DirPress))
	step(a, event(pos, mouse.DirRelease))
	require.Len(t, a.Entries(), 1)
	e := a.Entries()[0]

	// drag axis 3 into the expansion
	c.advance(time.Second)
	axis := screen(1, 0)
	step(a, mouse.Event{X: axis[0], Y: axis[1]})
	step(a, event(axis, mouse.DirPress))
	to := screen(-0.6, 0)
	step(a, event(to, mouse.DirNone))
	assert.Equal(t, set.Of(3), e.Absorbed)
	assert.True(t, e.Highlight.Active)
	assert.Equal(t, []int{1, 1, 0, 2}, a.Plot().Excluded())

	step(a, event(to, mouse.DirRelease))
	assert.False(t, e.Highlight.Active)
	assert.Equal(t, []int{0, 3, 1}, e.Middle.Order)
}

func TestHandlers(t *testing.T) {
	a, _ := newApp(t, nil)
	var calls int
	a.Handle(gesture.Click, func(prev, cur f32.Vec2) bool {
		calls++
		return true
	})
	step(a, event(screen(0, 0), mouse.DirPress))
	assert.Equal(t, 1, calls)
	assert.False(t, a.Box().Active, "prepended handler consumes the click")
}

func TestReset(t *testing.T) {
	rec := &plottest.Recorder{}
	a, _ := newApp(t, rec)
	_, err := a.Arena().Add(a.Context(), 0, 2)
	require.NoError(t, err)
	a.Plot().SetPositions([]float32{1, 0, -1, 0.5})
	a.Plot().Resort()

	a.Reset()
	assert.Empty(t, a.Entries())
	assert.Equal(t, []int{0, 1, 2, 3}, a.Plot().Order())
	assert.Equal(t, []int{0, 0, 0, 0}, a.Plot().Excluded())
	assert.InDelta(t, -1, a.Plot().Position(0), 1e-6)

	u, ok := rec.Last(plot.Buffer{Kind: plot.SelectionRect})
	require.True(t, ok)
	assert.Empty(t, u.Floats)
}
