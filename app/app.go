// Package app drives a plot from mouse input, one frame at a time.
//
// Mouse events are collected with Mouse between frames. Frame classifies the
// transition with a gesture.Filter and hands it to the tools registered for the
// resulting state; the first tool that reports true consumes the frame.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/mouse"

	"dasa.cc/pcv/expansion"
	"dasa.cc/pcv/gesture"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/tool"
)

// Handler acts on a frame transition from prev to cur in pixels.
type Handler func(prev, cur f32.Vec2) bool

// Options configure New; zero values select defaults.
type Options struct {
	Scale         float32       // draw scale, tool.DefaultScale
	AxisThickness float32       // tool.AxisThickness
	Threshold     time.Duration // double click window, gesture.DoubleClickTime
	Now           func() time.Time
	Palette       plot.Palette // plot.DefaultPalette
	Uploader      plot.Uploader

	// Colors of axis hitboxes and expansion highlights; defaults if zero.
	AxisColor, AxisHotColor f32.Vec4
	ExpansionColor          f32.Vec4
}

type App struct {
	ctx    tool.Context
	filter gesture.Filter
	status gesture.Status

	axes  *tool.AxisDrag
	box   tool.BoxSelect
	arena expansion.Arena

	handlers [gesture.NumStates][]Handler
}

// New returns app showing d.
func New(d plot.Data, opts Options) (*App, error) {
	pal := opts.Palette
	if len(pal.Groups) == 0 {
		pal = plot.DefaultPalette
	}
	p, err := plot.New(d, pal, opts.Uploader)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a := &App{
		ctx:    tool.Context{Plot: p, Scale: opts.Scale},
		filter: gesture.Filter{Threshold: opts.Threshold, Now: opts.Now},
		axes:   tool.NewAxisDrag(p.NumAxes()),
	}
	if opts.AxisThickness != 0 {
		a.axes.Thickness = opts.AxisThickness
	}
	if opts.AxisColor != (f32.Vec4{}) {
		a.axes.Color = opts.AxisColor
	}
	if opts.AxisHotColor != (f32.Vec4{}) {
		a.axes.HotColor = opts.AxisHotColor
	}
	a.arena.Color = opts.ExpansionColor

	a.handlers[gesture.Default] = []Handler{a.hover}
	a.handlers[gesture.Click] = []Handler{a.dragAxes, a.dragHandles, a.startBox}
	a.handlers[gesture.Drag] = []Handler{a.dragAxes, a.dragHandles, a.updateBox}
	a.handlers[gesture.Release] = []Handler{a.releaseAxes, a.releaseHandles, a.stopBox}
	a.handlers[gesture.DoubleClick] = []Handler{a.toggle}
	return a, nil
}

// Handle prepends h to the handlers of state s.
func (a *App) Handle(s gesture.State, h Handler) {
	a.handlers[s] = append([]Handler{h}, a.handlers[s]...)
}

// Mouse records e for the next frame.
func (a *App) Mouse(e mouse.Event) { a.filter.Filter(e) }

// Frame classifies input since the previous frame for a window of resolution
// pixels, runs the matching handlers and follows axis movement with the
// expansions. Reports whether anything needs to be redrawn.
func (a *App) Frame(resolution f32.Vec2) bool {
	dirty := a.ctx.Resolution != resolution
	if dirty {
		a.ctx.Resolution = resolution
		a.axes.Sync(a.ctx)
	}

	a.status = a.filter.Next()
	for _, h := range a.handlers[a.status.State] {
		if h(a.status.Prev, a.status.Pos) {
			dirty = true
			break
		}
	}
	if a.arena.Update(a.ctx) {
		dirty = true
	}
	return dirty
}

func (a *App) Status() gesture.Status      { return a.status }
func (a *App) Context() tool.Context       { return a.ctx }
func (a *App) Plot() *plot.Plot            { return a.ctx.Plot }
func (a *App) Axes() *tool.AxisDrag        { return a.axes }
func (a *App) Box() *tool.BoxSelect        { return &a.box }
func (a *App) Arena() *expansion.Arena     { return &a.arena }
func (a *App) Entries() []*expansion.Entry { return a.arena.Live() }

// Reset restores evenly spaced axes in attribute order, clearing expansions
// and selection.
func (a *App) Reset() {
	p := a.ctx.Plot
	n := p.NumAxes()
	pos := make([]float32, n)
	order := make([]int, n)
	for i := range pos {
		if n > 1 {
			pos[i] = -1 + 2*float32(i)/float32(n-1)
		}
		order[i] = i
	}
	a.arena.Reset(a.ctx)
	p.SetPositions(pos)
	p.SetOrder(order)
	p.ResetColors()
	a.box = tool.BoxSelect{}
	p.Uploader().UploadFloats(plot.Buffer{Kind: plot.SelectionRect}, 0, nil)
	a.axes.Sync(a.ctx)
	log.Debug("layout reset")
}

func (a *App) hover(prev, cur f32.Vec2) bool {
	axes := a.axes.Hover(a.ctx, cur)
	handles := a.arena.HoverHandles(a.ctx, cur)
	return axes || handles
}

func (a *App) dragAxes(prev, cur f32.Vec2) bool { return a.axes.Drag(a.ctx, prev, cur) }

func (a *App) releaseAxes(prev, cur f32.Vec2) bool {
	if !a.axes.Release(a.ctx, prev, cur) {
		return false
	}
	a.arena.Update(a.ctx)
	a.arena.Settle(a.ctx)
	return true
}

func (a *App) dragHandles(prev, cur f32.Vec2) bool { return a.arena.DragHandles(a.ctx, prev, cur) }

func (a *App) releaseHandles(prev, cur f32.Vec2) bool {
	return a.arena.DragHandles(a.ctx, prev, cur)
}

func (a *App) startBox(prev, cur f32.Vec2) bool  { return a.box.SetOrigin(a.ctx, cur) }
func (a *App) updateBox(prev, cur f32.Vec2) bool { return a.box.Update(a.ctx, cur) }
func (a *App) stopBox(prev, cur f32.Vec2) bool   { return a.box.Stop() }

func (a *App) toggle(prev, cur f32.Vec2) bool {
	if !a.arena.Toggle(a.ctx, cur) {
		return false
	}
	log.Debug("expansions", "live", a.arena.Len(), "excluded", a.ctx.Plot.Excluded())
	return true
}
