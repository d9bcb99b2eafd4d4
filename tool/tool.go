// Package tool implements the pointer tools of a plot: axis drag and box select.
//
// Tools hold only their own state. Everything they mutate on the plot is passed
// in through a Context each call.
package tool

import (
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
)

// DefaultScale is the draw scale applied to data space before display.
const DefaultScale = 0.8

// Context is the mutable view tools act on during a frame.
type Context struct {
	Plot       *plot.Plot
	Resolution f32.Vec2 // window size in pixels
	Scale      float32  // draw scale, DefaultScale if zero
}

// DrawScale returns the scale applied to data space when drawing.
func (c Context) DrawScale() float32 {
	if c.Scale == 0 {
		return DefaultScale
	}
	return c.Scale
}

// Norm converts pixel position with origin bottom-left to normalized device space.
func (c Context) Norm(pos f32.Vec2) f32.Vec2 {
	return f32.Vec2{
		geom.Remap(pos[0], f32.Vec2{0, c.Resolution[0]}, f32.Vec2{-1, 1}),
		geom.Remap(pos[1], f32.Vec2{0, c.Resolution[1]}, f32.Vec2{-1, 1}),
	}
}

// ToData converts pixel position to data space, undoing the draw scale.
func (c Context) ToData(pos f32.Vec2) f32.Vec2 {
	n := c.Norm(pos)
	s := c.DrawScale()
	return f32.Vec2{n[0] / s, n[1] / s}
}

// DrawModel returns the scale transform applied to data space when drawing.
func (c Context) DrawModel() f32.Mat4 {
	s := c.DrawScale()
	return geom.Scale16fv(s, s, s)
}
