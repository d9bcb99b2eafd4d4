// Package snapshot renders a plot to an image without a GPU.
//
// Lines are drawn as the same cubic curves the renderer tessellates, axes as
// thin bars with their attribute name below, and the selection rectangle as
// an outline while it is dragged. Expansions are drawn flattened between their
// anchors, each anchor at the depth of its handle.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/geom"
)

var regular = mustParseTTF(goregular.TTF)

func mustParseTTF(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

type Options struct {
	Width, Height int
	Background    color.Color // opaque white if nil
	LineWidth     float32     // pixels, 1 if zero
	FontSize      float64     // points, 12 if zero; negative hides labels
	Samples       int         // curve subdivisions, 16 if zero
}

func (o *Options) defaults() {
	if o.Background == nil {
		o.Background = color.White
	}
	if o.LineWidth == 0 {
		o.LineWidth = 1
	}
	if o.FontSize == 0 {
		o.FontSize = 12
	}
	if o.Samples == 0 {
		o.Samples = 16
	}
}

type canvas struct {
	dst   *image.RGBA
	z     *vector.Rasterizer
	scale float32
	lw    float32
}

// px converts data space to image pixels, y down.
func (c *canvas) px(p f32.Vec2) f32.Vec2 {
	b := c.dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	return f32.Vec2{(p[0]*c.scale + 1) / 2 * w, (1 - (p[1]*c.scale+1)/2) * h}
}

func rgba(v f32.Vec4) color.NRGBA {
	u := func(x float32) uint8 { return uint8(geom.Clamp(x, 0, 1)*255 + 0.5) }
	return color.NRGBA{u(v[0]), u(v[1]), u(v[2]), u(v[3])}
}

func (c *canvas) fill(clr color.Color) {
	c.z.Draw(c.dst, c.dst.Bounds(), image.NewUniform(clr), image.Point{})
	b := c.dst.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

// polygon adds a closed path in pixels.
func (c *canvas) polygon(pts ...f32.Vec2) {
	c.z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		c.z.LineTo(p[0], p[1])
	}
	c.z.ClosePath()
}

// stroke adds a polyline in pixels as quads of the line width.
func (c *canvas) stroke(pts []f32.Vec2) {
	hw := c.lw / 2
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		d := geom.Distance(a, b)
		if d == 0 {
			continue
		}
		nx, ny := -(b[1]-a[1])/d*hw, (b[0]-a[0])/d*hw
		c.polygon(
			f32.Vec2{a[0] + nx, a[1] + ny},
			f32.Vec2{b[0] + nx, b[1] + ny},
			f32.Vec2{b[0] - nx, b[1] - ny},
			f32.Vec2{a[0] - nx, a[1] - ny},
		)
	}
}

// curve strokes the line segment from a to b in data space.
func (c *canvas) curve(a, b f32.Vec2, samples int) {
	mid := (a[0] + b[0]) / 2
	p1, p2 := f32.Vec2{mid, a[1]}, f32.Vec2{mid, b[1]}
	pts := make([]f32.Vec2, samples+1)
	for i := range pts {
		t := float32(i) / float32(samples)
		pts[i] = c.px(geom.Bezier(t, a, p1, p2, b))
	}
	c.stroke(pts)
}

// rect fills data space box r.
func (c *canvas) rect(r geom.AABB) {
	a, b := c.px(r.Min), c.px(r.Max)
	c.polygon(a, f32.Vec2{b[0], a[1]}, b, f32.Vec2{a[0], b[1]})
}

// Render draws the current state of a.
func Render(a *app.App, opts Options) *image.RGBA {
	opts.defaults()
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	ctx := a.Context()
	p := a.Plot()
	c := &canvas{
		dst:   dst,
		z:     vector.NewRasterizer(opts.Width, opts.Height),
		scale: ctx.DrawScale(),
		lw:    opts.LineWidth,
	}
	c.z.DrawOp = draw.Over

	for _, e := range a.Entries() {
		if !e.Highlight.Active {
			continue
		}
		v := e.Highlight.Vertices
		c.rect(geom.NewAABB(f32.Vec2{v[0], v[1]}, f32.Vec2{v[6], v[7]}))
		c.fill(rgba(e.Highlight.Color))
	}

	axes := a.Axes()
	for i := 0; i < p.NumAxes(); i++ {
		clr := axes.Color
		if axes.Hot()[i] {
			clr = axes.HotColor
		}
		c.rect(axes.Hitbox(ctx, i))
		c.fill(rgba(clr))
	}

	colors := p.Colors()
	for k := 0; k < p.Segments(); k++ {
		s, e, row := p.Segment(k)
		c.curve(s, e, opts.Samples)
		c.fill(rgba(f32.Vec4{colors[row*4], colors[row*4+1], colors[row*4+2], colors[row*4+3]}))
	}
	for _, e := range a.Entries() {
		idx := e.Middle.Indices
		for i := 0; i+1 < len(idx); i += 2 {
			s, row := e.MiddleVertex(p, idx[i])
			t, _ := e.MiddleVertex(p, idx[i+1])
			c.curve(s, t, opts.Samples)
			c.fill(rgba(f32.Vec4{colors[row*4], colors[row*4+1], colors[row*4+2], colors[row*4+3]}))
		}
	}

	if box := a.Box(); box.Active && box.C1 != box.C2 {
		r := box.Rect()
		pts := []f32.Vec2{
			c.px(r.Min), c.px(f32.Vec2{r.Max[0], r.Min[1]}),
			c.px(r.Max), c.px(f32.Vec2{r.Min[0], r.Max[1]}), c.px(r.Min),
		}
		c.stroke(pts)
		c.fill(color.Black)
	}

	if opts.FontSize > 0 {
		labels(c, a, opts.FontSize)
	}
	return dst
}

func labels(c *canvas, a *app.App, size float64) {
	face := truetype.NewFace(regular, &truetype.Options{Size: size, Hinting: font.HintingFull})
	defer face.Close()
	p := a.Plot()
	d := p.Data()
	base := c.px(f32.Vec2{0, -1})
	for i := 0; i < p.NumAxes(); i++ {
		if p.Excluded()[i] >= 2 {
			continue
		}
		name := d.Name(i)
		at := c.px(f32.Vec2{p.Position(i), 0})
		adv := font.MeasureString(face, name)
		dr := font.Drawer{
			Dst:  c.dst,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(int(at[0])) - adv/2,
				Y: fixed.I(int(base[1])) + face.Metrics().Ascent + fixed.I(2),
			},
		}
		dr.DrawString(name)
	}
}

// Thumbnail returns img scaled to width keeping aspect ratio.
func Thumbnail(img image.Image, width uint) image.Image {
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// Encode writes img as png.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// Save writes img as png to path.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
