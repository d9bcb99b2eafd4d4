package glw

import (
	"github.com/go-gl/gl/v4.5-core/gl"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/expansion"
	"dasa.cc/pcv/geom"
	"dasa.cc/pcv/plot"
)

// Shader storage binding points shared with lines.vert and time.vert.
const (
	bindAxes   = 0
	bindColors = 1
	bindValues = 2
	bindDepths = 3
)

// DefaultSegments is the tessellation level of each line segment.
const DefaultSegments = 16

// Renderer keeps GL buffers in sync with a plot and draws it.
type Renderer struct {
	Background     f32.Vec4
	HandleColor    f32.Vec4
	HandleHotColor f32.Vec4
	SelectionColor f32.Vec4
	Segments       int

	lines, time, quad, flat Program

	vao  uint32
	bufs map[plot.Buffer]*Buffer

	values    *Buffer
	depths    *Buffer
	axisElems *Buffer
	timeElems *Buffer

	attrs, rows, steps int
}

// NewRenderer compiles programs and uploads the static buffers of d. The GL
// context must be current.
func NewRenderer(d plot.Data) *Renderer {
	r := &Renderer{
		Background:     f32.Vec4{0.1, 0.1, 0.1, 1},
		HandleColor:    f32.Vec4{0.6, 0.6, 0.6, 0.8},
		HandleHotColor: f32.Vec4{1, 1, 1, 1},
		SelectionColor: f32.Vec4{1, 1, 1, 0.8},
		Segments:       DefaultSegments,
		bufs:           make(map[plot.Buffer]*Buffer),
		attrs:          d.Attrs,
		rows:           d.Rows,
		steps:          d.Steps,
	}

	r.lines.MustBuild(ShaderAsset("lines.vert"), ShaderAsset("lines.tesc"), ShaderAsset("lines.tese"), ShaderAsset("color.frag"))
	r.time.MustBuild(ShaderAsset("time.vert"), ShaderAsset("color.frag"))
	r.quad.MustBuild(ShaderAsset("quad.vert"), ShaderAsset("color.frag"))
	r.flat.MustBuild(ShaderAsset("flat.vert"), ShaderAsset("color.frag"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	r.values = NewBuffer(gl.SHADER_STORAGE_BUFFER, gl.STATIC_DRAW)
	r.values.UpdateFloats(0, Normalize(d))

	r.depths = NewBuffer(gl.SHADER_STORAGE_BUFFER, gl.STATIC_DRAW)
	r.depths.UpdateFloats(0, expansion.TimeAxis(d.Steps))

	r.axisElems = NewBuffer(gl.ELEMENT_ARRAY_BUFFER, gl.STATIC_DRAW)
	r.axisElems.UpdateIndices(0, QuadIndices(d.Attrs))

	r.timeElems = NewBuffer(gl.ELEMENT_ARRAY_BUFFER, gl.STATIC_DRAW)
	if d.Steps > 1 {
		r.timeElems.UpdateIndices(0, expansion.TimeIndices(d.Rows, d.Steps))
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PatchParameteri(gl.PATCH_VERTICES, 2)

	logger.Info("renderer ready", "attrs", d.Attrs, "rows", d.Rows, "steps", d.Steps,
		"version", gl.GoStr(gl.GetString(gl.VERSION)))
	return r
}

func (r *Renderer) buffer(id plot.Buffer, target uint32) *Buffer {
	buf, ok := r.bufs[id]
	if !ok {
		buf = NewBuffer(target, gl.DYNAMIC_DRAW)
		r.bufs[id] = buf
	}
	return buf
}

func target(k plot.Kind) uint32 {
	switch k {
	case plot.AxisPositions, plot.LineColors:
		return gl.SHADER_STORAGE_BUFFER
	case plot.LineIndices, plot.MiddleIndices:
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (r *Renderer) UploadFloats(id plot.Buffer, offset int, data []float32) {
	r.buffer(id, target(id.Kind)).UpdateFloats(offset, data)
}

func (r *Renderer) UploadIndices(id plot.Buffer, offset int, data []uint32) {
	r.buffer(id, target(id.Kind)).UpdateIndices(offset, data)
}

// Delete frees every GL object held by r.
func (r *Renderer) Delete() {
	for _, buf := range r.bufs {
		buf.Delete()
	}
	r.values.Delete()
	r.depths.Delete()
	r.axisElems.Delete()
	r.timeElems.Delete()
	gl.DeleteVertexArrays(1, &r.vao)
	for _, prg := range []Program{r.lines, r.time, r.quad, r.flat} {
		prg.Delete()
	}
}

// Draw renders the current state of a into the viewport sized by its
// resolution.
func (r *Renderer) Draw(a *app.App) {
	ctx := a.Context()
	gl.Viewport(0, 0, int32(ctx.Resolution[0]), int32(ctx.Resolution[1]))
	gl.ClearColor(r.Background[0], r.Background[1], r.Background[2], r.Background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(r.vao)

	model := ctx.DrawModel()
	entries := a.Entries()

	r.drawAxes(model)

	r.flat.Use()
	r.flat.Set16fv("model", model)
	for _, e := range entries {
		if e.Highlight.Active {
			r.strip(plot.Buffer{Kind: plot.HighlightQuad, ID: e.ID}, 0, e.Highlight.Color)
		}
	}

	r.lines.Use()
	r.lines.Set1i("attrs", r.attrs)
	r.lines.Set1i("rows", r.rows)
	r.lines.Set1i("steps", r.steps)
	r.lines.Set1f("segments", float32(r.Segments))
	r.lines.Set16fv("model", model)
	r.bindStorage()
	r.lines.Set2i("anchors", -1, -1)
	r.patches(plot.Buffer{Kind: plot.LineIndices})
	for _, e := range entries {
		l, rt, depth := middleDepth(e)
		r.lines.Set2i("anchors", l, rt)
		r.lines.Set2fv("depth", depth)
		r.patches(plot.Buffer{Kind: plot.MiddleIndices, ID: e.ID})
	}

	if r.steps > 1 && len(entries) > 0 {
		r.time.Use()
		r.time.Set1i("attrs", r.attrs)
		r.time.Set1i("rows", r.rows)
		r.time.Set1i("steps", r.steps)
		for _, e := range entries {
			r.drawTime(e.Left, e.ModelLeft)
			r.drawTime(e.Right, e.ModelRight)
		}
	}

	r.flat.Use()
	r.flat.Set16fv("model", geom.Ident16fv())
	for _, e := range entries {
		for i, h := range e.Handles {
			c := r.HandleColor
			if h.Hot {
				c = r.HandleHotColor
			}
			r.strip(plot.Buffer{Kind: plot.HandleQuads, ID: e.ID}, 4*i, c)
		}
	}

	if sel, ok := r.bufs[plot.Buffer{Kind: plot.SelectionRect}]; ok && sel.Count == 8 && a.Box().Active {
		r.flat.Set16fv("model", model)
		r.flat.Set4fv("tint", r.SelectionColor)
		sel.Bind()
		pointer(0, 2, 0, 0)
		gl.DrawArrays(gl.LINE_LOOP, 0, 4)
	}
}

func (r *Renderer) bindStorage() {
	if buf, ok := r.bufs[plot.Buffer{Kind: plot.AxisPositions}]; ok {
		buf.BindBase(bindAxes)
	}
	if buf, ok := r.bufs[plot.Buffer{Kind: plot.LineColors}]; ok {
		buf.BindBase(bindColors)
	}
	r.values.BindBase(bindValues)
	r.depths.BindBase(bindDepths)
}

// middleDepth returns the anchor axes of e and the depth lines.vert reads each
// of them at.
func middleDepth(e *expansion.Entry) (left, right int, depth f32.Vec2) {
	return e.Left, e.Right, f32.Vec2{e.Depth(e.Left), e.Depth(e.Right)}
}

func (r *Renderer) drawAxes(model f32.Mat4) {
	buf, ok := r.bufs[plot.Buffer{Kind: plot.AxisQuads}]
	if !ok || buf.Count == 0 {
		return
	}
	r.quad.Use()
	r.quad.Set16fv("model", model)
	buf.Bind()
	pointer(0, 2, 24, 0)
	pointer(1, 4, 24, 8)
	r.axisElems.Bind()
	gl.DrawElements(gl.TRIANGLES, int32(r.axisElems.Count), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.DisableVertexAttribArray(1)
}

// strip draws four xy vertices of buffer id starting at first.
func (r *Renderer) strip(id plot.Buffer, first int, tint f32.Vec4) {
	buf, ok := r.bufs[id]
	if !ok || buf.Count < 2*(first+4) {
		return
	}
	r.flat.Set4fv("tint", tint)
	buf.Bind()
	pointer(0, 2, 0, 0)
	gl.DrawArrays(gl.TRIANGLE_STRIP, int32(first), 4)
}

func (r *Renderer) patches(id plot.Buffer) {
	buf, ok := r.bufs[id]
	if !ok || buf.Count == 0 {
		return
	}
	buf.Bind()
	gl.DrawElements(gl.PATCHES, int32(buf.Count), gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (r *Renderer) drawTime(attr int, model f32.Mat4) {
	r.time.Set1i("attr", attr)
	r.time.Set16fv("model", model)
	r.timeElems.Bind()
	gl.DrawElements(gl.LINES, int32(r.timeElems.Count), gl.UNSIGNED_INT, gl.PtrOffset(0))
}

// pointer enables float attribute index of size components read from the
// bound array buffer.
func pointer(index uint32, size, stride, offset int) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, int32(size), gl.FLOAT, false, int32(stride), gl.PtrOffset(offset))
}

// Normalize returns every value of d mapped from its attribute range to [-1, 1],
// in the layout of d.Values.
func Normalize(d plot.Data) []float32 {
	out := make([]float32, len(d.Values))
	for i, v := range d.Values {
		out[i] = geom.Remap(v, d.Ranges[i%d.Attrs], f32.Vec2{-1, 1})
	}
	return out
}

// QuadIndices returns triangles covering n quads of four vertices each, given
// in upper-left, upper-right, lower-left, lower-right order.
func QuadIndices(n int) []uint32 {
	out := make([]uint32, 0, 6*n)
	for i := 0; i < n; i++ {
		b := uint32(4 * i)
		out = append(out, b, b+1, b+2, b+2, b+1, b+3)
	}
	return out
}
