// Package plottest provides helpers for testing code that drives a plot.
package plottest

import (
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/plot"
)

// Upload is one recorded call.
type Upload struct {
	Buffer  plot.Buffer
	Offset  int
	Floats  []float32
	Indices []uint32
}

// Recorder is an Uploader that keeps a copy of every upload.
type Recorder struct {
	Uploads []Upload
}

func (r *Recorder) UploadFloats(buf plot.Buffer, offset int, data []float32) {
	r.Uploads = append(r.Uploads, Upload{Buffer: buf, Offset: offset, Floats: append([]float32(nil), data...)})
}

func (r *Recorder) UploadIndices(buf plot.Buffer, offset int, data []uint32) {
	r.Uploads = append(r.Uploads, Upload{Buffer: buf, Offset: offset, Indices: append([]uint32(nil), data...)})
}

// Last returns the most recent upload to buf and whether there was one.
func (r *Recorder) Last(buf plot.Buffer) (Upload, bool) {
	for i := len(r.Uploads) - 1; i >= 0; i-- {
		if r.Uploads[i].Buffer == buf {
			return r.Uploads[i], true
		}
	}
	return Upload{}, false
}

// Count returns number of uploads of kind.
func (r *Recorder) Count(kind plot.Kind) int {
	var n int
	for _, u := range r.Uploads {
		if u.Buffer.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets all uploads.
func (r *Recorder) Reset() { r.Uploads = r.Uploads[:0] }

// Data returns a single step dataset whose values are already in [-1, 1];
// rows[i][j] is attribute j of row i.
func Data(rows ...[]float32) plot.Data {
	d := plot.Data{Attrs: len(rows[0]), Rows: len(rows), Steps: 1}
	for _, r := range rows {
		d.Values = append(d.Values, r...)
	}
	d.Ranges = make([]f32.Vec2, d.Attrs)
	for i := range d.Ranges {
		d.Ranges[i] = f32.Vec2{-1, 1}
	}
	return d
}
