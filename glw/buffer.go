package glw

import (
	"math"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Buffer is a GL buffer object with a client side copy of its contents so
// partial uploads can be written in place while they fit.
type Buffer struct {
	ID     uint32
	Target uint32
	Usage  uint32

	// Count is the number of 32-bit elements in use.
	Count int

	bin []byte
}

// NewBuffer returns an empty buffer bound to target.
func NewBuffer(target, usage uint32) *Buffer {
	buf := &Buffer{Target: target, Usage: usage}
	gl.GenBuffers(1, &buf.ID)
	return buf
}

func (buf *Buffer) Bind()   { gl.BindBuffer(buf.Target, buf.ID) }
func (buf *Buffer) Unbind() { gl.BindBuffer(buf.Target, 0) }
func (buf *Buffer) Delete() { gl.DeleteBuffers(1, &buf.ID) }

// BindBase binds buf to indexed binding point of a shader storage block.
func (buf *Buffer) BindBase(index uint32) { gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, index, buf.ID) }

// UpdateFloats writes data at element offset.
func (buf *Buffer) UpdateFloats(offset int, data []float32) {
	realloc := buf.stage(offset, len(data))
	putFloats(buf.bin[4*offset:], data)
	buf.upload(offset, len(data), realloc)
}

// UpdateIndices writes data at element offset.
func (buf *Buffer) UpdateIndices(offset int, data []uint32) {
	realloc := buf.stage(offset, len(data))
	putUints(buf.bin[4*offset:], data)
	buf.upload(offset, len(data), realloc)
}

// stage sizes the client copy for n elements at offset and reports whether
// the GL store must be reallocated. An upload at offset zero replaces the
// contents and sets Count to n.
func (buf *Buffer) stage(offset, n int) (realloc bool) {
	end := offset + n
	if offset == 0 {
		buf.Count = n
	} else if end > buf.Count {
		buf.Count = end
	}
	if 4*end <= len(buf.bin) {
		return false
	}
	bin := make([]byte, 4*end)
	copy(bin, buf.bin)
	buf.bin = bin
	return true
}

func (buf *Buffer) upload(offset, n int, realloc bool) {
	if n == 0 && !realloc {
		return
	}
	buf.Bind()
	if realloc {
		gl.BufferData(buf.Target, len(buf.bin), gl.Ptr(buf.bin), buf.Usage)
	} else {
		gl.BufferSubData(buf.Target, 4*offset, 4*n, gl.Ptr(buf.bin[4*offset:]))
	}
	logger.Debug("upload", "buffer", buf.ID, "offset", offset, "n", n, "realloc", realloc)
}

func putFloats(dst []byte, data []float32) {
	for i, x := range data {
		putUint(dst[4*i:], math.Float32bits(x))
	}
}

func putUints(dst []byte, data []uint32) {
	for i, u := range data {
		putUint(dst[4*i:], u)
	}
}

func putUint(b []byte, u uint32) {
	b[0] = byte(u >> 0)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}
