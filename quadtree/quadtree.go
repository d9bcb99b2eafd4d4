// Package quadtree provides functions for a linear quad tree over the unit square.
//
// A key packs the level in its low four bits and the interleaved cell column and
// row above that, column bits at even positions.
package quadtree

import "math"

// MaxLevel is the deepest level a key can address.
const MaxLevel = 13

// Dilate interleaves the low 16 bits of x with zeros using shift-or algorithm.
func Dilate(x uint32) uint32 {
	x &= 0x0000FFFF
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// Encode packs column x, row y and level into a key.
func Encode(x, y, level uint32) uint32 {
	return ((Dilate(x) | Dilate(y)<<1) << 4) | (level & 0xF)
}

// Cap calculates the required capacity to hold all nodes of a given level.
func Cap(lvl int) int {
	return int(math.Pow(4, float64(lvl)))
}

// Cover collects keys of every cell at lvl overlapping the normalized box
// x0, y0, x1, y1 into keys pointer. Edges touching a cell count as overlap.
func Cover(x0, y0, x1, y1 float32, lvl int, keys *[]uint32) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	cx0, cx1 := clampCell(x0, lvl), clampCell(x1, lvl)
	cy0, cy1 := clampCell(y0, lvl), clampCell(y1, lvl)
	for y := cy0; y <= cy1; y++ {
		for x := cx0; x <= cx1; x++ {
			*keys = append(*keys, Encode(x, y, uint32(lvl)))
		}
	}
}

func clampCell(n float32, lvl int) uint32 {
	size := uint32(1) << uint(lvl)
	c := int(n * float32(size))
	if c < 0 {
		return 0
	}
	if c >= int(size) {
		return size - 1
	}
	return uint32(c)
}
