package quadtree

import "testing"

func TestDilate(t *testing.T) {
	for _, tc := range []struct{ x, want uint32 }{
		{0, 0},
		{0b11, 0b101},
		{0b1001, 0b1000001},
		{0xFFFF, 0x55555555},
		{0x1FFFF, 0x55555555},
	} {
		if have := Dilate(tc.x); have != tc.want {
			t.Fatalf("Dilate(%b) = %b, want %b", tc.x, have, tc.want)
		}
	}
}

func TestEncode(t *testing.T) {
	if have := Encode(1, 3, 2); have != 0b10110010 {
		t.Fatalf("Encode(1, 3, 2) = %b, want 10110010", have)
	}
	if have := Encode(0, 0, 0); have != 0 {
		t.Fatalf("root key = %b", have)
	}
	seen := make(map[uint32]bool)
	for y := uint32(0); y < 16; y++ {
		for x := uint32(0); x < 16; x++ {
			k := Encode(x, y, 4)
			if seen[k] {
				t.Fatalf("Encode(%v, %v, 4) = %b repeats", x, y, k)
			}
			seen[k] = true
		}
	}
	if len(seen) != Cap(4) {
		t.Fatalf("Expected %v keys but got %v", Cap(4), len(seen))
	}
}

func TestCover(t *testing.T) {
	var keys []uint32
	Cover(0.1, 0.1, 0.6, 0.3, 2, &keys)
	want := []uint32{
		Encode(0, 0, 2), Encode(1, 0, 2), Encode(2, 0, 2),
		Encode(0, 1, 2), Encode(1, 1, 2), Encode(2, 1, 2),
	}
	if len(keys) != len(want) {
		t.Fatalf("Expected %v cells but got %v", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("cell %v: have %b, want %b", i, keys[i], want[i])
		}
	}

	keys = keys[:0]
	Cover(0.6, 0.3, 0.1, 0.1, 2, &keys)
	if len(keys) != 6 {
		t.Fatalf("reversed corners, expected 6 cells but got %v", len(keys))
	}

	keys = keys[:0]
	Cover(-1, 2, -1, 2, 2, &keys)
	if len(keys) != 1 || keys[0] != Encode(0, 3, 2) {
		t.Fatalf("out of range point not clamped, have %b", keys)
	}
}

func BenchmarkCover(b *testing.B) {
	keys := make([]uint32, 0, Cap(6))
	for n := 0; n < b.N; n++ {
		keys = keys[:0]
		Cover(0, 0, 1, 1, 6, &keys)
	}
}
