// ABOUTME: Tests for packed stereo frame helpers
// ABOUTME: Verifies the (right<<16)|left wire layout and round-tripping
package i2s

import "testing"

func TestPackFrameLayout(t *testing.T) {
	tests := []struct {
		left, right int16
		want        uint32
	}{
		{0, 0, 0x00000000},
		{1, 0, 0x00000001},
		{0, 1, 0x00010000},
		{-1, -1, 0xFFFFFFFF},
		{0x1234, 0x5678, 0x56781234},
		{-32768, 32767, 0x7FFF8000},
	}

	for _, tt := range tests {
		if got := PackFrame(tt.left, tt.right); got != tt.want {
			t.Errorf("PackFrame(%d, %d) = %#08x, want %#08x", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestUnpackFrameRoundTrip(t *testing.T) {
	pairs := [][2]int16{
		{0, 0},
		{100, -100},
		{-32768, -32768},
		{32767, 32767},
		{-1, 1},
	}

	for _, p := range pairs {
		l, r := UnpackFrame(PackFrame(p[0], p[1]))
		if l != p[0] || r != p[1] {
			t.Errorf("round trip (%d, %d) -> (%d, %d)", p[0], p[1], l, r)
		}
	}
}
