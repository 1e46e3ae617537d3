// ABOUTME: Packed stereo frame helpers
// ABOUTME: One frame is two signed 16-bit channel values in a 32-bit word
package i2s

// PackFrame packs one stereo sample pair into the wire layout the peripheral
// shifts out: (right << 16) | left.
func PackFrame(left, right int16) uint32 {
	return uint32(uint16(right))<<16 | uint32(uint16(left))
}

// UnpackFrame splits a packed frame back into its channel values.
func UnpackFrame(frame uint32) (left, right int16) {
	return int16(uint16(frame)), int16(uint16(frame >> 16))
}
