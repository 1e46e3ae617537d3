// ABOUTME: Peripheral backend package for the I2S pipeline
// ABOUTME: Provides simulated and oto-based Peripheral implementations
// Package output provides i2s.Peripheral implementations.
//
// Two backends are available:
//   - Sim: a software model of the DMA engine that walks the descriptor
//     ring on a timer (or under manual test control) with no audio device.
//   - Oto: real playback through the ebitengine/oto library, pacing the
//     descriptor walk by the platform audio buffer.
//
// Example:
//
//	hw := output.NewOto()
//	dev, err := i2s.New(hw, i2s.Config{BufferCount: 4, BufferFrames: 128})
package output
