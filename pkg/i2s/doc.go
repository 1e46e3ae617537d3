// ABOUTME: I2S output pipeline package documentation
// ABOUTME: Describes the DMA buffer pipeline and its usage
// Package i2s implements a continuous, glitch-free sample output pipeline
// for a DMA-capable serial audio peripheral.
//
// The pipeline owns a fixed pool of sample buffers wired into a circular
// descriptor chain that the peripheral walks autonomously. Finished buffers
// come back through a bounded completion queue; the producer refills them
// one packed stereo frame at a time:
//
//	dev, err := i2s.New(hw, i2s.Config{BufferCount: 4, BufferFrames: 128})
//	dev.SetSampleRate(44100, false)
//	for {
//	    dev.PushSample(i2s.PackFrame(left, right))
//	}
//
// PushSample blocks when every buffer is full, so a producer can simply
// generate samples as fast as it likes and let the pipeline regulate the
// pace. If the producer falls behind instead, the peripheral replays stale
// audio; each such event is counted and observable via UnderrunCount.
//
// The hardware side is abstracted by the Peripheral interface. Real and
// simulated implementations live in pkg/i2s/output.
package i2s
