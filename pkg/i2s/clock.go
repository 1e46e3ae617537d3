// ABOUTME: Clock divider solver for the I2S sample clock
// ABOUTME: Finds the divider triple whose output rate is closest to a request
package i2s

// BaseFreq is the peripheral clock all dividers derive from (160 MHz).
const BaseFreq = 160000000

// ClockConfig is a divider triple together with the sample rate it achieves:
//
//	Freq = BaseFreq / (BCKDiv * ClkmDiv * Bits * 2)
//
// Bits is the word length clocked out per channel. Most codecs ignore bits
// beyond 16, and the fake PWM/delta-sigma outputs just lose a little output
// voltage, so widening the word is a usable extra degree of freedom when
// word-length fuzzing is allowed.
type ClockConfig struct {
	BCKDiv  int // bit-clock divider, 2..63
	ClkmDiv int // main clock divider, 5..63
	Bits    int // bits per channel, 16 unless fuzzing widened it
	Freq    int // achieved sample rate in Hz
}

// FindClockDividers searches the discrete divider space for the triple whose
// achievable rate is closest to rate. With wordlenFuzzing the word length may
// widen from 16 up to 19 bits. The search is exhaustive but small (at most
// 62x59x4 combinations) and pure; applying the result to hardware is the
// caller's job.
//
// Only a strictly smaller error replaces the current best, so ties keep the
// triple found first in enumeration order (ascending BCKDiv, then ClkmDiv,
// then Bits). Every positive rate yields a result; unreachable rates degrade
// to the closest achievable value rather than failing.
func FindClockDividers(rate int, wordlenFuzzing bool) ClockConfig {
	// Seed with an achieved rate no request can be close to, so the first
	// candidate always wins.
	best := ClockConfig{BCKDiv: 2, ClkmDiv: 5, Bits: 16, Freq: -10000}

	bitsEnd := 17
	if wordlenFuzzing {
		bitsEnd = 20
	}

	for bck := 2; bck < 64; bck++ {
		for clkm := 5; clkm < 64; clkm++ {
			for bits := 16; bits < bitsEnd; bits++ {
				freq := BaseFreq / (bck * clkm * bits * 2)
				if abs(rate-freq) < abs(rate-best.Freq) {
					best = ClockConfig{BCKDiv: bck, ClkmDiv: clkm, Bits: bits, Freq: freq}
				}
			}
		}
	}

	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
