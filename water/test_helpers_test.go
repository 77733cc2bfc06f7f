package water

import (
	"math"
	"math/rand"
)

// windowRMS returns the RMS level of a sample window.
func windowRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// dftBinMagnitude evaluates a single DFT bin at freq directly. Slow but
// dependency-free, good enough for test assertions.
func dftBinMagnitude(samples []float32, sampleRate int, freq float64) float64 {
	var re, im float64
	w := 2 * math.Pi * freq / float64(sampleRate)
	for n, s := range samples {
		re += float64(s) * math.Cos(w*float64(n))
		im -= float64(s) * math.Sin(w*float64(n))
	}
	norm := 2.0 / float64(len(samples))
	return math.Hypot(re, im) * norm
}

// monoSum folds an interleaved stereo buffer to mono.
func monoSum(stereo []float32) []float32 {
	mono := make([]float32, len(stereo)/2)
	for i := range mono {
		mono[i] = 0.5 * (stereo[2*i] + stereo[2*i+1])
	}
	return mono
}

// hasNonFinite scans a buffer for NaN or Inf.
func hasNonFinite(samples []float32) bool {
	for _, s := range samples {
		if !isFinite(s) {
			return true
		}
	}
	return false
}

func newTestRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
