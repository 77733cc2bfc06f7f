package water

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

const twoPi = float32(2.0 * math.Pi)

// ln(1000): a -60 dB decay target reaches amplitude*0.001 after the
// configured decay time.
const ln1000 = 6.907755278982137

// decayCoeff returns the per-sample amplitude multiplier that decays to
// -60 dB after decaySeconds at the given sample rate.
func decayCoeff(decaySeconds float32, sampleRate int) float32 {
	if decaySeconds < 0.0005 {
		decaySeconds = 0.0005
	}
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	return approx.FastExp(float32(-ln1000 / (float64(decaySeconds) * float64(sampleRate))))
}

// lerp interpolates linearly between a and b.
func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// logLerp interpolates between a and b on a logarithmic scale.
// Used for frequency draws so bubbles and modes spread evenly per octave
// instead of clustering toward the high end.
func logLerp(a, b, t float32) float32 {
	if a <= 0 || b <= 0 {
		return lerp(a, b, t)
	}
	la := math.Log(float64(a))
	lb := math.Log(float64(b))
	return float32(math.Exp(la + (lb-la)*float64(t)))
}

func clampFloat32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

func maxf(a float32, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a float32, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
