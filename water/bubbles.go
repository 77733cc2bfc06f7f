package water

import (
	"math/rand"

	"github.com/cwbudde/algo-water/dsp"
)

const bubbleSlots = 8

// bubble is one slot of the bubbling layer: a pair of drifting resonators
// (fundamental plus a weaker overtone) and a tiny noise burst.
type bubble struct {
	countdown int
	res1      DriftResonator
	res2      DriftResonator
	burstAmp  float32
	burstDec  float32
	burstLP   dsp.OnePole
	pan       float32
}

// BubblingLayer fires short drifting-resonator chirps from a fixed set of
// slots. Each slot re-arms on a probabilistic countdown scaled by density.
type BubblingLayer struct {
	sampleRate int
	gain       float32
	density    float32
	slots      [bubbleSlots]bubble
}

func (b *BubblingLayer) Init(sampleRate int, rng *rand.Rand) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	b.sampleRate = sampleRate
	b.gain = 0.5
	b.density = 1
	for i := range b.slots {
		b.slots[i].countdown = int(rng.Float32() * 0.5 * float32(sampleRate))
	}
}

// SetParams sets the layer gain and re-arm density.
func (b *BubblingLayer) SetParams(gain, density float32) {
	b.gain = clampFloat32(gain, 0, 1)
	b.density = clampFloat32(density, 0, 1)
}

func (b *BubblingLayer) fire(s *bubble, rng *rand.Rand) {
	sr := b.sampleRate
	// Log-random fundamental so bubbles spread evenly per octave.
	freq := logLerp(400, 3200, rng.Float32())
	amp := 0.2 + 0.3*rng.Float32()
	decay := 0.04 + 0.05*rng.Float32()
	drift := 0.3 + 0.5*rng.Float32()
	driftTime := 0.03 + 0.03*rng.Float32()
	s.res1.Init(freq, amp, decay, drift, driftTime, DriftExp, 2, sr)
	s.res2.Init(freq*1.52, amp*0.35, decay*0.7, drift*0.8, driftTime, DriftExp, 2, sr)
	s.burstAmp = 0.1 + 0.1*rng.Float32()
	s.burstDec = decayCoeff(0.006+0.006*rng.Float32(), sr)
	s.burstLP.Reset()
	s.burstLP.SetCutoff(freq*2, float32(sr))
	s.pan = 0.2 + 0.6*rng.Float32()
}

func (b *BubblingLayer) Process(rng *rand.Rand) (float32, float32) {
	var left, right float32
	for i := range b.slots {
		s := &b.slots[i]
		if s.countdown <= 0 {
			if b.density > 0 && rng.Float32() < 0.5*b.density {
				b.fire(s, rng)
			}
			// Re-check sooner at high density.
			interval := 0.06 + 0.35*(1.1-b.density)*rng.Float32()
			s.countdown = maxInt(1, int(interval*float32(b.sampleRate)))
		}
		s.countdown--

		var out float32
		if s.res1.Active() {
			out += s.res1.Process()
		}
		if s.res2.Active() {
			out += s.res2.Process()
		}
		if s.burstAmp > silenceThreshold {
			out += s.burstLP.Process(rng.Float32()*2-1) * s.burstAmp
			s.burstAmp *= s.burstDec
		}
		if out != 0 {
			left += out * (1.0 - s.pan)
			right += out * s.pan
		}
	}
	return left * b.gain, right * b.gain
}
