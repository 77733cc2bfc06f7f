package water

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// silenceThreshold is the amplitude below which a resonator or envelope
// no longer contributes audibly.
const silenceThreshold = 1e-5

// Resonator is a single damped sinusoidal mode of an excited body.
type Resonator struct {
	phase    float32
	phaseInc float32
	amp      float32
	decay    float32
}

// Init configures the resonator for a new excitation. The decay reaches
// -60 dB of the initial amplitude after decaySeconds.
func (r *Resonator) Init(freq, amp, decaySeconds float32, sampleRate int) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	freq = clampFloat32(freq, 1, float32(sampleRate)*0.49)
	r.phase = 0
	r.phaseInc = twoPi * freq / float32(sampleRate)
	r.amp = amp
	r.decay = decayCoeff(decaySeconds, sampleRate)
}

// Process emits one sample and advances phase and decay.
func (r *Resonator) Process() float32 {
	out := float32(math.Sin(float64(r.phase))) * r.amp
	r.phase += r.phaseInc
	if r.phase >= twoPi {
		r.phase -= twoPi
	}
	r.amp = float32(dspcore.FlushDenormals(float64(r.amp * r.decay)))
	return out
}

// Active reports whether the mode still contributes audibly.
func (r *Resonator) Active() bool {
	return r.amp > silenceThreshold
}

// Energy returns the squared amplitude, used for voice stealing.
func (r *Resonator) Energy() float32 {
	return r.amp * r.amp
}

// Silence zeroes the resonator immediately.
func (r *Resonator) Silence() {
	r.amp = 0
}

// DriftMode selects the frequency drift trajectory shape.
type DriftMode int

const (
	DriftLinear DriftMode = iota
	DriftExp
)

// DriftResonator is a resonator whose frequency rises toward a target over
// a bounded duration, modelling the shrinking air bubble of a water drop.
// The instantaneous frequency never decreases while the drift is active.
type DriftResonator struct {
	Resonator

	sampleRate int
	freq       float32
	startFreq  float32
	targetFreq float32
	driftTotal int
	driftLeft  int
	mode       DriftMode
	exponent   float32
}

// Init configures the resonator with a frequency drift. driftAmount is
// clamped to be non-negative so the target frequency is never below the
// start frequency.
func (d *DriftResonator) Init(freq, amp, decaySeconds, driftAmount, driftSeconds float32, mode DriftMode, exponent float32, sampleRate int) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	if driftAmount < 0 {
		driftAmount = 0
	}
	if exponent <= 0 {
		exponent = 1
	}
	freq = clampFloat32(freq, 1, float32(sampleRate)*0.45)

	d.Resonator.Init(freq, amp, decaySeconds, sampleRate)
	d.sampleRate = sampleRate
	d.freq = freq
	d.startFreq = freq
	d.targetFreq = minf(freq*(1.0+driftAmount), float32(sampleRate)*0.49)
	d.driftTotal = int(driftSeconds * float32(sampleRate))
	d.driftLeft = d.driftTotal
	d.mode = mode
	d.exponent = exponent
}

// Process advances the drift by one sample, then emits the mode sample.
func (d *DriftResonator) Process() float32 {
	if d.driftLeft > 0 && d.driftTotal > 0 {
		d.driftLeft--
		t := 1.0 - float32(d.driftLeft)/float32(d.driftTotal)
		var shaped float32
		switch d.mode {
		case DriftExp:
			shaped = float32(math.Pow(float64(clampFloat32(t, 0, 1)), float64(d.exponent)))
		default:
			shaped = clampFloat32(t, 0, 1)
		}
		next := d.startFreq + (d.targetFreq-d.startFreq)*shaped
		// The shaping function may wobble numerically; the audible
		// frequency must never glide backward.
		if next < d.freq {
			next = d.freq
		}
		d.freq = next
		d.phaseInc = twoPi * d.freq / float32(d.sampleRate)
	}
	return d.Resonator.Process()
}

// Freq returns the instantaneous frequency in Hz.
func (d *DriftResonator) Freq() float32 {
	return d.freq
}

// Drifting reports whether the drift is still in progress.
func (d *DriftResonator) Drifting() bool {
	return d.driftLeft > 0
}
