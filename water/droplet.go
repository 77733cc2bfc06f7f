package water

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-water/dsp"
)

const maxDropletModes = 5

// DropletTrigger carries the per-hit synthesis parameters drawn by the
// engine from the active preset and macro controls.
type DropletTrigger struct {
	BaseFreq  float32 // main mode center in Hz before per-hit spread
	DropSize  float32 // 0..1, larger drops ring lower and tail longer
	Hardness  float32 // 0..1, harder surfaces give shorter, brighter impacts
	DecayTime float32 // modal decay budget in seconds
}

// DropletVoice synthesizes a single drop hitting a hard surface: a short
// impact transient, a bank of drifting modal resonators, and a broadband
// tail, with a slowly roaming resonant highpass over the modal sum.
type DropletVoice struct {
	sampleRate int
	active     bool
	age        int

	impactAmp    float32
	impactDecay  float32
	impactSmooth dsp.OnePole
	impactHP     dsp.Biquad
	impactBP     dsp.Biquad

	modes     [maxDropletModes]DriftResonator
	modeCount int
	modeDelay int
	toneAmp   float32
	toneDecay float32

	tailAmp   float32
	tailDecay float32
	tailLP    dsp.OnePole

	roamHP     dsp.Biquad
	roamPhase  float32
	roamInc    float32
	roamCenter float32
	roamDepth  float32
	roamJitter float32

	panL float32
	panR float32
}

// Init binds the voice to a sample rate. The voice starts inactive.
func (v *DropletVoice) Init(sampleRate int) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	v.sampleRate = sampleRate
	v.active = false
}

// Trigger restarts the voice with freshly drawn per-hit character. All
// randomness comes from rng so renders are reproducible for a given seed.
func (v *DropletVoice) Trigger(p DropletTrigger, rng *rand.Rand) {
	sr := v.sampleRate
	hardness := clampFloat32(p.Hardness, 0, 1)
	dropSize := clampFloat32(p.DropSize, 0, 1)
	decayTime := clampFloat32(p.DecayTime, 0.005, 4)

	// Impact transient: 2-10 ms, shorter and brighter for harder surfaces.
	impactDur := 0.010 - 0.008*hardness
	v.impactAmp = 0.7 + 0.5*rng.Float32()
	v.impactDecay = decayCoeff(impactDur, sr)
	v.impactSmooth.SetCutoff(lerp(3000, 9000, hardness), float32(sr))
	v.impactHP.Reset()
	v.impactHP.SetHighpass(lerp(1100, 3600, hardness)*(0.9+0.2*rng.Float32()), float32(sr), 0.8)
	v.impactBP.Reset()
	v.impactBP.SetBandpass(lerp(2200, 5200, hardness)*(0.9+0.2*rng.Float32()), float32(sr), 1.4)

	// Modal ring. Larger drops ring lower.
	mainFreq := p.BaseFreq * lerp(1.5, 0.6, dropSize) * (0.92 + 0.16*rng.Float32())
	mainFreq = clampFloat32(mainFreq, 150, 6000)
	spread := 0.03 + 0.05*rng.Float32()
	driftAmount := 0.1 + 0.4*rng.Float32()
	driftTime := 0.02 + 0.06*rng.Float32()
	driftExp := 1.5 + rng.Float32()

	v.modeCount = 3
	if rng.Float32() < 0.6 {
		v.modeCount = 4
	}
	if v.modeCount == 4 && rng.Float32() < 0.4 {
		v.modeCount = 5
	}
	modeDecay := decayTime * (0.3 + 0.3*rng.Float32())
	v.modes[0].Init(mainFreq, 1.0, modeDecay, driftAmount, driftTime, DriftExp, driftExp, sr)
	v.modes[1].Init(mainFreq*(1.0+spread), 0.55, modeDecay*0.8, driftAmount*0.7, driftTime, DriftExp, driftExp, sr)
	v.modes[2].Init(mainFreq*(1.0-spread), 0.55, modeDecay*0.8, driftAmount*1.2, driftTime, DriftLinear, 1, sr)
	if v.modeCount > 3 {
		v.modes[3].Init(mainFreq*2.71, 0.3, modeDecay*0.5, driftAmount*0.5, driftTime*0.7, DriftExp, driftExp, sr)
	}
	if v.modeCount > 4 {
		v.modes[4].Init(mainFreq*4.2, 0.18, modeDecay*0.35, driftAmount*0.4, driftTime*0.6, DriftExp, driftExp, sr)
	}
	v.modeDelay = int(rng.Float32() * 0.003 * float32(sr))
	v.toneAmp = 1.0
	v.toneDecay = decayCoeff(decayTime*0.5, sr)

	// Broadband tail: 10-80 ms, longer for larger drops.
	tailDur := 0.010 + 0.070*dropSize*(0.5+0.5*rng.Float32())
	v.tailAmp = 0.25 + 0.35*rng.Float32()
	v.tailDecay = decayCoeff(tailDur, sr)
	v.tailLP.Reset()
	v.tailLP.SetCutoff(lerp(1400, 4200, hardness), float32(sr))

	// Roaming resonant highpass over the modal sum.
	v.roamCenter = logLerp(700, 2600, rng.Float32())
	v.roamDepth = 0.15 + 0.35*rng.Float32()
	v.roamJitter = 0.02 + 0.04*rng.Float32()
	v.roamPhase = rng.Float32() * twoPi
	v.roamInc = twoPi * (0.5 + 6.0*rng.Float32()) / float32(sr)
	v.roamHP.Reset()
	v.roamHP.SetHighpass(v.roamCenter, float32(sr), 2.2)

	// Equal-power pan around center.
	ang := float32(math.Pi/4) + (rng.Float32()*2-1)*0.55
	v.panL = float32(math.Cos(float64(ang)))
	v.panR = float32(math.Sin(float64(ang)))

	v.age = 0
	v.active = true
}

// Process emits one stereo sample. Inactive voices emit silence.
func (v *DropletVoice) Process(rng *rand.Rand) (float32, float32) {
	if !v.active {
		return 0, 0
	}

	var impact float32
	if v.impactAmp > silenceThreshold {
		noise := rng.Float32()*2 - 1
		n := v.impactSmooth.Process(noise)
		impact = (v.impactHP.Process(n) + 0.6*v.impactBP.Process(n)) * v.impactAmp
		v.impactAmp *= v.impactDecay
	}

	var modal float32
	modalLive := false
	if v.modeDelay > 0 {
		v.modeDelay--
		modalLive = true
	} else if v.toneAmp > silenceThreshold {
		for i := 0; i < v.modeCount; i++ {
			if v.modes[i].Active() {
				modal += v.modes[i].Process()
				modalLive = true
			}
		}
		if modalLive {
			modal *= v.toneAmp

			v.roamPhase += v.roamInc
			if v.roamPhase >= twoPi {
				v.roamPhase -= twoPi
			}
			jit := (rng.Float32()*2 - 1) * v.roamJitter
			fc := v.roamCenter * (1.0 + v.roamDepth*float32(math.Sin(float64(v.roamPhase))) + jit)
			v.roamHP.SetHighpass(fc, float32(v.sampleRate), 2.2)
			modal = v.roamHP.Process(modal)
		}
		v.toneAmp *= v.toneDecay
	}

	var tail float32
	if v.tailAmp > silenceThreshold {
		noise := rng.Float32()*2 - 1
		tail = v.tailLP.Process(noise) * v.tailAmp
		v.tailAmp *= v.tailDecay
	}

	out := impact*0.9 + modal*0.08 + tail*0.24
	if !isFinite(out) {
		v.active = false
		return 0, 0
	}
	v.age++

	if v.impactAmp <= silenceThreshold && v.tailAmp <= silenceThreshold && !modalLive {
		v.active = false
	}
	return out * v.panL, out * v.panR
}

// Active reports whether the voice is still sounding.
func (v *DropletVoice) Active() bool {
	return v.active
}

// Energy sums the squared resonator amplitudes plus envelope energy.
// Used by the pool to pick the quietest voice when stealing.
func (v *DropletVoice) Energy() float32 {
	if !v.active {
		return 0
	}
	e := v.impactAmp*v.impactAmp + v.tailAmp*v.tailAmp
	for i := 0; i < v.modeCount; i++ {
		e += v.modes[i].Energy() * v.toneAmp * v.toneAmp
	}
	return e
}
