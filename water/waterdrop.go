package water

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-water/dsp"
)

// waterDropMaxLifeSeconds caps a water-into-water voice regardless of its
// envelope state, since the time-warped decays can stretch indefinitely.
const waterDropMaxLifeSeconds = 1.2

// WaterDropTrigger carries the per-splash parameters drawn by the engine.
type WaterDropTrigger struct {
	BaseFreq  float32
	DropSize  float32
	DecayTime float32
}

// WaterDropVoice synthesizes a drop falling into water: a low settling
// oscillation plus a short noise burst, pushed through two cascaded
// resonant highpass filters whose cutoff sweeps upward with rising Q.
// An audio-rate sample-and-hold LFO warps the filter sweep and all
// envelope decays by a common factor, giving the characteristic "bloip".
type WaterDropVoice struct {
	sampleRate int
	active     bool
	age        int
	maxLife    int

	oscPhase float32
	oscInc   float32
	oscAmp   float32
	oscDecay float32

	burstAmp   float32
	burstDecay float32
	burstLP    dsp.OnePole

	hp1          dsp.Biquad
	hp2          dsp.Biquad
	cutStart     float32
	cutEnd       float32
	qStart       float32
	qEnd         float32
	sweepSamples int

	shValue   float32
	shHold    int
	shCounter int

	panL float32
	panR float32
}

// Init binds the voice to a sample rate. The voice starts inactive.
func (v *WaterDropVoice) Init(sampleRate int) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	v.sampleRate = sampleRate
	v.active = false
}

// Trigger restarts the voice with freshly drawn character.
func (v *WaterDropVoice) Trigger(p WaterDropTrigger, rng *rand.Rand) {
	sr := v.sampleRate
	dropSize := clampFloat32(p.DropSize, 0, 1)
	decayTime := clampFloat32(p.DecayTime, 0.02, 1)

	// Settling oscillator, lower for bigger drops.
	oscFreq := lerp(260, 120, dropSize) * (0.9 + 0.2*rng.Float32())
	if p.BaseFreq > 0 {
		oscFreq *= clampFloat32(p.BaseFreq/440.0, 0.5, 2.0)
	}
	v.oscPhase = 0
	v.oscInc = twoPi * oscFreq / float32(sr)
	v.oscAmp = 0.5 + 0.3*rng.Float32()
	v.oscDecay = decayCoeff(decayTime*(0.4+0.4*rng.Float32()), sr)

	// Surface noise burst.
	v.burstAmp = 0.5 + 0.4*rng.Float32()
	v.burstDecay = decayCoeff(0.010+0.020*rng.Float32(), sr)
	v.burstLP.Reset()
	v.burstLP.SetCutoff(lerp(2200, 1100, dropSize), float32(sr))

	// Upward cutoff sweep with rising resonance.
	v.cutStart = lerp(260, 480, rng.Float32())
	v.cutEnd = lerp(900, 2100, rng.Float32()) * lerp(1.2, 0.8, dropSize)
	v.qStart = 0.7
	v.qEnd = 1.8 + 1.2*rng.Float32()
	v.sweepSamples = maxInt(1, int((0.35+0.45*rng.Float32())*float32(sr)))
	v.hp1.Reset()
	v.hp2.Reset()
	v.hp1.SetHighpass(v.cutStart, float32(sr), v.qStart)
	v.hp2.SetHighpass(v.cutStart*1.31, float32(sr), v.qStart*0.8)

	// Audio-rate sample-and-hold LFO, 40-90 Hz hold rate.
	v.shHold = maxInt(1, sr/int(40+rng.Int31n(51)))
	v.shCounter = 0
	v.shValue = 0

	ang := float32(math.Pi/4) + (rng.Float32()*2-1)*0.5
	v.panL = float32(math.Cos(float64(ang)))
	v.panR = float32(math.Sin(float64(ang)))

	v.age = 0
	v.maxLife = int(waterDropMaxLifeSeconds * float32(sr))
	v.active = true
}

// Process emits one stereo sample, advancing sweep, warp and envelopes.
func (v *WaterDropVoice) Process(rng *rand.Rand) (float32, float32) {
	if !v.active {
		return 0, 0
	}
	if v.age >= v.maxLife {
		v.active = false
		return 0, 0
	}

	if v.shCounter <= 0 {
		v.shValue = rng.Float32()*2 - 1
		v.shCounter = v.shHold
	}
	v.shCounter--
	warp := 1.0 + 0.3*v.shValue

	exc := float32(math.Sin(float64(v.oscPhase))) * v.oscAmp
	v.oscPhase += v.oscInc
	if v.oscPhase >= twoPi {
		v.oscPhase -= twoPi
	}
	if v.burstAmp > silenceThreshold {
		noise := rng.Float32()*2 - 1
		exc += v.burstLP.Process(noise) * v.burstAmp
	}

	// Warp all decays by the common S&H factor. Scaling the distance to
	// 1.0 keeps the coefficient in (0,1] without a per-sample pow.
	v.oscAmp *= 1.0 - warp*(1.0-v.oscDecay)
	v.burstAmp *= 1.0 - warp*(1.0-v.burstDecay)

	t := minf(1, float32(v.age)/float32(v.sweepSamples))
	if v.age&7 == 0 {
		fc := lerp(v.cutStart, v.cutEnd, t) * (1.0 + 0.1*v.shValue)
		q := lerp(v.qStart, v.qEnd, t)
		v.hp1.SetHighpass(fc, float32(v.sampleRate), q)
		v.hp2.SetHighpass(fc*1.31, float32(v.sampleRate), q*0.8)
	}

	out := v.hp2.Process(v.hp1.Process(exc)) * 0.7
	if !isFinite(out) {
		v.active = false
		return 0, 0
	}
	v.age++

	if v.oscAmp <= silenceThreshold && v.burstAmp <= silenceThreshold {
		v.active = false
	}
	return out * v.panL, out * v.panR
}

// Active reports whether the voice is still sounding.
func (v *WaterDropVoice) Active() bool {
	return v.active
}

// Energy estimates remaining voice energy for pool stealing.
func (v *WaterDropVoice) Energy() float32 {
	if !v.active {
		return 0
	}
	return v.oscAmp*v.oscAmp + v.burstAmp*v.burstAmp
}
