package water

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-water/dsp"
)

// TurbulenceLayer is the broadband bed of moving water: three decorrelated
// noise bands (low rumble, mid churn, high hiss) with independent slow
// amplitude modulation.
type TurbulenceLayer struct {
	sampleRate int

	lowLP  dsp.Biquad
	midBP  dsp.Biquad
	highHP dsp.Biquad

	lfoPhase [3]float32
	lfoInc   [3]float32

	lowGain  float32
	midGain  float32
	highGain float32
}

func (t *TurbulenceLayer) Init(sampleRate int, rng *rand.Rand) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	t.sampleRate = sampleRate
	t.lowLP.SetLowpass(180, float32(sampleRate), 0.707)
	t.midBP.SetBandpass(900, float32(sampleRate), 0.9)
	t.highHP.SetHighpass(2800, float32(sampleRate), 0.707)
	for i := range t.lfoPhase {
		t.lfoPhase[i] = rng.Float32() * twoPi
		t.lfoInc[i] = twoPi * (0.05 + 0.25*rng.Float32()) / float32(sampleRate)
	}
	t.SetParams(0.5, 0.5, 0.3, 0.3, 0)
}

// SetParams reshapes the bed. roughness narrows the mid band; tilt < 0
// favors the low band, tilt > 0 the high band.
func (t *TurbulenceLayer) SetParams(lowGain, midGain, highGain, roughness, tilt float32) {
	roughness = clampFloat32(roughness, 0, 1)
	tilt = clampFloat32(tilt, -1, 1)
	t.midBP.SetBandpass(900, float32(t.sampleRate), 0.7+4.0*roughness)
	t.lowGain = clampFloat32(lowGain, 0, 1) * (1.0 - 0.5*maxf(tilt, 0))
	t.midGain = clampFloat32(midGain, 0, 1)
	t.highGain = clampFloat32(highGain, 0, 1) * (1.0 + 0.5*tilt)
	if t.highGain < 0 {
		t.highGain = 0
	}
}

// Process emits one stereo sample of the bed.
func (t *TurbulenceLayer) Process(rng *rand.Rand) (float32, float32) {
	low := t.lowLP.Process(rng.Float32()*2-1) * t.lowGain
	mid := t.midBP.Process(rng.Float32()*2-1) * t.midGain
	high := t.highHP.Process(rng.Float32()*2-1) * t.highGain

	for i := range t.lfoPhase {
		t.lfoPhase[i] += t.lfoInc[i]
		if t.lfoPhase[i] >= twoPi {
			t.lfoPhase[i] -= twoPi
		}
	}
	low *= 1.0 + 0.25*float32(math.Sin(float64(t.lfoPhase[0])))
	mid *= 1.0 + 0.30*float32(math.Sin(float64(t.lfoPhase[1])))
	high *= 1.0 + 0.20*float32(math.Sin(float64(t.lfoPhase[2])))

	// Low stays centered; mid and high lean opposite ways for width.
	l := low + mid*0.45 + high*0.58
	r := low + mid*0.58 + high*0.45
	return l, r
}

// RoarLayer is the waterfall body: deep rumble, mid-band mass, and
// high spray. Distance pushes spray down and rumble up, the way a fall
// sounds from across a valley.
type RoarLayer struct {
	sampleRate int

	rumbleLP dsp.Biquad
	bodyBP   dsp.Biquad
	sprayHP  dsp.Biquad

	lfoPhase float32
	lfoInc   float32

	rumbleGain float32
	bodyGain   float32
	sprayGain  float32
}

func (l *RoarLayer) Init(sampleRate int, rng *rand.Rand) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	l.sampleRate = sampleRate
	l.rumbleLP.SetLowpass(140, float32(sampleRate), 0.707)
	l.bodyBP.SetBandpass(520, float32(sampleRate), 0.8)
	l.sprayHP.SetHighpass(2600, float32(sampleRate), 0.707)
	l.lfoPhase = rng.Float32() * twoPi
	l.lfoInc = twoPi * (0.08 + 0.12*rng.Float32()) / float32(sampleRate)
	l.SetParams(0.8, 0.3, 1.0)
}

// SetParams maps (gain, distance, density) to the three band gains.
func (l *RoarLayer) SetParams(gain, distance, density float32) {
	gain = clampFloat32(gain, 0, 2)
	distance = clampFloat32(distance, 0, 1)
	density = clampFloat32(density, 0, 1)
	l.rumbleGain = gain * (0.7 + 0.5*distance)
	l.bodyGain = gain * 0.65 * (0.4 + 0.6*density)
	l.sprayGain = gain * (1.0 - 0.85*distance) * density
}

func (l *RoarLayer) Process(rng *rand.Rand) (float32, float32) {
	rumble := l.rumbleLP.Process(rng.Float32()*2-1) * l.rumbleGain
	body := l.bodyBP.Process(rng.Float32()*2-1) * l.bodyGain
	spray := l.sprayHP.Process(rng.Float32()*2-1) * l.sprayGain

	l.lfoPhase += l.lfoInc
	if l.lfoPhase >= twoPi {
		l.lfoPhase -= twoPi
	}
	body *= 1.0 + 0.2*float32(math.Sin(float64(l.lfoPhase)))

	left := rumble + body*0.5 + spray*0.55
	right := rumble + body*0.5 + spray*0.45
	return left, right
}

const rivuletStreams = 4

// rivuletCenters are the fixed bandpass centers of the narrow trickle
// streams, spread over the "running water in a channel" range.
var rivuletCenters = [rivuletStreams]float32{850, 1400, 2300, 3400}

// RivuletLayer is a set of narrow bandpass noise streams with slow
// independent AM, the small-scale trickle around larger water masses.
type RivuletLayer struct {
	sampleRate int

	streams  [rivuletStreams]dsp.Biquad
	lfoPhase [rivuletStreams]float32
	lfoInc   [rivuletStreams]float32
	pans     [rivuletStreams]float32

	gain   float32
	active int
}

func (l *RivuletLayer) Init(sampleRate int, rng *rand.Rand) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	l.sampleRate = sampleRate
	for i := range l.streams {
		l.streams[i].SetBandpass(rivuletCenters[i]*(0.95+0.1*rng.Float32()), float32(sampleRate), 6)
		l.lfoPhase[i] = rng.Float32() * twoPi
		l.lfoInc[i] = twoPi * (0.2 + 0.6*rng.Float32()) / float32(sampleRate)
		l.pans[i] = 0.25 + 0.5*rng.Float32()
	}
	l.SetParams(0.5, 1)
}

// SetParams sets the layer gain and, from density, how many of the fixed
// streams run.
func (l *RivuletLayer) SetParams(gain, density float32) {
	l.gain = clampFloat32(gain, 0, 1)
	density = clampFloat32(density, 0, 1)
	l.active = 1 + int(density*float32(rivuletStreams-1)+0.5)
	if l.active > rivuletStreams {
		l.active = rivuletStreams
	}
}

func (l *RivuletLayer) Process(rng *rand.Rand) (float32, float32) {
	var left, right float32
	for i := 0; i < l.active; i++ {
		s := l.streams[i].Process(rng.Float32()*2 - 1)
		l.lfoPhase[i] += l.lfoInc[i]
		if l.lfoPhase[i] >= twoPi {
			l.lfoPhase[i] -= twoPi
		}
		s *= 0.6 + 0.4*float32(math.Sin(float64(l.lfoPhase[i])))
		left += s * (1.0 - l.pans[i])
		right += s * l.pans[i]
	}
	return left * l.gain, right * l.gain
}
