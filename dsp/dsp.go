package dsp

import "math"

// Biquad implements a second-order IIR filter (no heap allocations in Process)
type Biquad struct {
	// Coefficients
	b0, b1, b2 float32
	a1, a2     float32

	// State (previous samples)
	x1, x2 float32 // input history
	y1, y2 float32 // output history
}

// NewBiquad creates a new biquad filter with the given coefficients
func NewBiquad(b0, b1, b2, a1, a2 float32) *Biquad {
	return &Biquad{
		b0: b0,
		b1: b1,
		b2: b2,
		a1: a1,
		a2: a2,
	}
}

// Process processes one sample through the biquad filter
func (b *Biquad) Process(input float32) float32 {
	// Direct Form I implementation
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	output = FlushDenormals(output)

	// Update state
	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// clampFreq keeps the normalized frequency below Nyquist so the RBJ
// derivations stay stable even for extreme parameter settings.
func clampFreq(cutoff, sampleRate float32) float64 {
	f := float64(cutoff)
	sr := float64(sampleRate)
	if sr <= 0 {
		sr = 48000
	}
	if f < 5 {
		f = 5
	}
	if f > sr*0.49 {
		f = sr * 0.49
	}
	return 2.0 * math.Pi * f / sr
}

func clampQ(q float32) float64 {
	if q < 0.05 {
		return 0.05
	}
	if q > 40 {
		return 40
	}
	return float64(q)
}

// SetLowpass recomputes lowpass coefficients in place (RBJ cookbook).
// State is retained so the filter can be swept at audio rate.
func (b *Biquad) SetLowpass(cutoff, sampleRate, q float32) {
	w0 := clampFreq(cutoff, sampleRate)
	alpha := math.Sin(w0) / (2.0 * clampQ(q))
	cosw0 := math.Cos(w0)

	a0 := 1.0 + alpha
	b.b0 = float32((1.0 - cosw0) / 2.0 / a0)
	b.b1 = float32((1.0 - cosw0) / a0)
	b.b2 = b.b0
	b.a1 = float32(-2.0 * cosw0 / a0)
	b.a2 = float32((1.0 - alpha) / a0)
}

// SetHighpass recomputes highpass coefficients in place.
func (b *Biquad) SetHighpass(cutoff, sampleRate, q float32) {
	w0 := clampFreq(cutoff, sampleRate)
	alpha := math.Sin(w0) / (2.0 * clampQ(q))
	cosw0 := math.Cos(w0)

	a0 := 1.0 + alpha
	b.b0 = float32((1.0 + cosw0) / 2.0 / a0)
	b.b1 = float32(-(1.0 + cosw0) / a0)
	b.b2 = b.b0
	b.a1 = float32(-2.0 * cosw0 / a0)
	b.a2 = float32((1.0 - alpha) / a0)
}

// SetBandpass recomputes constant-peak-gain bandpass coefficients in place.
// Peak gain at center frequency is 1.0 regardless of Q, so summed bands
// do not amplify.
func (b *Biquad) SetBandpass(center, sampleRate, q float32) {
	w0 := clampFreq(center, sampleRate)
	alpha := math.Sin(w0) / (2.0 * clampQ(q))
	cosw0 := math.Cos(w0)

	a0 := 1.0 + alpha
	b.b0 = float32(alpha / a0)
	b.b1 = 0
	b.b2 = float32(-alpha / a0)
	b.a1 = float32(-2.0 * cosw0 / a0)
	b.a2 = float32((1.0 - alpha) / a0)
}

// NewLowpass creates a lowpass biquad filter
func NewLowpass(cutoff, sampleRate, q float32) *Biquad {
	b := &Biquad{}
	b.SetLowpass(cutoff, sampleRate, q)
	return b
}

// NewHighpass creates a highpass biquad filter
func NewHighpass(cutoff, sampleRate, q float32) *Biquad {
	b := &Biquad{}
	b.SetHighpass(cutoff, sampleRate, q)
	return b
}

// NewBandpass creates a constant-peak-gain bandpass biquad filter
func NewBandpass(center, sampleRate, q float32) *Biquad {
	b := &Biquad{}
	b.SetBandpass(center, sampleRate, q)
	return b
}

// OnePole is a one-pole lowpass: y[n] = x[n]*(1-k) + y[n-1]*k.
type OnePole struct {
	k     float32
	state float32
}

// NewOnePole creates a one-pole lowpass with the given smoothing
// coefficient k in [0,1). Higher k means stronger smoothing.
func NewOnePole(k float32) *OnePole {
	if k < 0 {
		k = 0
	}
	if k > 0.99999 {
		k = 0.99999
	}
	return &OnePole{k: k}
}

// SetCutoff derives k from a cutoff frequency in Hz.
func (o *OnePole) SetCutoff(cutoff, sampleRate float32) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if cutoff < 0.01 {
		cutoff = 0.01
	}
	o.k = float32(math.Exp(-2.0 * math.Pi * float64(cutoff) / float64(sampleRate)))
}

// SetCoeff sets k directly.
func (o *OnePole) SetCoeff(k float32) {
	if k < 0 {
		k = 0
	}
	if k > 0.99999 {
		k = 0.99999
	}
	o.k = k
}

// Process filters one sample.
func (o *OnePole) Process(input float32) float32 {
	o.state = FlushDenormals(input*(1.0-o.k) + o.state*o.k)
	return o.state
}

// State returns the current filter state without advancing it.
func (o *OnePole) State() float32 {
	return o.state
}

// Reset clears the filter state.
func (o *OnePole) Reset() {
	o.state = 0
}

// DCBlocker removes DC offset: y[n] = x[n] - x[n-1] + R*y[n-1].
type DCBlocker struct {
	r      float32
	prevIn float32
	prevOu float32
}

// NewDCBlocker creates a DC blocker with the standard pole radius 0.9975.
func NewDCBlocker() *DCBlocker {
	return &DCBlocker{r: 0.9975}
}

// Process filters one sample.
func (d *DCBlocker) Process(input float32) float32 {
	out := input - d.prevIn + d.r*d.prevOu
	out = FlushDenormals(out)
	d.prevIn = input
	d.prevOu = out
	return out
}

// Reset clears the filter state.
func (d *DCBlocker) Reset() {
	d.prevIn = 0
	d.prevOu = 0
}

// DelayLine implements a circular buffer for delay
type DelayLine struct {
	buffer   []float32
	writePos int
	size     int
}

// NewDelayLine creates a new delay line with the given size
func NewDelayLine(size int) *DelayLine {
	if size < 1 {
		size = 1
	}
	return &DelayLine{
		buffer: make([]float32, size),
		size:   size,
	}
}

// Write writes a sample to the delay line
func (d *DelayLine) Write(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos = (d.writePos + 1) % d.size
}

// Read reads a sample from the delay line at the given delay (in samples)
func (d *DelayLine) Read(delay int) float32 {
	if delay < 0 {
		delay = 0
	}
	if delay >= d.size {
		delay = d.size - 1
	}
	readPos := (d.writePos - delay + d.size) % d.size
	return d.buffer[readPos]
}

// ReadFractional reads with fractional delay using linear interpolation
func (d *DelayLine) ReadFractional(delay float32) float32 {
	intDelay := int(delay)
	frac := delay - float32(intDelay)

	sample1 := d.Read(intDelay)
	sample2 := d.Read(intDelay + 1)

	// Linear interpolation
	return sample1 + frac*(sample2-sample1)
}

// Reset clears the delay line
func (d *DelayLine) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// FlushDenormals converts denormal numbers to zero to avoid performance issues
func FlushDenormals(x float32) float32 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0.0
	}
	return x
}
