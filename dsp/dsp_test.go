package dsp

import (
	"math"
	"testing"
)

// sineRMSRatio feeds a sine through the filter and returns output RMS over
// input RMS, measured after the filter has settled.
func sineRMSRatio(process func(float32) float32, freq, sampleRate float64) float64 {
	const settle = 4000
	const measure = 48000
	w := 2 * math.Pi * freq / sampleRate
	var sumIn, sumOut float64
	for i := 0; i < settle+measure; i++ {
		in := float32(math.Sin(w * float64(i)))
		out := process(in)
		if i >= settle {
			sumIn += float64(in) * float64(in)
			sumOut += float64(out) * float64(out)
		}
	}
	return math.Sqrt(sumOut / sumIn)
}

func TestLowpassAttenuatesAboveCutoff(t *testing.T) {
	const sr = 48000
	f := NewLowpass(500, sr, 0.707)
	if r := sineRMSRatio(f.Process, 4000, sr); r > 0.1 {
		t.Fatalf("stopband ratio = %.3f, want < 0.1", r)
	}
	f.Reset()
	if r := sineRMSRatio(f.Process, 100, sr); r < 0.8 {
		t.Fatalf("passband ratio = %.3f, want > 0.8", r)
	}
}

func TestHighpassAttenuatesBelowCutoff(t *testing.T) {
	const sr = 48000
	f := NewHighpass(2000, sr, 0.707)
	if r := sineRMSRatio(f.Process, 200, sr); r > 0.1 {
		t.Fatalf("stopband ratio = %.3f, want < 0.1", r)
	}
	f.Reset()
	if r := sineRMSRatio(f.Process, 8000, sr); r < 0.8 {
		t.Fatalf("passband ratio = %.3f, want > 0.8", r)
	}
}

func TestBandpassConstantPeakGain(t *testing.T) {
	const sr = 48000
	// Peak gain at center stays 1.0 even for high Q.
	for _, q := range []float32{1, 4, 12} {
		f := NewBandpass(1000, sr, q)
		if r := sineRMSRatio(f.Process, 1000, sr); r < 0.85 || r > 1.15 {
			t.Fatalf("q=%v center ratio = %.3f, want near 1", q, r)
		}
	}
	f := NewBandpass(1000, sr, 8)
	if r := sineRMSRatio(f.Process, 6000, sr); r > 0.2 {
		t.Fatalf("off-center ratio = %.3f, want < 0.2", r)
	}
}

func TestBiquadSetRetainsState(t *testing.T) {
	f := NewLowpass(1000, 48000, 0.707)
	for i := 0; i < 100; i++ {
		f.Process(1)
	}
	before := f.y1
	f.SetLowpass(2000, 48000, 0.707)
	if f.y1 != before {
		t.Fatal("coefficient update cleared filter state")
	}
}

func TestOnePoleStepResponse(t *testing.T) {
	o := NewOnePole(0.99)
	var out float32
	for i := 0; i < 2000; i++ {
		out = o.Process(1)
	}
	if out < 0.999 {
		t.Fatalf("step response = %v, want near 1", out)
	}
	if o.State() != out {
		t.Fatalf("State() = %v, want %v", o.State(), out)
	}
	o.Reset()
	if o.State() != 0 {
		t.Fatal("Reset did not clear state")
	}
}

func TestOnePoleSetCutoffCoeffRange(t *testing.T) {
	o := NewOnePole(0)
	o.SetCutoff(10, 48000)
	slow := o.k
	o.SetCutoff(5000, 48000)
	fast := o.k
	if slow <= fast {
		t.Fatalf("lower cutoff should smooth harder: k(10Hz)=%v k(5kHz)=%v", slow, fast)
	}
	if slow <= 0 || slow >= 1 || fast <= 0 || fast >= 1 {
		t.Fatalf("coefficients out of (0,1): %v %v", slow, fast)
	}
}

func TestDCBlockerRemovesOffset(t *testing.T) {
	d := NewDCBlocker()
	var out float32
	for i := 0; i < 48000; i++ {
		out = d.Process(1)
	}
	if out > 0.01 || out < -0.01 {
		t.Fatalf("DC residue = %v after 1s, want near 0", out)
	}
}

func TestDelayLineReadWrite(t *testing.T) {
	d := NewDelayLine(16)
	d.Write(1)
	for i := 0; i < 5; i++ {
		d.Write(0)
	}
	if got := d.Read(6); got != 1 {
		t.Fatalf("Read(6) = %v, want 1", got)
	}
	if got := d.Read(0); got != 0 {
		t.Fatalf("Read(0) = %v, want 0", got)
	}
	// Out-of-range delays clamp instead of panicking.
	_ = d.Read(-3)
	_ = d.Read(100)
}

func TestDelayLineReadFractional(t *testing.T) {
	d := NewDelayLine(8)
	d.Write(1)
	d.Write(0)
	got := d.ReadFractional(1.5)
	if got < 0.49 || got > 0.51 {
		t.Fatalf("ReadFractional(1.5) = %v, want 0.5", got)
	}
}

func TestDelayLineReset(t *testing.T) {
	d := NewDelayLine(4)
	d.Write(1)
	d.Write(2)
	d.Reset()
	for i := 0; i < 4; i++ {
		if d.Read(i) != 0 {
			t.Fatalf("Read(%d) nonzero after Reset", i)
		}
	}
}

func TestFlushDenormals(t *testing.T) {
	if FlushDenormals(1e-35) != 0 {
		t.Fatal("positive denormal not flushed")
	}
	if FlushDenormals(-1e-35) != 0 {
		t.Fatal("negative denormal not flushed")
	}
	if FlushDenormals(0.5) != 0.5 {
		t.Fatal("normal value changed")
	}
}
