package water

import "testing"

func TestTurbulenceTiltShiftsBandGains(t *testing.T) {
	var l TurbulenceLayer
	l.Init(48000, newTestRand(3))

	l.SetParams(0.8, 0.5, 0.4, 0.3, 1)
	if l.lowGain >= 0.8*0.6 {
		t.Fatalf("positive tilt should cut the low band, got %v", l.lowGain)
	}
	if l.highGain <= 0.4 {
		t.Fatalf("positive tilt should boost the high band, got %v", l.highGain)
	}

	l.SetParams(0.8, 0.5, 0.4, 0.3, -1)
	if l.lowGain != 0.8 {
		t.Fatalf("negative tilt should leave the low band at %v, got %v", 0.8, l.lowGain)
	}
	if l.highGain >= 0.4 {
		t.Fatalf("negative tilt should cut the high band, got %v", l.highGain)
	}
}

func TestTurbulenceProducesBroadbandNoise(t *testing.T) {
	const sr = 48000
	var l TurbulenceLayer
	l.Init(sr, newTestRand(5))
	l.SetParams(0.8, 0.8, 0.8, 0.4, 0)

	buf := make([]float32, 2*sr)
	rng := newTestRand(6)
	for i := 0; i < sr; i++ {
		left, right := l.Process(rng)
		buf[2*i] = left
		buf[2*i+1] = right
	}
	if hasNonFinite(buf) {
		t.Fatal("turbulence produced non-finite samples")
	}
	if windowRMS(buf) < 0.01 {
		t.Fatalf("turbulence nearly silent, rms=%v", windowRMS(buf))
	}
}

func TestRoarDistanceShiftsBalance(t *testing.T) {
	var near, far RoarLayer
	near.Init(48000, newTestRand(7))
	far.Init(48000, newTestRand(7))

	near.SetParams(1, 0, 1)
	far.SetParams(1, 1, 1)

	if far.sprayGain >= near.sprayGain {
		t.Fatalf("distance should attenuate spray: far %v, near %v", far.sprayGain, near.sprayGain)
	}
	if far.rumbleGain <= near.rumbleGain {
		t.Fatalf("distance should favor rumble: far %v, near %v", far.rumbleGain, near.rumbleGain)
	}
}

func TestRivuletDensityControlsStreamCount(t *testing.T) {
	var l RivuletLayer
	l.Init(48000, newTestRand(9))

	l.SetParams(0.5, 0)
	if l.active != 1 {
		t.Fatalf("density 0 should leave one stream, got %d", l.active)
	}
	l.SetParams(0.5, 1)
	if l.active != rivuletStreams {
		t.Fatalf("density 1 should run all %d streams, got %d", rivuletStreams, l.active)
	}
}

func TestBubblingSilentAtZeroDensity(t *testing.T) {
	const sr = 48000
	var b BubblingLayer
	b.Init(sr, newTestRand(11))
	b.SetParams(1, 0)

	rng := newTestRand(12)
	for i := 0; i < 2*sr; i++ {
		l, r := b.Process(rng)
		if l != 0 || r != 0 {
			t.Fatalf("bubbling emitted (%v, %v) at zero density, sample %d", l, r, i)
		}
	}
}

func TestBubblingFiresAtFullDensity(t *testing.T) {
	const sr = 48000
	var b BubblingLayer
	b.Init(sr, newTestRand(13))
	b.SetParams(1, 1)

	rng := newTestRand(14)
	buf := make([]float32, 2*sr)
	for i := 0; i < sr; i++ {
		l, r := b.Process(rng)
		buf[2*i] = l
		buf[2*i+1] = r
	}
	if windowRMS(buf) == 0 {
		t.Fatal("bubbling layer produced no output in 1 s at full density")
	}
	if hasNonFinite(buf) {
		t.Fatal("bubbling produced non-finite samples")
	}
}

func TestModalBankExcitationThreshold(t *testing.T) {
	var m ModalBank
	m.Init(48000)
	m.Configure(true, glassTuning, 0.5, 0.3)

	m.Excite(m.threshold * 0.5)
	if m.Active() {
		t.Fatal("bank rang below the excitation threshold")
	}
	m.Excite(m.threshold * 2)
	if !m.Active() {
		t.Fatal("bank did not ring above the excitation threshold")
	}
}

func TestModalBankDisabledNeverRings(t *testing.T) {
	var m ModalBank
	m.Init(48000)
	m.Configure(false, steelTuning, 0.5, 0.3)

	m.Excite(10)
	if m.Active() {
		t.Fatal("disabled bank rang")
	}
	if l, r := m.Process(); l != 0 || r != 0 {
		t.Fatalf("disabled bank emitted (%v, %v)", l, r)
	}
}

func TestModalBankRingsDownToSilence(t *testing.T) {
	const sr = 48000
	var m ModalBank
	m.Init(sr)
	m.Configure(true, ceramicTuning, 0.5, 0.3)
	m.Excite(1)

	for i := 0; i < 3*sr && m.Active(); i++ {
		m.Process()
	}
	if m.Active() {
		t.Fatal("ceramic bank still ringing after 3 s")
	}
}
