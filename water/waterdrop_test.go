package water

import "testing"

func TestWaterDropLifetimeCap(t *testing.T) {
	const sr = 48000
	var v WaterDropVoice
	v.Init(sr)
	rng := newTestRand(9)
	v.Trigger(WaterDropTrigger{BaseFreq: 440, DropSize: 0.8, DecayTime: 1.0}, rng)

	// Pin the envelopes so only the hard cap can end the voice.
	v.oscDecay = 1.0
	v.burstDecay = 1.0

	limit := int(waterDropMaxLifeSeconds*sr) + 2
	steps := 0
	for v.Active() && steps < limit+sr {
		v.Process(rng)
		steps++
	}
	if v.Active() {
		t.Fatal("voice survived past the hard lifetime cap")
	}
	if steps > limit {
		t.Fatalf("voice lived %d samples, cap is %d", steps, limit)
	}
}

func TestWaterDropEnvelopeDecays(t *testing.T) {
	const sr = 48000
	var v WaterDropVoice
	v.Init(sr)
	rng := newTestRand(13)
	v.Trigger(WaterDropTrigger{BaseFreq: 440, DropSize: 0.5, DecayTime: 0.25}, rng)

	early := make([]float32, sr/10)
	for i := range early {
		l, r := v.Process(rng)
		early[i] = l + r
	}
	// Skip ahead toward the end of the envelope.
	for i := 0; i < sr/2; i++ {
		v.Process(rng)
	}
	late := make([]float32, sr/10)
	for i := range late {
		l, r := v.Process(rng)
		late[i] = l + r
	}

	if windowRMS(late) > windowRMS(early)*0.5 {
		t.Fatalf("late rms %v not clearly below early rms %v", windowRMS(late), windowRMS(early))
	}
}

func TestWaterDropOutputFinite(t *testing.T) {
	const sr = 44100
	var v WaterDropVoice
	v.Init(sr)
	rng := newTestRand(21)

	for trial := 0; trial < 20; trial++ {
		v.Trigger(WaterDropTrigger{
			BaseFreq:  100 + rng.Float32()*2000,
			DropSize:  rng.Float32(),
			DecayTime: 0.02 + rng.Float32()*0.9,
		}, rng)
		for i := 0; i < sr/5; i++ {
			l, r := v.Process(rng)
			if !isFinite(l) || !isFinite(r) {
				t.Fatalf("non-finite output in trial %d at sample %d", trial, i)
			}
		}
	}
}

func TestWaterDropInactiveEmitsSilence(t *testing.T) {
	var v WaterDropVoice
	v.Init(48000)
	rng := newTestRand(1)
	if l, r := v.Process(rng); l != 0 || r != 0 {
		t.Fatalf("untriggered voice emitted (%v, %v)", l, r)
	}
}
