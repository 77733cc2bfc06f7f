package water

import "testing"

func floatPtr(v float32) *float32 { return &v }

// renderSeconds drives the engine the way an audio callback would,
// in fixed-size blocks, and returns the concatenated output.
func renderSeconds(e *Engine, seconds float64) []float32 {
	const block = 512
	frames := int(seconds * float64(e.SampleRate()))
	out := make([]float32, 0, 2*frames)
	buf := make([]float32, 2*block)
	for rendered := 0; rendered < frames; rendered += block {
		e.Render(buf)
		out = append(out, buf...)
	}
	return out
}

func TestEngineLongRenderStaysFinite(t *testing.T) {
	e := NewEngine(44100)
	e.Send(Command{Kind: CmdStart})
	e.Send(Command{Kind: CmdSetPreset, Preset: "stream"})

	out := renderSeconds(e, 5)
	if hasNonFinite(out) {
		t.Fatal("engine produced NaN or Inf")
	}
	if windowRMS(out) == 0 {
		t.Fatal("engine produced pure silence on the stream preset")
	}
}

func TestEngineSeedReproducibility(t *testing.T) {
	render := func() []float32 {
		e := NewEngine(48000)
		e.Send(Command{Kind: CmdSetSeed, Seed: 1234})
		e.Send(Command{Kind: CmdSetPreset, Preset: "rain"})
		e.Send(Command{Kind: CmdStart})
		return renderSeconds(e, 2)
	}

	a := render()
	b := render()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed and command sequence diverged at sample %d", i)
		}
	}
}

func TestEngineSetPresetIdempotent(t *testing.T) {
	render := func(resend bool) []float32 {
		e := NewEngine(48000)
		e.Send(Command{Kind: CmdSetSeed, Seed: 77})
		e.Send(Command{Kind: CmdSetPreset, Preset: "waterfall"})
		e.Send(Command{Kind: CmdStart})
		out := renderSeconds(e, 1)
		if resend {
			e.Send(Command{Kind: CmdSetPreset, Preset: "waterfall"})
		}
		return append(out, renderSeconds(e, 1)...)
	}

	plain := render(false)
	resent := render(true)
	for i := range plain {
		if plain[i] != resent[i] {
			t.Fatalf("re-sending the active preset changed output at sample %d", i)
		}
	}
}

func TestEngineUnknownPresetIgnored(t *testing.T) {
	e := NewEngine(48000)
	e.Send(Command{Kind: CmdSetPreset, Preset: "lava"})
	e.Render(make([]float32, 256))
	if e.preset.Name != "rain" {
		t.Fatalf("unknown preset replaced the active one: %q", e.preset.Name)
	}
}

func TestEngineWaterfallBypassFlags(t *testing.T) {
	e := NewEngine(48000)
	e.Send(Command{Kind: CmdSetPreset, Preset: "waterfall"})
	e.Render(make([]float32, 64))

	if e.bypass.roar {
		t.Fatal("waterfall preset must not bypass the roar layer")
	}
	if !e.bypass.rivulets {
		t.Fatal("waterfall preset should bypass the rivulet layer (zero weight)")
	}
}

func TestEngineDensityZeroBypassesLayer(t *testing.T) {
	e := NewEngine(48000)
	e.Send(Command{Kind: CmdSetPreset, Preset: "waterfall"})
	e.Send(Command{Kind: CmdSetLayerDensity, Levels: LayerUpdate{Roar: floatPtr(0)}})
	e.Render(make([]float32, 64))

	if !e.bypass.roar {
		t.Fatal("zero density should bypass the roar layer")
	}
}

func TestEngineBypassedLayerStateFrozen(t *testing.T) {
	e := NewEngine(48000)
	e.Send(Command{Kind: CmdSetPreset, Preset: "stream"})
	e.Send(Command{Kind: CmdStart})
	e.Send(Command{Kind: CmdSetLayerMix, Levels: LayerUpdate{Bubbling: floatPtr(0)}})

	e.Render(make([]float32, 1024))
	snapshot := e.bubbling
	e.Render(make([]float32, 4096))
	if e.bubbling != snapshot {
		t.Fatal("bypassed bubbling layer advanced its state")
	}
}

func TestEngineFadeRampIsContinuous(t *testing.T) {
	e := NewEngine(48000)
	e.Send(Command{Kind: CmdSetPreset, Preset: "rain"})
	e.Send(Command{Kind: CmdStart})

	buf := make([]float32, 2)
	prev := e.fadeGain
	step := e.fadeStep * 1.0001
	sawFull := false
	for i := 0; i < 48000; i++ {
		e.Render(buf)
		if d := e.fadeGain - prev; d < 0 || d > step {
			t.Fatalf("fade-in step %v out of range at sample %d", d, i)
		}
		prev = e.fadeGain
		if e.fadeGain == 1 {
			sawFull = true
			break
		}
	}
	if !sawFull {
		t.Fatal("fade-in never reached full gain")
	}

	e.Send(Command{Kind: CmdStop})
	for i := 0; i < 48000; i++ {
		e.Render(buf)
		if d := prev - e.fadeGain; d < 0 || d > step {
			t.Fatalf("fade-out step %v out of range at sample %d", d, i)
		}
		prev = e.fadeGain
		if e.fadeGain == 0 {
			return
		}
	}
	t.Fatal("fade-out never reached silence")
}

func TestEngineCommandQueueOverflowDrops(t *testing.T) {
	e := NewEngine(48000)
	accepted := 0
	for i := 0; i < commandQueueDepth+16; i++ {
		if e.Send(Command{Kind: CmdStart}) {
			accepted++
		}
	}
	if accepted != commandQueueDepth {
		t.Fatalf("accepted %d commands, want %d", accepted, commandQueueDepth)
	}
}

func TestEngineStatsReply(t *testing.T) {
	e := NewEngine(48000)
	e.Send(Command{Kind: CmdSetPreset, Preset: "rain"})
	e.Send(Command{Kind: CmdStart})
	renderSeconds(e, 2)

	reply := make(chan Stats, 1)
	e.Send(Command{Kind: CmdStats, Reply: reply})
	e.Render(make([]float32, 64))

	select {
	case s := <-reply:
		if s.Preset != "rain" {
			t.Fatalf("stats preset = %q, want rain", s.Preset)
		}
		if s.ActiveVoices < 0 || s.ActiveVoices > maxDropletVoices+maxWaterDropVoices {
			t.Fatalf("implausible active voice count %d", s.ActiveVoices)
		}
	default:
		t.Fatal("no stats reply after render")
	}
}

func TestEngineInvalidParamFieldIgnored(t *testing.T) {
	e := NewEngine(48000)
	before := e.params.Intensity
	e.Send(Command{Kind: CmdSetParams, Params: ParamUpdate{Intensity: floatPtr(7)}})
	e.Render(make([]float32, 64))
	if e.params.Intensity != before {
		t.Fatalf("out-of-range intensity applied: %v", e.params.Intensity)
	}

	e.Send(Command{Kind: CmdSetParams, Params: ParamUpdate{
		Intensity: floatPtr(0.4),
		Distance:  floatPtr(99),
	}})
	e.Render(make([]float32, 64))
	if e.params.Intensity != 0.4 {
		t.Fatalf("valid intensity not applied: %v", e.params.Intensity)
	}
	if e.params.Distance != 0.2 {
		t.Fatalf("invalid distance applied: %v", e.params.Distance)
	}
}

func TestEngineStoppedOutputIsSilent(t *testing.T) {
	e := NewEngine(48000)
	out := renderSeconds(e, 0.5)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("stopped engine emitted %v at sample %d", s, i)
		}
	}
}

func TestEngineArbitraryCommandSequenceStaysFinite(t *testing.T) {
	e := NewEngine(44100)
	rng := newTestRand(99)
	names := PresetNames()

	e.Send(Command{Kind: CmdStart})
	for round := 0; round < 40; round++ {
		switch rng.Intn(6) {
		case 0:
			e.Send(Command{Kind: CmdSetPreset, Preset: names[rng.Intn(len(names))]})
		case 1:
			e.Send(Command{Kind: CmdSetParams, Params: ParamUpdate{
				Intensity: floatPtr(rng.Float32()),
				Space:     floatPtr(rng.Float32()),
				Distance:  floatPtr(rng.Float32()),
			}})
		case 2:
			e.Send(Command{Kind: CmdSetLayerMix, Levels: LayerUpdate{
				Turbulence: floatPtr(rng.Float32()),
				HardDrops:  floatPtr(rng.Float32()),
			}})
		case 3:
			e.Send(Command{Kind: CmdSetLayerDensity, Levels: LayerUpdate{
				Bubbling: floatPtr(rng.Float32()),
				Roar:     floatPtr(rng.Float32()),
			}})
		case 4:
			e.Send(Command{Kind: CmdSetSeed, Seed: rng.Int63()})
		case 5:
			if rng.Intn(2) == 0 {
				e.Send(Command{Kind: CmdStop})
			} else {
				e.Send(Command{Kind: CmdStart})
			}
		}
		if out := renderSeconds(e, 0.1); hasNonFinite(out) {
			t.Fatalf("non-finite output after command round %d", round)
		}
	}
}
