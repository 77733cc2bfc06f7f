package water

import (
	"math/rand"

	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-water/dsp"
)

// commandQueueDepth bounds the control queue. Senders that outrun the
// audio thread get their excess commands dropped, never a blocked audio
// callback.
const commandQueueDepth = 64

// fadeSeconds is the length of the start/stop gain ramp.
const fadeSeconds = 0.03

// bypassEpsilon: a layer whose mix x density x preset weight falls below
// this is skipped entirely, state frozen.
const bypassEpsilon = 1e-4

// CommandKind discriminates control messages.
type CommandKind int

const (
	CmdSetPreset CommandKind = iota
	CmdSetCustomPreset
	CmdSetParams
	CmdSetLayerMix
	CmdSetLayerDensity
	CmdSetSeed
	CmdStart
	CmdStop
	CmdStats
)

// Stats is the reply to a CmdStats request.
type Stats struct {
	Preset       string
	ActiveVoices int
	EventsPerSec float64
}

// Command is an ownership-passing control message. Fields beyond Kind are
// read only for the matching kind.
type Command struct {
	Kind   CommandKind
	Preset string
	Custom *Preset
	Params ParamUpdate
	Levels LayerUpdate
	Seed   int64
	Reply  chan<- Stats
}

// layerBypass caches which continuous layers are skipped this block.
type layerBypass struct {
	turbulence bool
	bubbling   bool
	roar       bool
	rivulets   bool
}

// Engine is the complete water-sound generator. Construct it once, send
// commands from any goroutine, and call Render from exactly one goroutine
// (the audio callback). Render never allocates and never blocks.
type Engine struct {
	sampleRate int
	cmds       chan Command
	rng        *rand.Rand

	preset  Preset
	params  Params
	mix     LayerLevels
	density LayerLevels
	bypass  layerBypass

	droplets     dropletPool
	waterDrops   waterDropPool
	dropletSched eventScheduler
	waterSched   eventScheduler

	turbulence TurbulenceLayer
	bubbling   BubblingLayer
	roar       RoarLayer
	rivulets   RivuletLayer
	pane       ModalBank

	dropHP [2]dsp.Biquad
	dropLP [2]dsp.Biquad
	wdHP   [2]dsp.Biquad
	wdLP   [2]dsp.Biquad

	smoothIntensity dsp.OnePole
	smoothDistance  dsp.OnePole
	distLP          [2]dsp.OnePole
	dc              [2]dsp.DCBlocker

	reverbL         *effects.Reverb
	reverbR         *effects.Reverb
	preDelay        *dsp.DelayLine
	preDelaySamples int

	fadeGain   float32
	fadeTarget float32
	fadeStep   float32

	eventCount   int
	statSamples  int
	eventsPerSec float64
}

// NewEngine builds an engine at the given sample rate. All voice arenas,
// delay lines and reverbs are allocated here; Render is allocation-free.
// The engine starts stopped (silent) with the "rain" preset and seed 1.
func NewEngine(sampleRate int) *Engine {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	e := &Engine{
		sampleRate: sampleRate,
		cmds:       make(chan Command, commandQueueDepth),
		rng:        rand.New(rand.NewSource(1)),
		params:     NewDefaultParams(),
		density:    allLayerLevels(1),
	}

	e.droplets.init(sampleRate)
	e.waterDrops.init(sampleRate)
	e.dropletSched.init(sampleRate)
	e.waterSched.init(sampleRate)

	e.turbulence.Init(sampleRate, e.rng)
	e.bubbling.Init(sampleRate, e.rng)
	e.roar.Init(sampleRate, e.rng)
	e.rivulets.Init(sampleRate, e.rng)
	e.pane.Init(sampleRate)

	for ch := 0; ch < 2; ch++ {
		e.dropHP[ch].SetHighpass(380, float32(sampleRate), 0.707)
		e.dropLP[ch].SetLowpass(9000, float32(sampleRate), 0.707)
		e.wdHP[ch].SetHighpass(140, float32(sampleRate), 0.707)
		e.wdLP[ch].SetLowpass(2600, float32(sampleRate), 0.707)
		e.distLP[ch].SetCoeff(0.1)
		e.dc[ch] = *dsp.NewDCBlocker()
	}
	e.smoothIntensity.SetCutoff(8, float32(sampleRate))
	e.smoothDistance.SetCutoff(4, float32(sampleRate))

	e.reverbL = effects.NewReverb()
	e.reverbR = effects.NewReverb()
	for _, rv := range []*effects.Reverb{e.reverbL, e.reverbR} {
		rv.SetDry(0)
		rv.SetWet(1)
		rv.SetRoomSize(0.82)
		rv.SetDamp(0.35)
		rv.SetGain(0.015)
	}
	e.preDelaySamples = sampleRate / 80
	e.preDelay = dsp.NewDelayLine(e.preDelaySamples + 1)

	e.fadeStep = 1.0 / (fadeSeconds * float32(sampleRate))

	p, _ := PresetByName("rain")
	e.adoptPreset(p)
	return e
}

// SampleRate returns the engine's sample rate.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Send enqueues a command without blocking. It reports false when the
// queue is full and the command was dropped.
func (e *Engine) Send(cmd Command) bool {
	select {
	case e.cmds <- cmd:
		return true
	default:
		return false
	}
}

// drainCommands applies every queued command. Called once per Render so
// parameter changes land exactly on block boundaries.
func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.cmds:
			e.applyCommand(cmd)
		default:
			return
		}
	}
}

func (e *Engine) applyCommand(cmd Command) {
	switch cmd.Kind {
	case CmdSetPreset:
		p, ok := PresetByName(cmd.Preset)
		if !ok {
			return
		}
		e.adoptPreset(p)
	case CmdSetCustomPreset:
		if cmd.Custom == nil || !cmd.Custom.valid() {
			return
		}
		e.adoptPreset(*cmd.Custom)
	case CmdSetParams:
		cmd.Params.apply(&e.params)
		e.refreshControls()
	case CmdSetLayerMix:
		cmd.Levels.apply(&e.mix)
		e.refreshControls()
	case CmdSetLayerDensity:
		cmd.Levels.apply(&e.density)
		e.refreshControls()
	case CmdSetSeed:
		e.rng.Seed(cmd.Seed)
	case CmdStart:
		e.fadeTarget = 1
	case CmdStop:
		e.fadeTarget = 0
	case CmdStats:
		if cmd.Reply != nil {
			select {
			case cmd.Reply <- e.stats():
			default:
			}
		}
	}
}

// adoptPreset installs a preset: scheduler rates, layer defaults, struck
// medium. Re-sending the active preset leaves the engine in the same
// state (the countdown clamp in configure is a no-op on equal settings).
func (e *Engine) adoptPreset(p Preset) {
	e.preset = p
	e.mix = p.Layers
	e.density = allLayerLevels(1)
	e.refreshControls()
}

// refreshControls recomputes everything derived from preset + params +
// mix + density: scheduler scaling, layer parameters, bypass flags.
func (e *Engine) refreshControls() {
	p := &e.preset

	e.dropletSched.configure(p.EventRateMin, p.EventRateMax, p.BurstProbability,
		p.BurstCountMin, p.BurstCountMax, 0.008)
	e.waterSched.configure(p.EventRateMin*0.6, p.EventRateMax*0.6, p.BurstProbability*0.5,
		p.BurstCountMin, p.BurstCountMax, 0.015)
	e.dropletSched.setRateScale(e.params.Rate * e.density.HardDrops)
	e.waterSched.setRateScale(e.params.Rate * e.density.WaterDrops)

	e.turbulence.SetParams(p.TurbulenceLow, p.TurbulenceMid, p.TurbulenceHigh,
		p.Roughness, p.SpectralTilt)
	e.bubbling.SetParams(1, e.density.Bubbling)
	e.roar.SetParams(1, e.params.Distance, e.density.Roar)
	e.rivulets.SetParams(1, e.density.Rivulets)

	switch {
	case p.UseGlassPane:
		e.pane.Configure(true, glassTuning, e.params.GlassThickness, 0.25)
	case p.UseSinkResonator:
		e.pane.Configure(true, sinkTuning(p.SinkMaterial), e.params.GlassThickness, 0.2)
	default:
		e.pane.Configure(false, glassTuning, e.params.GlassThickness, 0)
	}

	turbWeight := maxf(p.TurbulenceLow, maxf(p.TurbulenceMid, p.TurbulenceHigh))
	e.bypass.turbulence = e.mix.Turbulence*e.density.Turbulence*turbWeight < bypassEpsilon
	e.bypass.bubbling = e.mix.Bubbling*e.density.Bubbling < bypassEpsilon
	e.bypass.roar = e.mix.Roar*e.density.Roar < bypassEpsilon
	e.bypass.rivulets = e.mix.Rivulets*e.density.Rivulets < bypassEpsilon
}

func (e *Engine) stats() Stats {
	return Stats{
		Preset:       e.preset.Name,
		ActiveVoices: e.droplets.activeCount() + e.waterDrops.activeCount(),
		EventsPerSec: e.eventsPerSec,
	}
}

func (e *Engine) triggerDroplet() {
	p := &e.preset
	size := lerp(p.DropSizeMin, p.DropSizeMax, e.rng.Float32()) * e.params.DropSize
	e.droplets.trigger(DropletTrigger{
		BaseFreq:  p.BaseFreq * e.params.BaseFreq,
		DropSize:  clampFloat32(size, 0, 1),
		Hardness:  clampFloat32(p.Hardness*e.params.Hardness, 0, 1),
		DecayTime: p.DecayTime,
	}, e.rng)
	e.eventCount++
}

func (e *Engine) triggerWaterDrop() {
	p := &e.preset
	size := lerp(p.DropSizeMin, p.DropSizeMax, e.rng.Float32()) * e.params.DropSize
	e.waterDrops.trigger(WaterDropTrigger{
		BaseFreq:  p.BaseFreq * e.params.BaseFreq * 0.3,
		DropSize:  clampFloat32(size, 0, 1),
		DecayTime: p.DecayTime,
	}, e.rng)
	e.eventCount++
}

// Render fills dst with interleaved stereo samples (len(dst)/2 frames).
// Queued commands are applied before the first sample. Safe to call with
// any even-length buffer; odd trailing samples are ignored.
func (e *Engine) Render(dst []float32) {
	e.drainCommands()
	frames := len(dst) / 2

	running := e.fadeGain > 0 || e.fadeTarget > 0
	for i := 0; i < frames; i++ {
		var l, r float32

		if running {
			if e.dropletSched.tick(e.rng) {
				e.triggerDroplet()
			}
			if e.waterSched.tick(e.rng) {
				e.triggerWaterDrop()
			}

			dl, dr := e.droplets.process(e.rng)
			dl = e.dropLP[0].Process(e.dropHP[0].Process(dl))
			dr = e.dropLP[1].Process(e.dropHP[1].Process(dr))

			wl, wr := e.waterDrops.process(e.rng)
			wl = e.wdLP[0].Process(e.wdHP[0].Process(wl))
			wr = e.wdLP[1].Process(e.wdHP[1].Process(wr))

			e.pane.Excite(absf(dl) + absf(dr))
			gl, gr := e.pane.Process()

			var tl, tr, bl, br, rl, rr, vl, vr float32
			if !e.bypass.turbulence {
				tl, tr = e.turbulence.Process(e.rng)
			}
			if !e.bypass.bubbling {
				bl, br = e.bubbling.Process(e.rng)
			}
			if !e.bypass.roar {
				rl, rr = e.roar.Process(e.rng)
			}
			if !e.bypass.rivulets {
				vl, vr = e.rivulets.Process(e.rng)
			}

			l = dl*e.mix.HardDrops + wl*e.mix.WaterDrops + gl +
				tl*e.mix.Turbulence + bl*e.mix.Bubbling + rl*e.mix.Roar + vl*e.mix.Rivulets
			r = dr*e.mix.HardDrops + wr*e.mix.WaterDrops + gr +
				tr*e.mix.Turbulence + br*e.mix.Bubbling + rr*e.mix.Roar + vr*e.mix.Rivulets

			inten := e.smoothIntensity.Process(e.params.Intensity)
			l *= inten
			r *= inten

			dist := e.smoothDistance.Process(e.params.Distance)
			k := 0.1 + 0.85*dist
			e.distLP[0].SetCoeff(k)
			e.distLP[1].SetCoeff(k)
			l = e.distLP[0].Process(l)
			r = e.distLP[1].Process(r)

			if e.params.Space > 0.001 {
				wetL := float32(e.reverbL.ProcessSample(float64(l)))
				e.preDelay.Write(r)
				wetR := float32(e.reverbR.ProcessSample(float64(e.preDelay.Read(e.preDelaySamples))))
				l += e.params.Space * wetL
				r += e.params.Space * wetR
			}

			l = e.dc[0].Process(l)
			r = e.dc[1].Process(r)
		}

		if e.fadeGain < e.fadeTarget {
			e.fadeGain += e.fadeStep
			if e.fadeGain > e.fadeTarget {
				e.fadeGain = e.fadeTarget
			}
		} else if e.fadeGain > e.fadeTarget {
			e.fadeGain -= e.fadeStep
			if e.fadeGain < e.fadeTarget {
				e.fadeGain = e.fadeTarget
			}
		}
		l *= e.fadeGain
		r *= e.fadeGain

		if !isFinite(l) {
			l = 0
		}
		if !isFinite(r) {
			r = 0
		}
		dst[2*i] = l
		dst[2*i+1] = r

		e.statSamples++
		if e.statSamples >= e.sampleRate {
			e.eventsPerSec = float64(e.eventCount)
			e.eventCount = 0
			e.statSamples = 0
		}
	}
}
