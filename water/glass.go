package water

const paneModes = 4

// paneTuning describes a struck-medium modal signature: partial ratios
// over a base frequency and their relative levels.
type paneTuning struct {
	ratios [paneModes]float32
	levels [paneModes]float32
	decay  float32 // seconds, scaled per partial
}

// glassTuning is a window pane; inharmonic, ringing partials.
var glassTuning = paneTuning{
	ratios: [paneModes]float32{1.0, 2.9, 5.4, 8.2},
	levels: [paneModes]float32{1.0, 0.45, 0.22, 0.1},
	decay:  0.25,
}

// ceramicTuning is a ceramic sink basin: duller, faster-dying partials.
var ceramicTuning = paneTuning{
	ratios: [paneModes]float32{1.0, 2.3, 3.9, 6.1},
	levels: [paneModes]float32{1.0, 0.5, 0.2, 0.08},
	decay:  0.12,
}

// steelTuning is a stainless-steel basin: bright, long, clangy.
var steelTuning = paneTuning{
	ratios: [paneModes]float32{1.0, 2.76, 5.40, 8.93},
	levels: [paneModes]float32{1.0, 0.6, 0.35, 0.18},
	decay:  0.45,
}

// ModalBank is a small bank of fixed resonators standing in for a struck
// medium (glass pane, sink basin). It rings when incoming transient energy
// crosses the excitation threshold.
type ModalBank struct {
	sampleRate int
	enabled    bool
	tuning     paneTuning
	baseFreq   float32
	gain       float32
	threshold  float32
	modes      [paneModes]Resonator
	holdoff    int
}

func (m *ModalBank) Init(sampleRate int) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	m.sampleRate = sampleRate
	m.enabled = false
	m.tuning = glassTuning
	m.baseFreq = 420
	m.gain = 0.2
	m.threshold = 0.15
}

// Configure sets the medium. thickness lowers the base frequency; zero
// gain or a disabled bank never rings.
func (m *ModalBank) Configure(enabled bool, tuning paneTuning, thickness, gain float32) {
	m.enabled = enabled
	m.tuning = tuning
	thickness = clampFloat32(thickness, 0, 1)
	m.baseFreq = 560 / (0.5 + thickness)
	m.gain = clampFloat32(gain, 0, 1)
}

// Excite rings the bank when the transient energy crosses the threshold.
// A short holdoff keeps a single splash from re-striking every sample.
func (m *ModalBank) Excite(energy float32) {
	if !m.enabled || m.gain <= 0 {
		return
	}
	if m.holdoff > 0 {
		m.holdoff--
		return
	}
	if energy < m.threshold {
		return
	}
	strike := minf(energy, 1.0)
	for i := 0; i < paneModes; i++ {
		f := m.baseFreq * m.tuning.ratios[i]
		d := m.tuning.decay / (1.0 + 0.6*float32(i))
		m.modes[i].Init(f, strike*m.tuning.levels[i], d, m.sampleRate)
	}
	m.holdoff = m.sampleRate / 50
}

// Process emits one stereo sample of the ringing bank.
func (m *ModalBank) Process() (float32, float32) {
	if !m.enabled {
		return 0, 0
	}
	var out float32
	for i := 0; i < paneModes; i++ {
		if m.modes[i].Active() {
			out += m.modes[i].Process()
		}
	}
	out *= m.gain
	return out * 0.55, out * 0.45
}

// Active reports whether any mode is still ringing.
func (m *ModalBank) Active() bool {
	if !m.enabled {
		return false
	}
	for i := 0; i < paneModes; i++ {
		if m.modes[i].Active() {
			return true
		}
	}
	return false
}
