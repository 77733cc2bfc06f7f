package water

// SinkMaterial names the struck-basin tuning used when a preset enables
// the sink resonator.
type SinkMaterial string

const (
	SinkNone    SinkMaterial = ""
	SinkCeramic SinkMaterial = "ceramic"
	SinkSteel   SinkMaterial = "steel"
)

// Preset is an immutable parameter bundle selected by name.
type Preset struct {
	Name string

	EventRateMin float32 // droplet events per second
	EventRateMax float32
	DropSizeMin  float32
	DropSizeMax  float32
	Hardness     float32
	DecayTime    float32
	BaseFreq     float32

	BurstProbability float32
	BurstCountMin    int
	BurstCountMax    int

	TurbulenceLow  float32
	TurbulenceMid  float32
	TurbulenceHigh float32
	Roughness      float32
	SpectralTilt   float32

	UseGlassPane     bool
	UseSinkResonator bool
	SinkMaterial     SinkMaterial

	Layers LayerLevels
}

var builtinPresets = []Preset{
	{
		Name:         "drizzle",
		EventRateMin: 1.5, EventRateMax: 4,
		DropSizeMin: 0.1, DropSizeMax: 0.35,
		Hardness:  0.35,
		DecayTime: 0.12,
		BaseFreq:  1900,
		BurstProbability: 0.04, BurstCountMin: 2, BurstCountMax: 3,
		TurbulenceLow: 0.06, TurbulenceMid: 0.1, TurbulenceHigh: 0.18,
		Roughness: 0.2, SpectralTilt: 0.4,
		Layers: LayerLevels{HardDrops: 0.7, WaterDrops: 0.25, Turbulence: 0.3, Bubbling: 0.0, Roar: 0.0, Rivulets: 0.1},
	},
	{
		Name:         "rain",
		EventRateMin: 8, EventRateMax: 22,
		DropSizeMin: 0.15, DropSizeMax: 0.6,
		Hardness:  0.45,
		DecayTime: 0.1,
		BaseFreq:  1600,
		BurstProbability: 0.12, BurstCountMin: 2, BurstCountMax: 5,
		TurbulenceLow: 0.12, TurbulenceMid: 0.22, TurbulenceHigh: 0.3,
		Roughness: 0.35, SpectralTilt: 0.2,
		Layers: LayerLevels{HardDrops: 0.8, WaterDrops: 0.45, Turbulence: 0.55, Bubbling: 0.1, Roar: 0.0, Rivulets: 0.2},
	},
	{
		Name:         "rain-on-window",
		EventRateMin: 4, EventRateMax: 12,
		DropSizeMin: 0.1, DropSizeMax: 0.5,
		Hardness:  0.85,
		DecayTime: 0.2,
		BaseFreq:  2200,
		BurstProbability: 0.1, BurstCountMin: 2, BurstCountMax: 4,
		TurbulenceLow: 0.04, TurbulenceMid: 0.08, TurbulenceHigh: 0.2,
		Roughness: 0.25, SpectralTilt: 0.6,
		UseGlassPane: true,
		Layers:       LayerLevels{HardDrops: 1.0, WaterDrops: 0.1, Turbulence: 0.15, Bubbling: 0.0, Roar: 0.0, Rivulets: 0.3},
	},
	{
		Name:         "stream",
		EventRateMin: 3, EventRateMax: 9,
		DropSizeMin: 0.3, DropSizeMax: 0.7,
		Hardness:  0.2,
		DecayTime: 0.15,
		BaseFreq:  1100,
		BurstProbability: 0.2, BurstCountMin: 2, BurstCountMax: 4,
		TurbulenceLow: 0.3, TurbulenceMid: 0.5, TurbulenceHigh: 0.35,
		Roughness: 0.5, SpectralTilt: 0.0,
		Layers: LayerLevels{HardDrops: 0.2, WaterDrops: 0.7, Turbulence: 0.85, Bubbling: 0.6, Roar: 0.1, Rivulets: 0.6},
	},
	{
		Name:         "waterfall",
		EventRateMin: 6, EventRateMax: 16,
		DropSizeMin: 0.5, DropSizeMax: 1.0,
		Hardness:  0.15,
		DecayTime: 0.12,
		BaseFreq:  800,
		BurstProbability: 0.3, BurstCountMin: 3, BurstCountMax: 6,
		TurbulenceLow: 0.6, TurbulenceMid: 0.7, TurbulenceHigh: 0.5,
		Roughness: 0.7, SpectralTilt: -0.2,
		Layers: LayerLevels{HardDrops: 0.1, WaterDrops: 0.4, Turbulence: 0.8, Bubbling: 0.5, Roar: 1.0, Rivulets: 0.0},
	},
	{
		Name:         "dripping-cave",
		EventRateMin: 0.3, EventRateMax: 1.2,
		DropSizeMin: 0.4, DropSizeMax: 0.9,
		Hardness:  0.6,
		DecayTime: 0.5,
		BaseFreq:  900,
		BurstProbability: 0.06, BurstCountMin: 2, BurstCountMax: 3,
		TurbulenceLow: 0.08, TurbulenceMid: 0.05, TurbulenceHigh: 0.03,
		Roughness: 0.15, SpectralTilt: -0.5,
		Layers: LayerLevels{HardDrops: 0.6, WaterDrops: 0.8, Turbulence: 0.12, Bubbling: 0.25, Roar: 0.0, Rivulets: 0.05},
	},
	{
		Name:         "kitchen-sink",
		EventRateMin: 2, EventRateMax: 7,
		DropSizeMin: 0.25, DropSizeMax: 0.7,
		Hardness:  0.7,
		DecayTime: 0.18,
		BaseFreq:  1400,
		BurstProbability: 0.15, BurstCountMin: 2, BurstCountMax: 4,
		TurbulenceLow: 0.1, TurbulenceMid: 0.15, TurbulenceHigh: 0.12,
		Roughness: 0.3, SpectralTilt: 0.1,
		UseSinkResonator: true,
		SinkMaterial:     SinkSteel,
		Layers:           LayerLevels{HardDrops: 0.8, WaterDrops: 0.6, Turbulence: 0.2, Bubbling: 0.35, Roar: 0.0, Rivulets: 0.15},
	},
}

// PresetByName looks up a built-in preset. The second return is false for
// unknown names; callers keep their current preset in that case.
func PresetByName(name string) (Preset, bool) {
	for i := range builtinPresets {
		if builtinPresets[i].Name == name {
			return builtinPresets[i], true
		}
	}
	return Preset{}, false
}

// PresetNames lists the built-in preset names in declaration order.
func PresetNames() []string {
	names := make([]string, len(builtinPresets))
	for i := range builtinPresets {
		names[i] = builtinPresets[i].Name
	}
	return names
}

// valid reports whether a preset's core ranges are usable. Custom presets
// failing this are dropped by the engine.
func (p *Preset) valid() bool {
	switch {
	case p.EventRateMin < 0 || p.EventRateMax < p.EventRateMin:
		return false
	case p.DropSizeMin < 0 || p.DropSizeMax > 1 || p.DropSizeMax < p.DropSizeMin:
		return false
	case p.Hardness < 0 || p.Hardness > 1:
		return false
	case p.DecayTime <= 0 || p.DecayTime > 4:
		return false
	case p.BaseFreq < 100 || p.BaseFreq > 8000:
		return false
	case p.BurstProbability < 0 || p.BurstProbability > 1:
		return false
	case p.UseSinkResonator && p.SinkMaterial == SinkNone:
		return false
	}
	return true
}

// sinkTuning maps a material name to its modal tuning.
func sinkTuning(m SinkMaterial) paneTuning {
	if m == SinkSteel {
		return steelTuning
	}
	return ceramicTuning
}
