package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-water/water"
)

// File is the JSON schema for user preset files. Every field is optional;
// set fields override the base preset, unset fields keep its values.
type File struct {
	Base string `json:"base"`

	EventRateMin *float32 `json:"event_rate_min"`
	EventRateMax *float32 `json:"event_rate_max"`
	DropSizeMin  *float32 `json:"drop_size_min"`
	DropSizeMax  *float32 `json:"drop_size_max"`
	Hardness     *float32 `json:"hardness"`
	DecayTime    *float32 `json:"decay_time"`
	BaseFreq     *float32 `json:"base_freq"`

	BurstProbability *float32 `json:"burst_probability"`
	BurstCountMin    *int     `json:"burst_count_min"`
	BurstCountMax    *int     `json:"burst_count_max"`

	TurbulenceLow  *float32 `json:"turbulence_low"`
	TurbulenceMid  *float32 `json:"turbulence_mid"`
	TurbulenceHigh *float32 `json:"turbulence_high"`
	Roughness      *float32 `json:"roughness"`
	SpectralTilt   *float32 `json:"spectral_tilt"`

	UseGlassPane     *bool  `json:"use_glass_pane"`
	UseSinkResonator *bool  `json:"use_sink_resonator"`
	SinkMaterial     string `json:"sink_material"`

	Layers map[string]float32 `json:"layers"`
}

// LoadJSON loads a preset file and applies it on top of its base preset
// ("rain" when unspecified).
func LoadJSON(path string) (water.Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return water.Preset{}, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return water.Preset{}, fmt.Errorf("parse %s: %w", path, err)
	}

	base := f.Base
	if base == "" {
		base = "rain"
	}
	p, ok := water.PresetByName(base)
	if !ok {
		return water.Preset{}, fmt.Errorf("unknown base preset %q", base)
	}
	if err := ApplyFile(&p, &f); err != nil {
		return water.Preset{}, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing preset.
func ApplyFile(dst *water.Preset, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination preset")
	}
	if f == nil {
		return nil
	}

	if f.EventRateMin != nil {
		if *f.EventRateMin < 0 {
			return fmt.Errorf("event_rate_min must be >= 0")
		}
		dst.EventRateMin = *f.EventRateMin
	}
	if f.EventRateMax != nil {
		if *f.EventRateMax < 0 {
			return fmt.Errorf("event_rate_max must be >= 0")
		}
		dst.EventRateMax = *f.EventRateMax
	}
	if dst.EventRateMax < dst.EventRateMin {
		return fmt.Errorf("event_rate_max %v below event_rate_min %v", dst.EventRateMax, dst.EventRateMin)
	}

	if f.DropSizeMin != nil {
		if *f.DropSizeMin < 0 || *f.DropSizeMin > 1 {
			return fmt.Errorf("drop_size_min must be in [0,1]")
		}
		dst.DropSizeMin = *f.DropSizeMin
	}
	if f.DropSizeMax != nil {
		if *f.DropSizeMax < 0 || *f.DropSizeMax > 1 {
			return fmt.Errorf("drop_size_max must be in [0,1]")
		}
		dst.DropSizeMax = *f.DropSizeMax
	}
	if dst.DropSizeMax < dst.DropSizeMin {
		return fmt.Errorf("drop_size_max %v below drop_size_min %v", dst.DropSizeMax, dst.DropSizeMin)
	}

	if f.Hardness != nil {
		if *f.Hardness < 0 || *f.Hardness > 1 {
			return fmt.Errorf("hardness must be in [0,1]")
		}
		dst.Hardness = *f.Hardness
	}
	if f.DecayTime != nil {
		if *f.DecayTime <= 0 || *f.DecayTime > 4 {
			return fmt.Errorf("decay_time must be in (0,4]")
		}
		dst.DecayTime = *f.DecayTime
	}
	if f.BaseFreq != nil {
		if *f.BaseFreq < 100 || *f.BaseFreq > 8000 {
			return fmt.Errorf("base_freq must be in [100,8000]")
		}
		dst.BaseFreq = *f.BaseFreq
	}

	if f.BurstProbability != nil {
		if *f.BurstProbability < 0 || *f.BurstProbability > 1 {
			return fmt.Errorf("burst_probability must be in [0,1]")
		}
		dst.BurstProbability = *f.BurstProbability
	}
	if f.BurstCountMin != nil {
		if *f.BurstCountMin < 2 || *f.BurstCountMin > 6 {
			return fmt.Errorf("burst_count_min must be in [2,6]")
		}
		dst.BurstCountMin = *f.BurstCountMin
	}
	if f.BurstCountMax != nil {
		if *f.BurstCountMax < 2 || *f.BurstCountMax > 6 {
			return fmt.Errorf("burst_count_max must be in [2,6]")
		}
		dst.BurstCountMax = *f.BurstCountMax
	}
	if dst.BurstCountMax < dst.BurstCountMin {
		return fmt.Errorf("burst_count_max %d below burst_count_min %d", dst.BurstCountMax, dst.BurstCountMin)
	}

	if err := applyUnit(&dst.TurbulenceLow, f.TurbulenceLow, "turbulence_low"); err != nil {
		return err
	}
	if err := applyUnit(&dst.TurbulenceMid, f.TurbulenceMid, "turbulence_mid"); err != nil {
		return err
	}
	if err := applyUnit(&dst.TurbulenceHigh, f.TurbulenceHigh, "turbulence_high"); err != nil {
		return err
	}
	if err := applyUnit(&dst.Roughness, f.Roughness, "roughness"); err != nil {
		return err
	}
	if f.SpectralTilt != nil {
		if *f.SpectralTilt < -1 || *f.SpectralTilt > 1 {
			return fmt.Errorf("spectral_tilt must be in [-1,1]")
		}
		dst.SpectralTilt = *f.SpectralTilt
	}

	if f.UseGlassPane != nil {
		dst.UseGlassPane = *f.UseGlassPane
	}
	if f.UseSinkResonator != nil {
		dst.UseSinkResonator = *f.UseSinkResonator
	}
	if f.SinkMaterial != "" {
		m := water.SinkMaterial(strings.ToLower(strings.TrimSpace(f.SinkMaterial)))
		if m != water.SinkCeramic && m != water.SinkSteel {
			return fmt.Errorf("sink_material %q (expected ceramic or steel)", f.SinkMaterial)
		}
		dst.SinkMaterial = m
	}
	if dst.UseSinkResonator && dst.SinkMaterial == water.SinkNone {
		return fmt.Errorf("use_sink_resonator requires sink_material")
	}

	for name, v := range f.Layers {
		if v < 0 || v > 1 {
			return fmt.Errorf("layers.%s must be in [0,1]", name)
		}
		switch name {
		case "hard_drops":
			dst.Layers.HardDrops = v
		case "water_drops":
			dst.Layers.WaterDrops = v
		case "turbulence":
			dst.Layers.Turbulence = v
		case "bubbling":
			dst.Layers.Bubbling = v
		case "roar":
			dst.Layers.Roar = v
		case "rivulets":
			dst.Layers.Rivulets = v
		default:
			return fmt.Errorf("unknown layer %q", name)
		}
	}
	return nil
}

// FileFromPreset captures a resolved preset as a fully specified file.
// Loading the result reproduces the preset regardless of the base's values.
func FileFromPreset(base string, p water.Preset) File {
	f32 := func(v float32) *float32 { return &v }
	intp := func(v int) *int { return &v }
	boolp := func(v bool) *bool { return &v }
	return File{
		Base:             base,
		EventRateMin:     f32(p.EventRateMin),
		EventRateMax:     f32(p.EventRateMax),
		DropSizeMin:      f32(p.DropSizeMin),
		DropSizeMax:      f32(p.DropSizeMax),
		Hardness:         f32(p.Hardness),
		DecayTime:        f32(p.DecayTime),
		BaseFreq:         f32(p.BaseFreq),
		BurstProbability: f32(p.BurstProbability),
		BurstCountMin:    intp(p.BurstCountMin),
		BurstCountMax:    intp(p.BurstCountMax),
		TurbulenceLow:    f32(p.TurbulenceLow),
		TurbulenceMid:    f32(p.TurbulenceMid),
		TurbulenceHigh:   f32(p.TurbulenceHigh),
		Roughness:        f32(p.Roughness),
		SpectralTilt:     f32(p.SpectralTilt),
		UseGlassPane:     boolp(p.UseGlassPane),
		UseSinkResonator: boolp(p.UseSinkResonator),
		SinkMaterial:     string(p.SinkMaterial),
		Layers: map[string]float32{
			"hard_drops":  p.Layers.HardDrops,
			"water_drops": p.Layers.WaterDrops,
			"turbulence":  p.Layers.Turbulence,
			"bubbling":    p.Layers.Bubbling,
			"roar":        p.Layers.Roar,
			"rivulets":    p.Layers.Rivulets,
		},
	}
}

func applyUnit(dst *float32, src *float32, name string) error {
	if src == nil {
		return nil
	}
	if *src < 0 || *src > 1 {
		return fmt.Errorf("%s must be in [0,1]", name)
	}
	*dst = *src
	return nil
}
