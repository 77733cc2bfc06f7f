package main

import (
	"math"

	"github.com/cwbudde/algo-water/internal/fitcommon"
	"github.com/cwbudde/algo-water/water"
)

type knobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

type candidate struct {
	Vals []float64
}

// initCandidate builds the knob set over a base preset. Every knob is a
// scalar preset field; the optimizer works in normalized [0,1] space and
// fromNormalized maps back into these ranges.
func initCandidate(base water.Preset) ([]knobDef, candidate) {
	defs := make([]knobDef, 0, 20)
	vals := make([]float64, 0, 20)
	addKnob := func(def knobDef, val float64) {
		defs = append(defs, def)
		vals = append(vals, val)
	}

	addKnob(knobDef{Name: "event_rate_min", Min: 0.1, Max: 30}, float64(base.EventRateMin))
	addKnob(knobDef{Name: "event_rate_max", Min: 0.1, Max: 40}, float64(base.EventRateMax))
	addKnob(knobDef{Name: "drop_size_min", Min: 0, Max: 1}, float64(base.DropSizeMin))
	addKnob(knobDef{Name: "drop_size_max", Min: 0, Max: 1}, float64(base.DropSizeMax))
	addKnob(knobDef{Name: "hardness", Min: 0, Max: 1}, float64(base.Hardness))
	addKnob(knobDef{Name: "decay_time", Min: 0.02, Max: 1.5}, float64(base.DecayTime))
	addKnob(knobDef{Name: "base_freq", Min: 200, Max: 4000}, float64(base.BaseFreq))
	addKnob(knobDef{Name: "burst_probability", Min: 0, Max: 0.6}, float64(base.BurstProbability))
	addKnob(knobDef{Name: "turbulence_low", Min: 0, Max: 1}, float64(base.TurbulenceLow))
	addKnob(knobDef{Name: "turbulence_mid", Min: 0, Max: 1}, float64(base.TurbulenceMid))
	addKnob(knobDef{Name: "turbulence_high", Min: 0, Max: 1}, float64(base.TurbulenceHigh))
	addKnob(knobDef{Name: "roughness", Min: 0, Max: 1}, float64(base.Roughness))
	addKnob(knobDef{Name: "spectral_tilt", Min: -1, Max: 1}, float64(base.SpectralTilt))
	addKnob(knobDef{Name: "layers.hard_drops", Min: 0, Max: 1}, float64(base.Layers.HardDrops))
	addKnob(knobDef{Name: "layers.water_drops", Min: 0, Max: 1}, float64(base.Layers.WaterDrops))
	addKnob(knobDef{Name: "layers.turbulence", Min: 0, Max: 1}, float64(base.Layers.Turbulence))
	addKnob(knobDef{Name: "layers.bubbling", Min: 0, Max: 1}, float64(base.Layers.Bubbling))
	addKnob(knobDef{Name: "layers.roar", Min: 0, Max: 1}, float64(base.Layers.Roar))
	addKnob(knobDef{Name: "layers.rivulets", Min: 0, Max: 1}, float64(base.Layers.Rivulets))

	for i := range vals {
		vals[i] = fitcommon.Clamp(vals[i], defs[i].Min, defs[i].Max)
	}
	return defs, candidate{Vals: vals}
}

// applyCandidate maps knob values onto a copy of the base preset.
// Inverted min/max pairs are swapped rather than rejected so the
// optimizer never wastes an evaluation on an invalid point.
func applyCandidate(base water.Preset, defs []knobDef, c candidate) water.Preset {
	p := base
	for i, def := range defs {
		v := c.Vals[i]
		switch def.Name {
		case "event_rate_min":
			p.EventRateMin = float32(v)
		case "event_rate_max":
			p.EventRateMax = float32(v)
		case "drop_size_min":
			p.DropSizeMin = float32(v)
		case "drop_size_max":
			p.DropSizeMax = float32(v)
		case "hardness":
			p.Hardness = float32(v)
		case "decay_time":
			p.DecayTime = float32(v)
		case "base_freq":
			p.BaseFreq = float32(v)
		case "burst_probability":
			p.BurstProbability = float32(v)
		case "turbulence_low":
			p.TurbulenceLow = float32(v)
		case "turbulence_mid":
			p.TurbulenceMid = float32(v)
		case "turbulence_high":
			p.TurbulenceHigh = float32(v)
		case "roughness":
			p.Roughness = float32(v)
		case "spectral_tilt":
			p.SpectralTilt = float32(v)
		case "layers.hard_drops":
			p.Layers.HardDrops = float32(v)
		case "layers.water_drops":
			p.Layers.WaterDrops = float32(v)
		case "layers.turbulence":
			p.Layers.Turbulence = float32(v)
		case "layers.bubbling":
			p.Layers.Bubbling = float32(v)
		case "layers.roar":
			p.Layers.Roar = float32(v)
		case "layers.rivulets":
			p.Layers.Rivulets = float32(v)
		}
	}
	if p.EventRateMax < p.EventRateMin {
		p.EventRateMin, p.EventRateMax = p.EventRateMax, p.EventRateMin
	}
	if p.DropSizeMax < p.DropSizeMin {
		p.DropSizeMin, p.DropSizeMax = p.DropSizeMax, p.DropSizeMin
	}
	return p
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = fitcommon.Clamp(pos[i], 0, 1)
		}
		v := defs[i].Min + x*(defs[i].Max-defs[i].Min)
		if defs[i].IsInt {
			v = math.Round(v)
		}
		vals[i] = v
	}
	return candidate{Vals: vals}
}
