package main

import (
	"testing"

	"github.com/cwbudde/algo-water/water"
)

func knobNameSet(defs []knobDef) map[string]bool {
	m := make(map[string]bool, len(defs))
	for _, d := range defs {
		m[d.Name] = true
	}
	return m
}

func TestInitCandidateCoversPresetFields(t *testing.T) {
	base, _ := water.PresetByName("rain")
	defs, cand := initCandidate(base)

	if len(defs) != 19 {
		t.Fatalf("defs len = %d, want 19", len(defs))
	}
	if len(cand.Vals) != len(defs) {
		t.Fatalf("vals len = %d, want %d", len(cand.Vals), len(defs))
	}

	names := knobNameSet(defs)
	for _, name := range []string{
		"event_rate_min", "event_rate_max",
		"hardness", "decay_time", "base_freq",
		"turbulence_mid", "spectral_tilt",
		"layers.hard_drops", "layers.rivulets",
	} {
		if !names[name] {
			t.Fatalf("expected knob %q", name)
		}
	}

	// Initial values sit inside their knob ranges.
	for i, d := range defs {
		if cand.Vals[i] < d.Min || cand.Vals[i] > d.Max {
			t.Fatalf("knob %q initial value %v outside [%v,%v]", d.Name, cand.Vals[i], d.Min, d.Max)
		}
	}
}

func TestApplyCandidateMapsValues(t *testing.T) {
	base, _ := water.PresetByName("rain")
	defs, cand := initCandidate(base)

	for i, d := range defs {
		switch d.Name {
		case "hardness":
			cand.Vals[i] = 0.9
		case "base_freq":
			cand.Vals[i] = 2500
		case "decay_time":
			cand.Vals[i] = 0.3
		case "layers.roar":
			cand.Vals[i] = 0.75
		}
	}

	p := applyCandidate(base, defs, cand)
	if p.Hardness != 0.9 {
		t.Fatalf("Hardness = %v, want 0.9", p.Hardness)
	}
	if p.BaseFreq != 2500 {
		t.Fatalf("BaseFreq = %v, want 2500", p.BaseFreq)
	}
	if p.DecayTime != 0.3 {
		t.Fatalf("DecayTime = %v, want 0.3", p.DecayTime)
	}
	if p.Layers.Roar != 0.75 {
		t.Fatalf("Layers.Roar = %v, want 0.75", p.Layers.Roar)
	}
	// Untouched fields keep base values.
	if p.UseGlassPane != base.UseGlassPane || p.BurstCountMin != base.BurstCountMin {
		t.Fatal("non-knob fields changed")
	}
}

func TestApplyCandidateSwapsInvertedRanges(t *testing.T) {
	base, _ := water.PresetByName("rain")
	defs, cand := initCandidate(base)

	for i, d := range defs {
		switch d.Name {
		case "event_rate_min":
			cand.Vals[i] = 20
		case "event_rate_max":
			cand.Vals[i] = 5
		case "drop_size_min":
			cand.Vals[i] = 0.8
		case "drop_size_max":
			cand.Vals[i] = 0.3
		}
	}

	p := applyCandidate(base, defs, cand)
	if p.EventRateMin != 5 || p.EventRateMax != 20 {
		t.Fatalf("event rates = [%v,%v], want [5,20]", p.EventRateMin, p.EventRateMax)
	}
	if p.DropSizeMin != 0.3 || p.DropSizeMax != 0.8 {
		t.Fatalf("drop sizes = [%v,%v], want [0.3,0.8]", p.DropSizeMin, p.DropSizeMax)
	}
}

func TestFromNormalizedBounds(t *testing.T) {
	base, _ := water.PresetByName("rain")
	defs, _ := initCandidate(base)

	zeros := make([]float64, len(defs))
	ones := make([]float64, len(defs))
	over := make([]float64, len(defs))
	for i := range defs {
		ones[i] = 1
		over[i] = 3.5
	}

	lo := fromNormalized(zeros, defs)
	hi := fromNormalized(ones, defs)
	clamped := fromNormalized(over, defs)
	for i, d := range defs {
		if lo.Vals[i] != d.Min {
			t.Fatalf("knob %q at 0 = %v, want %v", d.Name, lo.Vals[i], d.Min)
		}
		if hi.Vals[i] != d.Max {
			t.Fatalf("knob %q at 1 = %v, want %v", d.Name, hi.Vals[i], d.Max)
		}
		if clamped.Vals[i] != d.Max {
			t.Fatalf("knob %q out-of-range input not clamped: %v", d.Name, clamped.Vals[i])
		}
	}
}

func TestFromNormalizedShortPosition(t *testing.T) {
	base, _ := water.PresetByName("rain")
	defs, _ := initCandidate(base)

	c := fromNormalized([]float64{0.5}, defs)
	if len(c.Vals) != len(defs) {
		t.Fatalf("vals len = %d, want %d", len(c.Vals), len(defs))
	}
	// Missing positions default to each knob's minimum.
	if c.Vals[1] != defs[1].Min {
		t.Fatalf("missing position = %v, want %v", c.Vals[1], defs[1].Min)
	}
}
