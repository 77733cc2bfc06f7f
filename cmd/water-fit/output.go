package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-water/analysis"
	"github.com/cwbudde/algo-water/preset"
	"github.com/cwbudde/algo-water/water"
)

type fitReport struct {
	Reference     string             `json:"reference"`
	BasePreset    string             `json:"base_preset"`
	SampleRate    int                `json:"sample_rate"`
	RenderSeconds float64            `json:"render_seconds"`
	Seed          int64              `json:"seed"`
	Variant       string             `json:"variant"`
	Evals         int                `json:"evals"`
	ElapsedSec    float64            `json:"elapsed_sec"`
	Metrics       analysis.Metrics   `json:"metrics"`
	Knobs         map[string]float64 `json:"knobs"`
	TopCandidates []topCandidate     `json:"top_candidates"`
}

func writeOutputs(cfg *optimizationConfig, result *optimizationResult) error {
	best := applyCandidate(cfg.basePreset, cfg.defs, result.best)
	if err := writePresetJSON(cfg.outputPreset, cfg.baseName, best); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}

	knobs := make(map[string]float64, len(cfg.defs))
	for i, d := range cfg.defs {
		knobs[d.Name] = result.best.Vals[i]
	}
	report := fitReport{
		Reference:     cfg.referencePath,
		BasePreset:    cfg.baseName,
		SampleRate:    cfg.sampleRate,
		RenderSeconds: cfg.renderSeconds,
		Seed:          cfg.seed,
		Variant:       cfg.mayflyVariant,
		Evals:         result.evals,
		ElapsedSec:    result.elapsed,
		Metrics:       result.bestEval.metrics,
		Knobs:         knobs,
		TopCandidates: result.top,
	}
	if err := writeJSON(cfg.reportPath, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writePresetJSON(path, base string, p water.Preset) error {
	return writeJSON(path, preset.FileFromPreset(base, p))
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
