package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-water/internal/fitcommon"
	"github.com/cwbudde/algo-water/water"
)

func main() {
	reference := flag.String("reference", "", "Reference WAV file to match (required)")
	base := flag.String("base", "rain", "Built-in preset used as the starting point")
	duration := flag.Float64("duration", 8.0, "Candidate render duration in seconds")
	sampleRate := flag.Int("sample-rate", 0, "Working sample rate; 0 uses the reference file's rate")
	seed := flag.Int64("seed", 1, "RNG seed shared by all candidate renders")
	timeBudget := flag.Float64("time-budget", 120.0, "Wall-clock budget in seconds")
	maxEvals := flag.Int("max-evals", 600, "Maximum number of candidate evaluations")
	variant := flag.String("variant", "desma", "Mayfly variant: ma, desma, olce, eobbma, gsasma, mpma, aoblmoa")
	pop := flag.Int("pop", 12, "Mayfly population size per round")
	roundEvals := flag.Int("round-evals", 48, "Evaluation budget per mayfly round")
	workersFlag := flag.String("workers", "auto", "Parallel workers: auto, or a positive count")
	topK := flag.Int("top-k", 5, "Number of top candidates kept in the report")
	outputPreset := flag.String("output-preset", "fitted.json", "Output preset JSON path")
	reportPath := flag.String("report", "fit-report.json", "Output report JSON path")
	reportEvery := flag.Int("report-every", 25, "Print progress every N evaluations; 0 disables")
	flag.Parse()

	if *reference == "" {
		fmt.Fprintln(os.Stderr, "-reference is required")
		flag.Usage()
		os.Exit(1)
	}
	basePreset, ok := water.PresetByName(*base)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown base preset %q\n", *base)
		os.Exit(1)
	}
	workers, err := fitcommon.ParseWorkers(*workersFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -workers: %v\n", err)
		os.Exit(1)
	}

	mono, fileRate, err := fitcommon.ReadWAVMono(*reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading reference: %v\n", err)
		os.Exit(1)
	}
	rate := *sampleRate
	if rate <= 0 {
		rate = fileRate
	}
	mono, err = fitcommon.ResampleIfNeeded(mono, fileRate, rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resampling reference: %v\n", err)
		os.Exit(1)
	}
	maxFrames := int(*duration * float64(rate))
	if len(mono) > maxFrames {
		mono = mono[:maxFrames]
	}
	if len(mono) < rate {
		fmt.Fprintf(os.Stderr, "Reference too short: need at least 1 second, got %.2fs\n", float64(len(mono))/float64(rate))
		os.Exit(1)
	}

	defs, init := initCandidate(basePreset)
	cfg := &optimizationConfig{
		reference:        mono,
		referencePath:    *reference,
		basePreset:       basePreset,
		baseName:         *base,
		defs:             defs,
		initCandidate:    init,
		sampleRate:       rate,
		seed:             *seed,
		renderSeconds:    float64(len(mono)) / float64(rate),
		timeBudget:       *timeBudget,
		maxEvals:         *maxEvals,
		reportEvery:      *reportEvery,
		mayflyVariant:    *variant,
		mayflyPop:        *pop,
		mayflyRoundEvals: *roundEvals,
		workers:          workers,
		topK:             *topK,
		outputPreset:     *outputPreset,
		reportPath:       *reportPath,
	}

	fmt.Printf("Fitting %s (%.1fs at %d Hz) from base %q, %d knobs, %d workers\n",
		*reference, cfg.renderSeconds, rate, *base, len(defs), workers)

	result, err := runOptimization(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Optimization failed: %v\n", err)
		os.Exit(1)
	}
	if err := writeOutputs(cfg, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing outputs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Done: %d evals in %.1fs, score=%.4f similarity=%.2f%%\n",
		result.evals, result.elapsed, result.bestEval.metrics.Score, result.bestEval.metrics.Similarity*100.0)
	fmt.Printf("Wrote %s and %s\n", *outputPreset, *reportPath)
}
