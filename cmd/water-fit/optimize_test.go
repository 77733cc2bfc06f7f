package main

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-water/analysis"
	"github.com/cwbudde/algo-water/water"
)

func TestNewMayflyConfig(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{variant: "ma"},
		{variant: "desma"},
		{variant: "olce"},
		{variant: "eobbma"},
		{variant: "gsasma"},
		{variant: "mpma"},
		{variant: "aoblmoa"},
		{variant: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			cfg, err := newMayflyConfig(tt.variant, 10, 5, 20)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("newMayflyConfig(%q) expected error", tt.variant)
				}
				return
			}
			if err != nil {
				t.Fatalf("newMayflyConfig(%q) unexpected error: %v", tt.variant, err)
			}
			if cfg.ProblemSize != 5 {
				t.Fatalf("ProblemSize = %d, want 5", cfg.ProblemSize)
			}
			if cfg.NPop != 10 {
				t.Fatalf("NPop = %d, want 10", cfg.NPop)
			}
			if cfg.MaxIterations != 20 {
				t.Fatalf("MaxIterations = %d, want 20", cfg.MaxIterations)
			}
		})
	}
}

func TestReserveEvalCapsAtMax(t *testing.T) {
	const (
		maxEvals = 47
		workers  = 8
	)

	var evals int64
	var granted int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := reserveEval(&evals, maxEvals); !ok {
					return
				}
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&granted); got != maxEvals {
		t.Fatalf("granted evaluations = %d, want %d", got, maxEvals)
	}
	if got := atomic.LoadInt64(&evals); got != maxEvals {
		t.Fatalf("eval counter = %d, want %d", got, maxEvals)
	}
}

func TestCloneCandidateCopiesSlice(t *testing.T) {
	orig := candidate{Vals: []float64{1.0, 2.0, 3.0}}
	cloned := cloneCandidate(orig)
	cloned.Vals[0] = 99.0

	if orig.Vals[0] != 1.0 {
		t.Fatalf("clone mutated original: got %.1f want 1.0", orig.Vals[0])
	}
}

func TestUpdateTopCandidatesSortsAndTruncates(t *testing.T) {
	base, _ := water.PresetByName("rain")
	defs, cand := initCandidate(base)

	var top []topCandidate
	scores := []float64{0.5, 0.2, 0.8, 0.1, 0.4}
	for i, s := range scores {
		top = updateTopCandidates(top, 3, i+1, analysis.Metrics{Score: s}, defs, cand)
	}

	if len(top) != 3 {
		t.Fatalf("top len = %d, want 3", len(top))
	}
	if top[0].Score != 0.1 || top[1].Score != 0.2 || top[2].Score != 0.4 {
		t.Fatalf("top scores = [%v %v %v], want [0.1 0.2 0.4]", top[0].Score, top[1].Score, top[2].Score)
	}
	if len(top[0].Knobs) != len(defs) {
		t.Fatalf("knob map len = %d, want %d", len(top[0].Knobs), len(defs))
	}
}

func TestEvaluateCandidateDeterministic(t *testing.T) {
	base, _ := water.PresetByName("drizzle")
	defs, cand := initCandidate(base)

	ref := renderCandidate(base, 7, 16000, 2.0)
	cfg := &optimizationConfig{
		reference:     ref,
		basePreset:    base,
		defs:          defs,
		sampleRate:    16000,
		seed:          7,
		renderSeconds: 2.0,
	}

	a := evaluateCandidate(cfg, cand)
	b := evaluateCandidate(cfg, cand)
	if a.metrics.Score != b.metrics.Score {
		t.Fatalf("same candidate scored differently: %v vs %v", a.metrics.Score, b.metrics.Score)
	}
	// The initial candidate reproduces the base preset, so the self-match
	// score is near zero.
	if a.metrics.Score > 0.05 {
		t.Fatalf("self-match score = %v, want near 0", a.metrics.Score)
	}
}
