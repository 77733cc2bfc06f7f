package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-water/analysis"
	"github.com/cwbudde/algo-water/internal/fitcommon"
	"github.com/cwbudde/algo-water/preset"
	"github.com/cwbudde/algo-water/water"
)

func main() {
	referencePath := flag.String("reference", "", "Reference WAV path (required)")
	candidatePath := flag.String("candidate", "", "Candidate WAV path; if empty, render candidate from a preset")
	presetFlag := flag.String("preset", "rain", "Preset name or JSON path for the rendered candidate")
	sampleRate := flag.Int("sample-rate", 48000, "Analysis sample rate in Hz")
	duration := flag.Float64("duration", 8.0, "Rendered candidate duration in seconds")
	seed := flag.Int64("seed", 1, "RNG seed for the rendered candidate")
	writeCandidate := flag.String("write-candidate", "", "Optional path to write the rendered candidate WAV")
	jsonOut := flag.Bool("json", false, "Print metrics as JSON")
	flag.Parse()

	if *referencePath == "" {
		fmt.Fprintln(os.Stderr, "-reference is required")
		flag.Usage()
		os.Exit(1)
	}

	ref, refSR, err := fitcommon.ReadWAVMono(*referencePath)
	if err != nil {
		die("failed to read reference: %v", err)
	}
	ref, err = fitcommon.ResampleIfNeeded(ref, refSR, *sampleRate)
	if err != nil {
		die("failed to resample reference: %v", err)
	}

	var cand []float64
	if *candidatePath != "" {
		candRaw, candSR, err := fitcommon.ReadWAVMono(*candidatePath)
		if err != nil {
			die("failed to read candidate: %v", err)
		}
		cand, err = fitcommon.ResampleIfNeeded(candRaw, candSR, *sampleRate)
		if err != nil {
			die("failed to resample candidate: %v", err)
		}
	} else {
		stereo, err := renderCandidate(*presetFlag, *seed, *sampleRate, *duration)
		if err != nil {
			die("failed to render candidate: %v", err)
		}
		cand = fitcommon.StereoToMono64(stereo)
		if *writeCandidate != "" {
			if err := fitcommon.WriteStereoInterleavedWAV(*writeCandidate, stereo, *sampleRate); err != nil {
				die("failed to write candidate wav: %v", err)
			}
		}
	}

	metrics := analysis.Compare(ref, cand, *sampleRate)
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metrics); err != nil {
			die("json encode failed: %v", err)
		}
		return
	}

	fmt.Printf("Reference frames: %d\n", metrics.ReferenceFrames)
	fmt.Printf("Candidate frames: %d\n", metrics.CandidateFrames)
	fmt.Printf("Envelope lag:     %d hops (%.1f ms)\n", metrics.LagHops, 1000.0*float64(metrics.LagHops*256)/float64(*sampleRate))
	fmt.Println()
	fmt.Printf("Envelope RMSE:  %6.1f dB\n", metrics.EnvelopeRMSEDB)
	fmt.Printf("Band RMSE:      %6.1f dB\n", metrics.BandRMSEDB)
	fmt.Printf("Event rate:     ref %.1f/s  cand %.1f/s  (diff %.1f)\n", metrics.RefEventsPerS, metrics.CandEventsPerS, metrics.EventRateDiff)
	fmt.Println()
	fmt.Printf("Score:          %.4f  (0 best, 1 worst)\n", metrics.Score)
	fmt.Printf("Similarity:     %.2f%%\n", metrics.Similarity*100.0)
}

func renderCandidate(presetFlag string, seed int64, sampleRate int, duration float64) ([]float32, error) {
	eng := water.NewEngine(sampleRate)
	eng.Send(water.Command{Kind: water.CmdSetSeed, Seed: seed})

	if strings.HasSuffix(presetFlag, ".json") {
		p, err := preset.LoadJSON(presetFlag)
		if err != nil {
			return nil, err
		}
		eng.Send(water.Command{Kind: water.CmdSetCustomPreset, Custom: &p})
	} else {
		if _, ok := water.PresetByName(presetFlag); !ok {
			return nil, fmt.Errorf("unknown preset %q", presetFlag)
		}
		eng.Send(water.Command{Kind: water.CmdSetPreset, Preset: presetFlag})
	}
	eng.Send(water.Command{Kind: water.CmdStart})

	const blockSize = 128
	totalFrames := int(duration * float64(sampleRate))
	stereo := make([]float32, 0, totalFrames*2)
	block := make([]float32, blockSize*2)
	for rendered := 0; rendered < totalFrames; rendered += blockSize {
		frames := blockSize
		if rendered+frames > totalFrames {
			frames = totalFrames - rendered
		}
		eng.Render(block[:frames*2])
		stereo = append(stereo, block[:frames*2]...)
	}
	return stereo, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
