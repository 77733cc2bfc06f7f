package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-water/internal/fitcommon"
	"github.com/cwbudde/algo-water/preset"
	"github.com/cwbudde/algo-water/water"
)

func main() {
	presetFlag := flag.String("preset", "rain", "Built-in preset name or preset JSON file path")
	duration := flag.Float64("duration", 10.0, "Render duration in seconds (including the fade-out)")
	seed := flag.Int64("seed", 1, "RNG seed; same seed gives the same render")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	intensity := flag.Float64("intensity", 0.8, "Master intensity 0..1")
	distance := flag.Float64("distance", 0.2, "Listener distance 0..1")
	space := flag.Float64("space", 0.25, "Reverb send 0..1")
	rate := flag.Float64("rate", 1.0, "Event rate multiplier")
	output := flag.String("output", "water.wav", "Output WAV file path")
	listPresets := flag.Bool("list-presets", false, "List built-in preset names and exit")
	flag.Parse()

	if *listPresets {
		for _, name := range water.PresetNames() {
			fmt.Println(name)
		}
		return
	}
	if *duration <= 0 {
		fmt.Fprintf(os.Stderr, "duration must be > 0\n")
		os.Exit(1)
	}

	eng := water.NewEngine(*sampleRate)
	eng.Send(water.Command{Kind: water.CmdSetSeed, Seed: *seed})

	if strings.HasSuffix(*presetFlag, ".json") {
		p, err := preset.LoadJSON(*presetFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetFlag, err)
			os.Exit(1)
		}
		eng.Send(water.Command{Kind: water.CmdSetCustomPreset, Custom: &p})
	} else {
		if _, ok := water.PresetByName(*presetFlag); !ok {
			fmt.Fprintf(os.Stderr, "Unknown preset %q (use -list-presets)\n", *presetFlag)
			os.Exit(1)
		}
		eng.Send(water.Command{Kind: water.CmdSetPreset, Preset: *presetFlag})
	}

	in := float32(*intensity)
	di := float32(*distance)
	sp := float32(*space)
	ra := float32(*rate)
	eng.Send(water.Command{Kind: water.CmdSetParams, Params: water.ParamUpdate{
		Intensity: &in,
		Distance:  &di,
		Space:     &sp,
		Rate:      &ra,
	}})
	eng.Send(water.Command{Kind: water.CmdStart})

	fmt.Printf("Rendering %s for %.2f seconds at %d Hz (seed %d)...\n", *presetFlag, *duration, *sampleRate, *seed)

	const blockSize = 128
	totalFrames := int(*duration * float64(*sampleRate))
	// Stop a little before the end so the fade-out completes in-buffer.
	stopAtFrame := totalFrames - int(0.05*float64(*sampleRate))
	if stopAtFrame < 0 {
		stopAtFrame = 0
	}

	samples := make([]float32, 0, totalFrames*2)
	block := make([]float32, blockSize*2)
	stopped := false
	for rendered := 0; rendered < totalFrames; rendered += blockSize {
		if !stopped && rendered >= stopAtFrame {
			eng.Send(water.Command{Kind: water.CmdStop})
			stopped = true
		}
		frames := blockSize
		if rendered+frames > totalFrames {
			frames = totalFrames - rendered
		}
		eng.Render(block[:frames*2])
		samples = append(samples, block[:frames*2]...)
	}

	reply := make(chan water.Stats, 1)
	eng.Send(water.Command{Kind: water.CmdStats, Reply: reply})
	eng.Render(block[:2])
	select {
	case s := <-reply:
		fmt.Printf("Events/sec: %.1f, voices still active: %d\n", s.EventsPerSec, s.ActiveVoices)
	default:
	}

	if err := fitcommon.WriteStereoInterleavedWAV(*output, samples, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames, rms %.4f)\n", *output, totalFrames, fitcommon.StereoRMS(samples))
}
