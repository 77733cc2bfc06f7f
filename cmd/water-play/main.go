package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-water/preset"
	"github.com/cwbudde/algo-water/water"
)

// engineReader adapts the engine's Render loop to the io.Reader the audio
// backend pulls from: interleaved stereo float32, little endian.
type engineReader struct {
	eng *water.Engine
	buf []float32
}

func (r *engineReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	buf := r.buf[:need]
	r.eng.Render(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * 8, nil
}

func main() {
	presetFlag := flag.String("preset", "rain", "Built-in preset name or preset JSON file path")
	seed := flag.Int64("seed", 0, "RNG seed; 0 seeds from the clock")
	sampleRate := flag.Int("sample-rate", 48000, "Playback sample rate in Hz")
	duration := flag.Float64("duration", 0, "Stop after this many seconds; 0 plays until interrupted")
	intensity := flag.Float64("intensity", 0.8, "Master intensity 0..1")
	distance := flag.Float64("distance", 0.2, "Listener distance 0..1")
	space := flag.Float64("space", 0.25, "Reverb send 0..1")
	flag.Parse()

	eng := water.NewEngine(*sampleRate)

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	eng.Send(water.Command{Kind: water.CmdSetSeed, Seed: s})

	if strings.HasSuffix(*presetFlag, ".json") {
		p, err := preset.LoadJSON(*presetFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetFlag, err)
			os.Exit(1)
		}
		eng.Send(water.Command{Kind: water.CmdSetCustomPreset, Custom: &p})
	} else {
		if _, ok := water.PresetByName(*presetFlag); !ok {
			fmt.Fprintf(os.Stderr, "Unknown preset %q\n", *presetFlag)
			os.Exit(1)
		}
		eng.Send(water.Command{Kind: water.CmdSetPreset, Preset: *presetFlag})
	}

	in := float32(*intensity)
	di := float32(*distance)
	sp := float32(*space)
	eng.Send(water.Command{Kind: water.CmdSetParams, Params: water.ParamUpdate{
		Intensity: &in,
		Distance:  &di,
		Space:     &sp,
	}})
	eng.Send(water.Command{Kind: water.CmdStart})

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	<-ready

	player := ctx.NewPlayer(&engineReader{eng: eng})
	player.Play()
	defer player.Close()

	fmt.Printf("Playing %s at %d Hz (seed %d). Ctrl-C to stop.\n", *presetFlag, *sampleRate, s)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if *duration > 0 {
		select {
		case <-stop:
		case <-time.After(time.Duration(*duration * float64(time.Second))):
		}
	} else {
		<-stop
	}

	// Fade out before tearing the device down.
	eng.Send(water.Command{Kind: water.CmdStop})
	time.Sleep(150 * time.Millisecond)
}
