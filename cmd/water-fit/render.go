package main

import (
	"github.com/cwbudde/algo-water/internal/fitcommon"
	"github.com/cwbudde/algo-water/water"
)

// renderCandidate renders a preset deterministically and folds the result
// to mono for the texture comparison. The same seed is used for every
// candidate so the optimizer sees parameter differences, not RNG noise.
func renderCandidate(p water.Preset, seed int64, sampleRate int, seconds float64) []float64 {
	eng := water.NewEngine(sampleRate)
	eng.Send(water.Command{Kind: water.CmdSetSeed, Seed: seed})
	eng.Send(water.Command{Kind: water.CmdSetCustomPreset, Custom: &p})
	eng.Send(water.Command{Kind: water.CmdStart})

	const blockSize = 512
	totalFrames := int(seconds * float64(sampleRate))
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
	return fitcommon.StereoToMono64(stereo)
}
