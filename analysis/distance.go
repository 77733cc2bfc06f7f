package analysis

import (
	"math"
	"sort"

	algofft "github.com/cwbudde/algo-fft"
)

// Metrics contains distance and similarity measurements between two
// water-texture recordings. Stochastic textures are never compared
// sample-by-sample; the metrics work on envelope statistics, octave-band
// spectra and event density instead.
type Metrics struct {
	SampleRate int `json:"sample_rate"`

	ReferenceFrames int `json:"reference_frames"`
	CandidateFrames int `json:"candidate_frames"`
	LagHops         int `json:"lag_hops"`

	EnvelopeRMSEDB float64 `json:"envelope_rmse_db"`
	BandRMSEDB     float64 `json:"band_rmse_db"`

	RefEventsPerS  float64 `json:"ref_events_per_s"`
	CandEventsPerS float64 `json:"cand_events_per_s"`
	EventRateDiff  float64 `json:"event_rate_diff"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

const (
	envFrame = 1024
	envHop   = 256
)

// bandCenters are the octave band centers used for the spectral metric.
var bandCenters = []float64{63, 125, 250, 500, 1000, 2000, 4000, 8000}

// Compare returns texture distance metrics and a combined score in [0,1]
// (0 = identical). Similarity is exp(-4*score).
func Compare(reference []float64, candidate []float64, sampleRate int) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if sampleRate <= 0 || len(reference) < 4*envFrame || len(candidate) < 4*envFrame {
		m.Score = 1.0
		m.Similarity = 0.0
		return m
	}

	ref := normalizeRMS(reference, 0.1)
	cand := normalizeRMS(candidate, 0.1)

	refEnv := rmsEnvelope(ref, envFrame, envHop)
	candEnv := rmsEnvelope(cand, envFrame, envHop)

	lag := envelopeLag(refEnv, candEnv, sampleRate)
	m.LagHops = lag
	refEnv, candEnv = alignByLag(refEnv, candEnv, lag)

	n := len(refEnv)
	if len(candEnv) < n {
		n = len(candEnv)
	}
	if n < 8 {
		m.Score = 1.0
		m.Similarity = 0.0
		return m
	}
	refEnv = refEnv[:n]
	candEnv = candEnv[:n]

	// Envelope statistics in dB. Sorting both removes the remaining
	// event-timing mismatch and compares level distributions instead.
	m.EnvelopeRMSEDB = sortedEnvelopeRMSEDB(refEnv, candEnv)

	m.BandRMSEDB = bandRMSEDB(ref, cand, sampleRate)

	hopSec := float64(envHop) / float64(sampleRate)
	m.RefEventsPerS = eventRate(refEnv, hopSec)
	m.CandEventsPerS = eventRate(candEnv, hopSec)
	m.EventRateDiff = math.Abs(m.RefEventsPerS - m.CandEventsPerS)

	envNorm := clamp01(m.EnvelopeRMSEDB / 24.0)
	bandNorm := clamp01(m.BandRMSEDB / 24.0)
	rateNorm := clamp01(m.EventRateDiff / 20.0)
	m.Score = clamp01(0.35*envNorm + 0.35*bandNorm + 0.30*rateNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m
}

// envelopeLag finds the hop offset that best aligns the two envelopes,
// using FFT cross-correlation (convolution with the reversed candidate).
func envelopeLag(refEnv, candEnv []float64, sampleRate int) int {
	if len(refEnv) < 2 || len(candEnv) < 2 {
		return 0
	}
	a := make([]float32, len(refEnv))
	for i, v := range refEnv {
		a[i] = float32(v)
	}
	b := make([]float32, len(candEnv))
	for i, v := range candEnv {
		b[len(candEnv)-1-i] = float32(v)
	}
	corr := make([]float32, len(a)+len(b)-1)
	if err := algofft.ConvolveReal(corr, a, b); err != nil {
		return 0
	}

	maxLag := sampleRate / envHop // about one second either way
	center := len(candEnv) - 1
	bestLag := 0
	best := float32(math.Inf(-1))
	for lag := -maxLag; lag <= maxLag; lag++ {
		idx := center + lag
		if idx < 0 || idx >= len(corr) {
			continue
		}
		if corr[idx] > best {
			best = corr[idx]
			bestLag = lag
		}
	}
	return bestLag
}

func alignByLag(ref, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	o := -lag
	if o >= len(cand) {
		return nil, nil
	}
	return ref, cand[o:]
}

// sortedEnvelopeRMSEDB compares the level distributions of two envelopes.
func sortedEnvelopeRMSEDB(a, b []float64) float64 {
	as := append([]float64(nil), a...)
	bs := append([]float64(nil), b...)
	sort.Float64s(as)
	sort.Float64s(bs)

	var sum float64
	for i := range as {
		d := linToDB(as[i]) - linToDB(bs[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(as)))
}

// bandRMSEDB compares average octave-band power, estimated with direct
// frequency-domain probes over several evenly spaced windows.
func bandRMSEDB(a, b []float64, sampleRate int) float64 {
	const window = 4096
	const probes = 8

	pa := bandPowers(a, sampleRate, window, probes)
	pb := bandPowers(b, sampleRate, window, probes)
	if pa == nil || pb == nil {
		return 0
	}
	var sum float64
	for i := range pa {
		d := linToDB(math.Sqrt(pa[i])) - linToDB(math.Sqrt(pb[i]))
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pa)))
}

func bandPowers(x []float64, sampleRate, window, probes int) []float64 {
	if len(x) < window {
		return nil
	}
	stride := (len(x) - window) / probes
	if stride < 1 {
		stride = 1
		probes = len(x) - window
		if probes > 8 {
			probes = 8
		}
		if probes < 1 {
			probes = 1
		}
	}
	powers := make([]float64, len(bandCenters))
	for p := 0; p < probes; p++ {
		frame := x[p*stride : p*stride+window]
		for bi, f := range bandCenters {
			if f >= float64(sampleRate)/2 {
				continue
			}
			mag := magAtFreq(frame, sampleRate, f)
			powers[bi] += mag * mag
		}
	}
	for i := range powers {
		powers[i] /= float64(probes)
	}
	return powers
}

// magAtFreq evaluates one Hann-windowed DFT probe at an arbitrary
// frequency.
func magAtFreq(frame []float64, sampleRate int, freq float64) float64 {
	n := len(frame)
	w := 2 * math.Pi * freq / float64(sampleRate)
	var re, im float64
	for i := 0; i < n; i++ {
		win := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		v := frame[i] * win
		re += v * math.Cos(w*float64(i))
		im -= v * math.Sin(w*float64(i))
	}
	return math.Hypot(re, im) * 2 / float64(n)
}

// eventRate counts upward envelope crossings of a threshold 6 dB above
// the median level, per second.
func eventRate(env []float64, hopSec float64) float64 {
	if len(env) < 4 || hopSec <= 0 {
		return 0
	}
	sorted := append([]float64(nil), env...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	threshold := median * 2.0 // +6 dB

	events := 0
	above := env[0] > threshold
	for _, v := range env[1:] {
		now := v > threshold
		if now && !above {
			events++
		}
		above = now
	}
	return float64(events) / (float64(len(env)) * hopSec)
}

func rmsEnvelope(x []float64, frame, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms1(x[start : start+frame])
	}
	return out
}

func normalizeRMS(x []float64, target float64) []float64 {
	out := append([]float64(nil), x...)
	r := rms1(x)
	if r <= 1e-12 {
		return out
	}
	g := target / r
	for i := range out {
		out[i] *= g
	}
	return out
}

func rms1(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

