package water

import "math/rand"

// eventScheduler decides when the next discrete event (droplet or splash)
// fires. It counts down in samples; the next interval is drawn from the
// base rate, shaped by a non-uniform jitter distribution, floored at a
// minimum spacing, and occasionally replaced by a tight burst.
type eventScheduler struct {
	sampleRate int

	rateMin   float32 // events per second
	rateMax   float32
	rateScale float32

	burstProbability float32
	burstCountMin    int
	burstCountMax    int

	minSpacing int

	samplesUntilNext int
	burstRemaining   int
}

func (s *eventScheduler) init(sampleRate int) {
	if sampleRate < 8000 {
		sampleRate = 8000
	}
	s.sampleRate = sampleRate
	s.rateScale = 1
	s.minSpacing = sampleRate / 100
	s.samplesUntilNext = sampleRate / 10
	s.burstRemaining = 0
}

// configure adopts a preset's rate and burst settings. A pending countdown
// is clamped rather than reset so preset switches do not cause a silent gap
// or an event pile-up.
func (s *eventScheduler) configure(rateMin, rateMax, burstProbability float32, burstCountMin, burstCountMax int, minSpacingSeconds float32) {
	if rateMin < 0 {
		rateMin = 0
	}
	if rateMax < rateMin {
		rateMax = rateMin
	}
	s.rateMin = rateMin
	s.rateMax = rateMax
	s.burstProbability = clampFloat32(burstProbability, 0, 1)
	if burstCountMin < 2 {
		burstCountMin = 2
	}
	if burstCountMax < burstCountMin {
		burstCountMax = burstCountMin
	}
	s.burstCountMin = burstCountMin
	s.burstCountMax = burstCountMax
	s.minSpacing = maxInt(1, int(minSpacingSeconds*float32(s.sampleRate)))
	// Clamp against the longest interval this configuration can draw
	// (slowest rate times the widest jitter factor), so re-sending the
	// active preset never touches a pending countdown.
	minRate := s.rateMin * s.rateScale
	if minRate > 0.01 {
		limit := maxInt(s.minSpacing, int(float32(s.sampleRate)/minRate*4.5)+1)
		if s.samplesUntilNext > limit {
			s.samplesUntilNext = limit
		}
	}
}

// setRateScale scales the event rate (density x macro rate). Zero or
// negative stops new events entirely.
func (s *eventScheduler) setRateScale(scale float32) {
	s.rateScale = scale
}

// tick advances one sample and reports whether an event fires now.
func (s *eventScheduler) tick(rng *rand.Rand) bool {
	if s.rateScale <= 0 || s.rateMax <= 0 {
		return false
	}
	if s.samplesUntilNext > 0 {
		s.samplesUntilNext--
		return false
	}
	s.scheduleNext(rng)
	return true
}

func (s *eventScheduler) scheduleNext(rng *rand.Rand) {
	if s.burstRemaining > 0 {
		s.burstRemaining--
		s.samplesUntilNext = maxInt(s.minSpacing, s.burstInterval(rng))
		return
	}
	if s.burstProbability > 0 && rng.Float32() < s.burstProbability {
		n := s.burstCountMin
		if s.burstCountMax > s.burstCountMin {
			n += rng.Intn(s.burstCountMax - s.burstCountMin + 1)
		}
		// This event counts as the first of the burst.
		s.burstRemaining = n - 1
		s.samplesUntilNext = maxInt(s.minSpacing, s.burstInterval(rng))
		return
	}

	rate := (s.rateMin + rng.Float32()*(s.rateMax-s.rateMin)) * s.rateScale
	if rate < 0.01 {
		rate = 0.01
	}
	base := float32(s.sampleRate) / rate
	s.samplesUntilNext = maxInt(s.minSpacing, int(base*jitterFactor(rng)))
}

// burstInterval draws a tight 20-60 ms spacing for events within a burst.
func (s *eventScheduler) burstInterval(rng *rand.Rand) int {
	return int((0.020 + 0.040*rng.Float32()) * float32(s.sampleRate))
}

// jitterFactor draws a non-uniform interval multiplier: mostly near 1,
// sometimes a quick repeat, occasionally a long pause. Uniform jitter
// sounds mechanical; real drips cluster and stall.
func jitterFactor(rng *rand.Rand) float32 {
	r := rng.Float32()
	switch {
	case r < 0.20:
		return 0.25 + 0.25*rng.Float32()
	case r < 0.85:
		return 0.75 + 0.50*rng.Float32()
	default:
		return 2.0 + 2.5*rng.Float32()
	}
}
