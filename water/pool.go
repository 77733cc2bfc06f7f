package water

import "math/rand"

const (
	maxDropletVoices   = 24
	maxWaterDropVoices = 12
)

// dropletPool is a fixed arena of droplet voices. Triggers prefer a free
// slot; when all are busy the voice with the least remaining energy is
// stolen. No allocation after init.
type dropletPool struct {
	voices [maxDropletVoices]DropletVoice
	steals uint64
}

func (p *dropletPool) init(sampleRate int) {
	for i := range p.voices {
		p.voices[i].Init(sampleRate)
	}
	p.steals = 0
}

func (p *dropletPool) trigger(tp DropletTrigger, rng *rand.Rand) {
	for i := range p.voices {
		if !p.voices[i].Active() {
			p.voices[i].Trigger(tp, rng)
			return
		}
	}
	best := 0
	bestEnergy := p.voices[0].Energy()
	for i := 1; i < len(p.voices); i++ {
		if e := p.voices[i].Energy(); e < bestEnergy {
			bestEnergy = e
			best = i
		}
	}
	p.steals++
	p.voices[best].Trigger(tp, rng)
}

func (p *dropletPool) process(rng *rand.Rand) (float32, float32) {
	var l, r float32
	for i := range p.voices {
		vl, vr := p.voices[i].Process(rng)
		l += vl
		r += vr
	}
	return l, r
}

func (p *dropletPool) activeCount() int {
	n := 0
	for i := range p.voices {
		if p.voices[i].Active() {
			n++
		}
	}
	return n
}

// waterDropPool mirrors dropletPool for water-into-water voices.
type waterDropPool struct {
	voices [maxWaterDropVoices]WaterDropVoice
	steals uint64
}

func (p *waterDropPool) init(sampleRate int) {
	for i := range p.voices {
		p.voices[i].Init(sampleRate)
	}
	p.steals = 0
}

func (p *waterDropPool) trigger(tp WaterDropTrigger, rng *rand.Rand) {
	for i := range p.voices {
		if !p.voices[i].Active() {
			p.voices[i].Trigger(tp, rng)
			return
		}
	}
	best := 0
	bestEnergy := p.voices[0].Energy()
	for i := 1; i < len(p.voices); i++ {
		if e := p.voices[i].Energy(); e < bestEnergy {
			bestEnergy = e
			best = i
		}
	}
	p.steals++
	p.voices[best].Trigger(tp, rng)
}

func (p *waterDropPool) process(rng *rand.Rand) (float32, float32) {
	var l, r float32
	for i := range p.voices {
		vl, vr := p.voices[i].Process(rng)
		l += vl
		r += vr
	}
	return l, r
}

func (p *waterDropPool) activeCount() int {
	n := 0
	for i := range p.voices {
		if p.voices[i].Active() {
			n++
		}
	}
	return n
}
