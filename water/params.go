package water

// Params holds the macro controls applied on top of the active preset.
// BaseFreq, DropSize, Hardness and Rate are multipliers against the
// preset's own values; the rest are absolute.
type Params struct {
	Intensity      float32 // 0..1 master level into the space bus
	Distance       float32 // 0..1, darkens and recedes the whole scene
	Space          float32 // 0..1 reverb send
	BaseFreq       float32 // multiplier on the preset base frequency
	DropSize       float32 // multiplier on the drawn drop size
	Hardness       float32 // multiplier on the preset hardness
	Rate           float32 // multiplier on event rates
	GlassThickness float32 // 0..1, lowers the struck-medium base frequency
}

// NewDefaultParams returns neutral macro settings.
func NewDefaultParams() Params {
	return Params{
		Intensity:      0.8,
		Distance:       0.2,
		Space:          0.25,
		BaseFreq:       1.0,
		DropSize:       1.0,
		Hardness:       1.0,
		Rate:           1.0,
		GlassThickness: 0.5,
	}
}

// ParamUpdate is a partial macro update; nil fields keep their value.
// Out-of-range fields are ignored individually.
type ParamUpdate struct {
	Intensity      *float32
	Distance       *float32
	Space          *float32
	BaseFreq       *float32
	DropSize       *float32
	Hardness       *float32
	Rate           *float32
	GlassThickness *float32
}

func applyField(dst *float32, src *float32, lo, hi float32) {
	if src == nil {
		return
	}
	if *src < lo || *src > hi || !isFinite(*src) {
		return
	}
	*dst = *src
}

// apply copies the valid fields into p.
func (u *ParamUpdate) apply(p *Params) {
	applyField(&p.Intensity, u.Intensity, 0, 1)
	applyField(&p.Distance, u.Distance, 0, 1)
	applyField(&p.Space, u.Space, 0, 1)
	applyField(&p.BaseFreq, u.BaseFreq, 0.25, 4)
	applyField(&p.DropSize, u.DropSize, 0.25, 4)
	applyField(&p.Hardness, u.Hardness, 0, 4)
	applyField(&p.Rate, u.Rate, 0, 16)
	applyField(&p.GlassThickness, u.GlassThickness, 0, 1)
}

// LayerLevels holds one 0..1 weight per layer. Used both for the mix
// (output gain) and the density (activity) of each layer.
type LayerLevels struct {
	HardDrops  float32
	WaterDrops float32
	Turbulence float32
	Bubbling   float32
	Roar       float32
	Rivulets   float32
}

func allLayerLevels(v float32) LayerLevels {
	return LayerLevels{
		HardDrops:  v,
		WaterDrops: v,
		Turbulence: v,
		Bubbling:   v,
		Roar:       v,
		Rivulets:   v,
	}
}

// LayerUpdate is a partial per-layer update; nil fields keep their value.
type LayerUpdate struct {
	HardDrops  *float32
	WaterDrops *float32
	Turbulence *float32
	Bubbling   *float32
	Roar       *float32
	Rivulets   *float32
}

func (u *LayerUpdate) apply(l *LayerLevels) {
	applyField(&l.HardDrops, u.HardDrops, 0, 1)
	applyField(&l.WaterDrops, u.WaterDrops, 0, 1)
	applyField(&l.Turbulence, u.Turbulence, 0, 1)
	applyField(&l.Bubbling, u.Bubbling, 0, 1)
	applyField(&l.Roar, u.Roar, 0, 1)
	applyField(&l.Rivulets, u.Rivulets, 0, 1)
}
