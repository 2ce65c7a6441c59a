package dsp

// Clip hard-limits its summed inputs to [-Ceiling, Ceiling].
type Clip struct {
	Ceiling float32
}

// NewClip builds a Clip at the given ceiling (must be positive to have
// any effect; zero or negative silences everything).
func NewClip(ceiling float32) *Clip {
	return &Clip{Ceiling: ceiling}
}

func (c *Clip) ProcessNextValue(inputs []float32) float32 {
	if c.Ceiling <= 0 {
		return 0
	}
	var sum float32
	for _, v := range inputs {
		sum += v
	}
	if sum > c.Ceiling {
		return c.Ceiling
	}
	if sum < -c.Ceiling {
		return -c.Ceiling
	}
	return sum
}
