package core

// Power returns the instantaneous draw in watts at an operating point:
// P = coeff × freq³ × cores. Pure and monotone in both dimensions.
func (p Platform) Power(c Config) float64 {
	return p.PowerCoeff * c.Freq * c.Freq * c.Freq * float64(c.Cores)
}

// EnergyPerTick returns the joules consumed by running one full tick at
// an operating point.
func (p Platform) EnergyPerTick(c Config) float64 {
	return p.Power(c) * p.TickSeconds
}

// CapacityPerTick returns the work units servable in one tick at an
// operating point: freq × PerfFactor × cores.
func (p Platform) CapacityPerTick(c Config) float64 {
	return c.Freq * p.PerfFactor * float64(c.Cores)
}
