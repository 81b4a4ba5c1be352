package core

// Stepper is a per-tick configuration policy. The two variants share
// the same execution path in the driver; they differ only in how they
// pick the operating point for the tick.
type Stepper interface {
	Name() string
	ChooseConfig(ready []*Task, now Tick) Config
}

// DeadlineSafeStepper is the EAPSS policy: scan the precomputed
// candidate list cheapest-first and take the first feasible operating
// point; when nothing passes, fall back to maximum performance so
// deadline safety always takes precedence over energy savings.
type DeadlineSafeStepper struct {
	platform   Platform
	candidates []Config
	maxCfg     Config
}

func NewDeadlineSafeStepper(p Platform) *DeadlineSafeStepper {
	return &DeadlineSafeStepper{
		platform:   p,
		candidates: p.Candidates(),
		maxCfg:     p.MaxConfig(),
	}
}

func (s *DeadlineSafeStepper) Name() string { return "deadline-safe" }

func (s *DeadlineSafeStepper) ChooseConfig(ready []*Task, now Tick) Config {
	for _, cfg := range s.candidates {
		if s.platform.Feasible(ready, now, cfg) {
			return cfg
		}
	}
	// No feasible configuration: run flat out and let the driver flag
	// whatever still misses.
	return s.maxCfg
}

// PerformanceFirstStepper is the baseline: maximum frequency and all
// cores every tick, no feasibility search. It anchors the energy
// comparison and is the capacity the fallback above degrades to.
type PerformanceFirstStepper struct {
	maxCfg Config
}

func NewPerformanceFirstStepper(p Platform) *PerformanceFirstStepper {
	return &PerformanceFirstStepper{maxCfg: p.MaxConfig()}
}

func (s *PerformanceFirstStepper) Name() string { return "performance-first" }

func (s *PerformanceFirstStepper) ChooseConfig(ready []*Task, now Tick) Config {
	return s.maxCfg
}
