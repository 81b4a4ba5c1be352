package core

import (
	"fmt"
	"sort"
)

// Config is one DVFS operating point: a frequency level paired with a
// number of active cores. Configs carry no state of their own; they are
// compared only through the platform's power and capacity functions.
type Config struct {
	Freq  float64
	Cores int
}

func (c Config) String() string {
	return fmt.Sprintf("f=%.2f cores=%d", c.Freq, c.Cores)
}

// Platform describes the simulated device: its DVFS frequency levels,
// core count, and the constants of the power and capacity models.
type Platform struct {
	FreqLevels  []float64 // ordered low to max, as fractions of nominal
	MaxCores    int
	PerfFactor  float64 // work units per tick per core at freq 1.0
	PowerCoeff  float64 // device constant of the cubic power law, watts
	TickSeconds float64
}

// DefaultPlatform mirrors a small mobile SoC: four frequency steps and
// four cores, one tick = 50ms.
func DefaultPlatform() Platform {
	return Platform{
		FreqLevels:  []float64{0.4, 0.6, 0.8, 1.0},
		MaxCores:    4,
		PerfFactor:  2000,
		PowerCoeff:  1.2,
		TickSeconds: 0.05,
	}
}

// Validate checks the platform constants once, up front. A malformed
// platform is a programming error; runs never re-validate per tick.
func (p Platform) Validate() error {
	if len(p.FreqLevels) == 0 {
		return fmt.Errorf("platform: no frequency levels")
	}
	for i, f := range p.FreqLevels {
		if f <= 0 {
			return fmt.Errorf("platform: frequency level %d is %g, must be > 0", i, f)
		}
		if i > 0 && f <= p.FreqLevels[i-1] {
			return fmt.Errorf("platform: frequency levels not strictly increasing at %d", i)
		}
	}
	if p.MaxCores < 1 {
		return fmt.Errorf("platform: max cores %d < 1", p.MaxCores)
	}
	if p.PerfFactor <= 0 {
		return fmt.Errorf("platform: perf factor %g <= 0", p.PerfFactor)
	}
	if p.PowerCoeff <= 0 {
		return fmt.Errorf("platform: power coefficient %g <= 0", p.PowerCoeff)
	}
	if p.TickSeconds <= 0 {
		return fmt.Errorf("platform: tick duration %g <= 0", p.TickSeconds)
	}
	return nil
}

// MaxConfig is the maximum-performance operating point, the guaranteed
// fallback when no configuration is feasible.
func (p Platform) MaxConfig() Config {
	return Config{Freq: p.FreqLevels[len(p.FreqLevels)-1], Cores: p.MaxCores}
}

// Candidates enumerates every (frequency, cores) pair, sorted by
// ascending power so a feasibility search is a linear scan with early
// exit on the first hit. Ties prefer fewer cores, then lower frequency.
func (p Platform) Candidates() []Config {
	cands := make([]Config, 0, len(p.FreqLevels)*p.MaxCores)
	for _, f := range p.FreqLevels {
		for n := 1; n <= p.MaxCores; n++ {
			cands = append(cands, Config{Freq: f, Cores: n})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		pi, pj := p.Power(cands[i]), p.Power(cands[j])
		if pi != pj {
			return pi < pj
		}
		if cands[i].Cores != cands[j].Cores {
			return cands[i].Cores < cands[j].Cores
		}
		return cands[i].Freq < cands[j].Freq
	})
	return cands
}
