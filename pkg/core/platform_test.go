package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPowerFollowsCubicLaw(t *testing.T) {
	p := DefaultPlatform()
	for _, f := range p.FreqLevels {
		for n := 1; n <= p.MaxCores; n++ {
			cfg := Config{Freq: f, Cores: n}
			require.Equal(t, p.PowerCoeff*f*f*f*float64(n), p.Power(cfg))
			require.Equal(t, p.Power(cfg)*p.TickSeconds, p.EnergyPerTick(cfg))
			require.Equal(t, f*p.PerfFactor*float64(n), p.CapacityPerTick(cfg))
		}
	}
}

func TestPowerMonotoneInBothDimensions(t *testing.T) {
	p := DefaultPlatform()
	for i := 1; i < len(p.FreqLevels); i++ {
		require.Greater(t,
			p.Power(Config{Freq: p.FreqLevels[i], Cores: 1}),
			p.Power(Config{Freq: p.FreqLevels[i-1], Cores: 1}))
	}
	for n := 2; n <= p.MaxCores; n++ {
		require.Greater(t,
			p.Power(Config{Freq: p.FreqLevels[0], Cores: n}),
			p.Power(Config{Freq: p.FreqLevels[0], Cores: n - 1}))
	}
}

func TestCandidatesSortedByAscendingPower(t *testing.T) {
	p := DefaultPlatform()
	cands := p.Candidates()
	require.Len(t, cands, len(p.FreqLevels)*p.MaxCores)
	for i := 1; i < len(cands); i++ {
		require.LessOrEqual(t, p.Power(cands[i-1]), p.Power(cands[i]))
	}
	require.Equal(t, Config{Freq: 0.4, Cores: 1}, cands[0])
	require.Equal(t, p.MaxConfig(), cands[len(cands)-1])
}

func TestCandidatesTieBreakPrefersFewerCores(t *testing.T) {
	// power(f=2, 1 core) == power(f=1, 8 cores) == 8: the single-core
	// point must come first.
	p := Platform{
		FreqLevels:  []float64{1, 2},
		MaxCores:    8,
		PerfFactor:  1,
		PowerCoeff:  1,
		TickSeconds: 1,
	}
	require.NoError(t, p.Validate())

	cands := p.Candidates()
	idx := func(c Config) int {
		for i, x := range cands {
			if x == c {
				return i
			}
		}
		return -1
	}
	require.Less(t, idx(Config{Freq: 2, Cores: 1}), idx(Config{Freq: 1, Cores: 8}))
}

func TestPlatformValidate(t *testing.T) {
	require.NoError(t, DefaultPlatform().Validate())

	bad := DefaultPlatform()
	bad.FreqLevels = nil
	require.Error(t, bad.Validate())

	bad = DefaultPlatform()
	bad.FreqLevels = []float64{0.8, 0.4}
	require.Error(t, bad.Validate())

	bad = DefaultPlatform()
	bad.MaxCores = 0
	require.Error(t, bad.Validate())

	bad = DefaultPlatform()
	bad.TickSeconds = 0
	require.Error(t, bad.Validate())
}
