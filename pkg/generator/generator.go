package generator

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"eapss-sim/pkg/core"
)

// Pattern selects the shape of the synthetic arrival stream.
type Pattern string

const (
	// Light is sparse arrivals with generous deadline slack.
	Light Pattern = "light"
	// Bursty clusters groups of tasks on near-identical arrival ticks
	// with moderate slack.
	Bursty Pattern = "bursty"
	// Heavy is dense arrivals with tight slack, stressing feasibility
	// near the margin.
	Heavy Pattern = "heavy"
	// Mixed samples the three base patterns per task, weighted the way
	// a typical interactive device mixes them.
	Mixed Pattern = "mixed"
)

func ParsePattern(s string) (Pattern, error) {
	switch Pattern(s) {
	case Light, Bursty, Heavy, Mixed:
		return Pattern(s), nil
	}
	return "", fmt.Errorf("unknown workload pattern %q", s)
}

// Config parameterizes one generated workload. WorkUnit is the number
// of work units one core serves per tick at full frequency; task WCETs
// are drawn as multiples of it so workloads scale with the platform's
// PerfFactor.
type Config struct {
	Pattern  Pattern
	Tasks    int
	Horizon  core.Tick // arrival window, in ticks
	WorkUnit float64
}

// DefaultConfig matches the default platform: a 160-tick (8s) window
// and 2000 work units per single-core tick.
func DefaultConfig(pattern Pattern, tasks int) Config {
	return Config{Pattern: pattern, Tasks: tasks, Horizon: 160, WorkUnit: 2000}
}

// Generate produces a validated task list, deterministic for a given
// seed. All randomness flows through one explicit source; there is no
// hidden global rand state. Tasks come back sorted by arrival with the
// first arrival pinned to tick 0, so every run shows activity from the
// start.
func Generate(cfg Config, seed int64) ([]*core.Task, error) {
	if cfg.Tasks < 0 {
		return nil, fmt.Errorf("generate: negative task count %d", cfg.Tasks)
	}
	if cfg.Horizon <= 0 || cfg.WorkUnit <= 0 {
		return nil, fmt.Errorf("generate: horizon %d and work unit %g must be > 0", cfg.Horizon, cfg.WorkUnit)
	}
	if _, err := ParsePattern(string(cfg.Pattern)); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(uint64(seed)))
	g := &drawer{cfg: cfg, rng: rng, burstOffset: distuv.Poisson{Lambda: 2, Src: rng}}

	tasks := make([]*core.Task, 0, cfg.Tasks)
	for i := 0; i < cfg.Tasks; i++ {
		pattern := cfg.Pattern
		if pattern == Mixed {
			pattern = g.pickMixed()
		}
		arrival, work, slack := g.draw(pattern)
		t, err := core.NewTask(i+1, arrival, arrival+slack, work)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Arrival != tasks[j].Arrival {
			return tasks[i].Arrival < tasks[j].Arrival
		}
		return tasks[i].ID < tasks[j].ID
	})
	if len(tasks) > 0 && tasks[0].Arrival > 0 {
		tasks[0].Arrival = 0
	}
	return tasks, nil
}

type drawer struct {
	cfg          Config
	rng          *rand.Rand
	burstOffset  distuv.Poisson
	burstCenters []core.Tick
}

// draw returns (arrival, work, slack) for one task of the given base
// pattern. Work is in work units, arrival and slack in ticks.
func (g *drawer) draw(p Pattern) (core.Tick, float64, core.Tick) {
	h := float64(g.cfg.Horizon)
	switch p {
	case Light:
		return g.tickIn(0, h),
			g.uniform(1, 6) * g.cfg.WorkUnit,
			g.tickIn(16, 40)
	case Bursty:
		arrival := g.burstCenter() + core.Tick(g.burstOffset.Rand())
		return arrival,
			g.uniform(2, 8) * g.cfg.WorkUnit,
			g.tickIn(4, 16)
	default: // Heavy
		return g.tickIn(0, 0.6*h),
			g.uniform(4, 12) * g.cfg.WorkUnit,
			g.tickIn(6, 18)
	}
}

func (g *drawer) pickMixed() Pattern {
	switch r := g.rng.Float64(); {
	case r < 0.45:
		return Light
	case r < 0.80:
		return Bursty
	default:
		return Heavy
	}
}

// burstCenter lazily seeds roughly one burst per eight tasks and then
// assigns tasks to bursts at random.
func (g *drawer) burstCenter() core.Tick {
	if g.burstCenters == nil {
		n := g.cfg.Tasks/8 + 1
		g.burstCenters = make([]core.Tick, n)
		for i := range g.burstCenters {
			g.burstCenters[i] = g.tickIn(0, 0.8*float64(g.cfg.Horizon))
		}
	}
	return g.burstCenters[g.rng.Intn(len(g.burstCenters))]
}

func (g *drawer) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: g.rng}.Rand()
}

// tickIn draws an integer tick in [lo, hi).
func (g *drawer) tickIn(lo, hi float64) core.Tick {
	t := core.Tick(g.uniform(lo, hi))
	if t < core.Tick(lo) {
		t = core.Tick(lo)
	}
	return t
}
