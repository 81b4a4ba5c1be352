package core

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/require"
)

func mustTask(t *testing.T, id int, arrival, deadline Tick, wcet float64) *Task {
	t.Helper()
	task, err := NewTask(id, arrival, deadline, wcet)
	require.NoError(t, err)
	return task
}

func TestFeasibleEmptyReadySet(t *testing.T) {
	p := DefaultPlatform()
	for _, cfg := range p.Candidates() {
		require.True(t, p.Feasible(nil, 0, cfg))
	}
}

func TestFeasibleSingleTask(t *testing.T) {
	p := Platform{FreqLevels: []float64{1, 2, 4}, MaxCores: 2, PerfFactor: 1, PowerCoeff: 1, TickSeconds: 1}
	ready := []*Task{mustTask(t, 1, 0, 10, 4)}

	// capacity 1/tick serves 4 units over a 10-tick horizon
	require.True(t, p.Feasible(ready, 0, Config{Freq: 1, Cores: 1}))
	// but not over a 3-tick horizon
	ready[0].Deadline = 3
	ready[0].Remaining = 4
	require.False(t, p.Feasible(ready, 0, Config{Freq: 1, Cores: 1}))
	require.True(t, p.Feasible(ready, 0, Config{Freq: 2, Cores: 1}))
}

func TestFeasibleAccountsForNearerDeadlinesFirst(t *testing.T) {
	p := Platform{FreqLevels: []float64{1}, MaxCores: 1, PerfFactor: 1, PowerCoeff: 1, TickSeconds: 1}
	cfg := Config{Freq: 1, Cores: 1}

	// Task 1 fills its entire horizon; task 2 alone would fit by its
	// deadline, but after task 1's demand there is nothing left.
	ready := []*Task{
		mustTask(t, 1, 0, 4, 4),
		mustTask(t, 2, 0, 6, 3),
	}
	require.False(t, p.Feasible(ready, 0, cfg))

	ready[1].Remaining = 2
	require.True(t, p.Feasible(ready, 0, cfg))
}

func TestFeasibleExcludesAlreadyMissedTasks(t *testing.T) {
	p := Platform{FreqLevels: []float64{1}, MaxCores: 1, PerfFactor: 1, PowerCoeff: 1, TickSeconds: 1}
	cfg := Config{Freq: 1, Cores: 1}

	missed := mustTask(t, 1, 0, 5, 100)
	live := mustTask(t, 2, 0, 10, 3)
	// at tick 5 the first task's deadline has passed; only the live
	// task counts
	require.True(t, p.Feasible([]*Task{missed, live}, 5, cfg))
}

// Capacity monotonicity: a configuration that dominates a feasible one
// in capacity is itself feasible, so the max-performance fallback can
// never be reported infeasible when any cheaper candidate passed.
func TestFeasibleMonotoneInCapacity(t *testing.T) {
	p := DefaultPlatform()
	cands := p.Candidates()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		now := Tick(rng.Intn(20))
		ready := make([]*Task, 0, 8)
		for i := 0; i < 1+rng.Intn(8); i++ {
			arrival := Tick(rng.Intn(int(now) + 1))
			deadline := now + Tick(1+rng.Intn(40))
			wcet := 100 + rng.Float64()*20000
			task := mustTask(t, i+1, arrival, deadline, wcet)
			task.Remaining = wcet * rng.Float64()
			if task.Remaining == 0 {
				task.Remaining = wcet
			}
			ready = append(ready, task)
		}
		for _, a := range cands {
			if !p.Feasible(ready, now, a) {
				continue
			}
			for _, b := range cands {
				if p.CapacityPerTick(b) >= p.CapacityPerTick(a) {
					require.True(t, p.Feasible(ready, now, b),
						"feasible at %v but not at dominating %v", a, b)
				}
			}
		}
	}
}
