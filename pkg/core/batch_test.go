package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// batchWorkload builds a small deterministic workload per seed without
// pulling the generator package into core's tests.
func batchWorkload(seed int64) ([]*Task, error) {
	tasks := make([]*Task, 0, 10)
	for i := 0; i < 10; i++ {
		arrival := Tick((int64(i)*7 + seed) % 40)
		slack := Tick(20 + (int64(i)*3+seed)%20)
		wcet := float64(1000 + 500*i)
		t, err := NewTask(i+1, arrival, arrival+slack, wcet)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func TestBatchRowOrderAndShape(t *testing.T) {
	b := &Batch{
		Platform: DefaultPlatform(),
		Seeds:    []int64{1, 2, 3},
		Workload: batchWorkload,
		Workers:  4,
	}
	rows, err := b.Run()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	for i, seed := range b.Seeds {
		safe, base := rows[2*i], rows[2*i+1]
		require.Equal(t, "deadline-safe", safe.Scheduler)
		require.Equal(t, "performance-first", base.Scheduler)
		require.Equal(t, seed, safe.Seed)
		require.Equal(t, seed, base.Seed)
		require.Equal(t, 10, safe.Tasks)
		require.Equal(t, safe.Completed+safe.Missed, safe.Tasks)
	}
}

func TestBatchIsDeterministicAcrossRuns(t *testing.T) {
	run := func() []BatchRow {
		b := &Batch{
			Platform: DefaultPlatform(),
			Seeds:    []int64{11, 12},
			Workload: batchWorkload,
			Workers:  8,
		}
		rows, err := b.Run()
		require.NoError(t, err)
		return rows
	}
	require.Equal(t, run(), run())
}

func TestBatchEnergyComparison(t *testing.T) {
	b := &Batch{
		Platform: DefaultPlatform(),
		Seeds:    []int64{1, 2, 3, 4, 5},
		Workload: batchWorkload,
	}
	rows, err := b.Run()
	require.NoError(t, err)

	for i := 0; i < len(rows); i += 2 {
		require.Less(t, rows[i].Energy, rows[i+1].Energy,
			"deadline-safe should undercut the baseline for seed %d", rows[i].Seed)
	}
}

func TestBatchPropagatesTickCeiling(t *testing.T) {
	b := &Batch{
		Platform: DefaultPlatform(),
		Seeds:    []int64{1},
		Workload: func(int64) ([]*Task, error) {
			t, err := NewTask(1, 0, 1_000_000, 1e15)
			return []*Task{t}, err
		},
		TickCeiling: 5,
	}
	rows, err := b.Run()
	require.Error(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.ErrorIs(t, r.Err, ErrTickCeiling)
	}
}

func TestBatchWorkloadErrorIsSurfaced(t *testing.T) {
	b := &Batch{
		Platform: DefaultPlatform(),
		Seeds:    []int64{1},
		Workload: func(int64) ([]*Task, error) { return nil, fmt.Errorf("boom") },
	}
	_, err := b.Run()
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	rows := []BatchRow{
		{Scheduler: "deadline-safe", Seed: 1, Energy: 10, Missed: 0},
		{Scheduler: "performance-first", Seed: 1, Energy: 30, Missed: 1},
		{Scheduler: "deadline-safe", Seed: 2, Energy: 14, Missed: 2},
		{Scheduler: "performance-first", Seed: 2, Energy: 34, Missed: 0},
		{Scheduler: "deadline-safe", Seed: 3, Err: fmt.Errorf("bad run")},
	}
	sums := Summarize(rows)
	require.Len(t, sums, 2)
	require.Equal(t, "deadline-safe", sums[0].Scheduler)
	require.Equal(t, 2, sums[0].Runs)
	require.Equal(t, 12.0, sums[0].MeanEnergy)
	require.Equal(t, 2, sums[0].TotalMissed)
	require.Equal(t, "performance-first", sums[1].Scheduler)
	require.Equal(t, 32.0, sums[1].MeanEnergy)
}
