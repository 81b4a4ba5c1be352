package core

import "sort"

// sortEDF orders tasks by ascending deadline, ties by ID so runs are
// deterministic regardless of input order.
func sortEDF(tasks []*Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Deadline != tasks[j].Deadline {
			return tasks[i].Deadline < tasks[j].Deadline
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// Feasible runs the processor-demand admission test for one candidate
// operating point: with ready tasks in deadline order and each task
// given priority access to every tick's capacity ahead of later
// deadlines, a config passes iff no deadline-ordered prefix demands
// more work than the capacity available before its deadline.
//
// This is an optimistic projection, not a clairvoyant schedule, but it
// is monotone in capacity: any config whose capacity dominates a
// feasible one is itself feasible, so the max-performance fallback is
// never reported infeasible when a cheaper config passed.
//
// Tasks whose deadline is at or before the current tick are already
// missed; they are excluded here and flagged by the driver.
func (p Platform) Feasible(ready []*Task, now Tick, cfg Config) bool {
	capacity := p.CapacityPerTick(cfg)

	live := make([]*Task, 0, len(ready))
	for _, t := range ready {
		if t.Deadline > now && t.Remaining > 0 {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return true
	}
	sortEDF(live)

	demand := 0.0
	for _, t := range live {
		demand += t.Remaining
		horizon := float64(t.Deadline - now)
		if demand > capacity*horizon {
			return false
		}
	}
	return true
}
