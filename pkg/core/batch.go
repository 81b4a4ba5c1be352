package core

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// StepperSpec names a stepper variant and knows how to build a fresh
// instance for each run, so runs never share stepper state.
type StepperSpec struct {
	Name string
	New  func(Platform) Stepper
}

// DefaultSteppers is the comparison pair: the energy-minimizing
// deadline-safe scheduler against the performance-first baseline.
func DefaultSteppers() []StepperSpec {
	return []StepperSpec{
		{Name: "deadline-safe", New: func(p Platform) Stepper { return NewDeadlineSafeStepper(p) }},
		{Name: "performance-first", New: func(p Platform) Stepper { return NewPerformanceFirstStepper(p) }},
	}
}

// BatchRow is one (seed, stepper) outcome, the shape exported as a CSV
// row by the cmd layer.
type BatchRow struct {
	Scheduler string
	Seed      int64
	Energy    float64
	Tasks     int
	Completed int
	Missed    int
	Result    *Result
	Err       error
}

// Batch runs every (seed, stepper) pair over workloads produced by the
// Workload hook. Runs share no mutable state, so they execute on a
// bounded worker pool; row order is fixed by (seed, stepper) index
// regardless of completion order, keeping batch output deterministic.
type Batch struct {
	Platform    Platform
	Seeds       []int64
	Steppers    []StepperSpec
	Workload    func(seed int64) ([]*Task, error)
	TickCeiling Tick
	Workers     int
}

func (b *Batch) Run() ([]BatchRow, error) {
	if b.Workload == nil {
		return nil, fmt.Errorf("batch: no workload source")
	}
	steppers := b.Steppers
	if len(steppers) == 0 {
		steppers = DefaultSteppers()
	}
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rows := make([]BatchRow, len(b.Seeds)*len(steppers))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				seed := b.Seeds[idx/len(steppers)]
				spec := steppers[idx%len(steppers)]
				rows[idx] = b.runOne(seed, spec)
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var errs []error
	for i := range rows {
		if rows[i].Err != nil {
			errs = append(errs, fmt.Errorf("%s seed %d: %w", rows[i].Scheduler, rows[i].Seed, rows[i].Err))
		}
	}
	return rows, errors.Join(errs...)
}

func (b *Batch) runOne(seed int64, spec StepperSpec) BatchRow {
	row := BatchRow{Scheduler: spec.Name, Seed: seed}

	tasks, err := b.Workload(seed)
	if err != nil {
		row.Err = fmt.Errorf("workload: %w", err)
		return row
	}
	sim, err := NewSimulation(b.Platform, spec.New(b.Platform), tasks)
	if err != nil {
		row.Err = err
		return row
	}
	if b.TickCeiling > 0 {
		sim.SetTickCeiling(b.TickCeiling)
	}
	res, err := sim.Run()
	row.Err = err
	row.Result = res
	row.Tasks = len(tasks)
	row.Energy = res.TotalEnergy
	row.Completed = res.Completed
	row.Missed = res.Missed

	log.WithFields(log.Fields{
		"scheduler": row.Scheduler,
		"seed":      row.Seed,
		"ticks":     len(res.Records),
		"energy":    row.Energy,
		"missed":    row.Missed,
	}).Debug("run complete")
	return row
}

// SchedulerSummary aggregates one scheduler's rows across seeds.
type SchedulerSummary struct {
	Scheduler    string
	Runs         int
	MeanEnergy   float64
	StdDevEnergy float64
	TotalMissed  int
}

// Summarize folds batch rows into per-scheduler statistics, preserving
// first-seen scheduler order. Failed rows are excluded.
func Summarize(rows []BatchRow) []SchedulerSummary {
	energies := map[string][]float64{}
	missed := map[string]int{}
	var order []string
	for _, r := range rows {
		if r.Err != nil {
			continue
		}
		if _, ok := energies[r.Scheduler]; !ok {
			order = append(order, r.Scheduler)
		}
		energies[r.Scheduler] = append(energies[r.Scheduler], r.Energy)
		missed[r.Scheduler] += r.Missed
	}
	out := make([]SchedulerSummary, 0, len(order))
	for _, name := range order {
		e := energies[name]
		out = append(out, SchedulerSummary{
			Scheduler:    name,
			Runs:         len(e),
			MeanEnergy:   stat.Mean(e, nil),
			StdDevEnergy: stat.StdDev(e, nil),
			TotalMissed:  missed[name],
		})
	}
	return out
}
