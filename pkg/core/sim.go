package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/markphelps/optional"
)

// ErrTickCeiling signals a run that hit its tick ceiling with work
// still outstanding. It is surfaced as a run-level failure rather than
// a silent truncation so batch statistics are not skewed.
var ErrTickCeiling = errors.New("tick ceiling exceeded")

// DefaultTickCeiling guards against unbounded runs from pathological
// workloads.
const DefaultTickCeiling Tick = 1 << 20

// TickRecord is the immutable per-tick snapshot appended by the driver
// and consumed read-only by external collaborators.
type TickRecord struct {
	Tick        Tick
	Config      Config
	Power       float64      // watts
	Energy      float64      // joules added this tick
	Ready       int          // ready tasks at the start of the tick
	Completed   int          // tasks completed this tick
	Missed      int          // tasks newly missed this tick
	Utilization float64      // fraction of the tick's capacity consumed
	RunningTask optional.Int // last task that received work this tick
}

// Result is the boundary surface of one finished run.
type Result struct {
	Scheduler   string
	Records     []TickRecord
	Completed   int
	Missed      int
	TotalEnergy float64
	Tasks       []*Task // final task table, terminal states included
}

// Simulation owns all per-run state and is the only writer of task and
// energy bookkeeping. A run is strictly sequential tick-by-tick; runs
// are independent and safe to execute in parallel with each other.
type Simulation struct {
	platform Platform
	stepper  Stepper

	now     Tick
	ceiling Tick
	pending []*Task // sorted by arrival, then ID
	ready   []*Task
	done    []*Task
	energy  float64
	records []TickRecord
	all     []*Task
}

// NewSimulation builds a run over a private copy of the task list, so
// the caller's tasks are never mutated and a fresh simulation restarts
// the same workload from scratch.
func NewSimulation(p Platform, stepper Stepper, tasks []*Task) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		platform: p,
		stepper:  stepper,
		ceiling:  DefaultTickCeiling,
		pending:  make([]*Task, 0, len(tasks)),
		all:      make([]*Task, 0, len(tasks)),
	}
	for _, t := range tasks {
		c := t.clone()
		c.Remaining = c.WCET
		c.State = TaskPending
		s.pending = append(s.pending, c)
		s.all = append(s.all, c)
	}
	sort.Slice(s.pending, func(i, j int) bool {
		if s.pending[i].Arrival != s.pending[j].Arrival {
			return s.pending[i].Arrival < s.pending[j].Arrival
		}
		return s.pending[i].ID < s.pending[j].ID
	})
	return s, nil
}

// SetTickCeiling overrides the default run-length guard.
func (s *Simulation) SetTickCeiling(n Tick) {
	if n > 0 {
		s.ceiling = n
	}
}

func (s *Simulation) Now() Tick             { return s.now }
func (s *Simulation) Records() []TickRecord { return s.records }
func (s *Simulation) Tasks() []*Task        { return s.all }

// Done reports whether no work remains: nothing pending, nothing ready.
func (s *Simulation) Done() bool {
	return len(s.pending) == 0 && len(s.ready) == 0
}

// Step advances the run by one tick: admit arrivals, let the stepper
// pick an operating point, distribute capacity EDF-style, settle
// terminal states, and record the tick. It returns false once the run
// is over.
func (s *Simulation) Step() (bool, error) {
	if s.Done() {
		return false, nil
	}
	if s.now >= s.ceiling {
		return false, fmt.Errorf("tick %d with %d pending and %d ready tasks: %w",
			s.now, len(s.pending), len(s.ready), ErrTickCeiling)
	}

	s.admit()

	cfg := s.stepper.ChooseConfig(s.ready, s.now)
	capacity := s.platform.CapacityPerTick(cfg)

	// EDF distribution: nearest deadline first, unconsumed capacity
	// carries forward within the tick.
	sortEDF(s.ready)
	readyCount := len(s.ready)
	capLeft := capacity
	workDone := 0.0
	var running optional.Int
	for _, t := range s.ready {
		if capLeft <= 0 {
			break
		}
		do := t.Remaining
		if do > capLeft {
			do = capLeft
		}
		t.Remaining -= do
		capLeft -= do
		workDone += do
		running = optional.NewInt(t.ID)
	}

	completed, missed := 0, 0
	live := s.ready[:0]
	for _, t := range s.ready {
		switch {
		case t.Remaining <= 0:
			t.complete(s.now)
			s.done = append(s.done, t)
			completed++
		case t.Deadline <= s.now:
			t.miss(s.now)
			s.done = append(s.done, t)
			missed++
		default:
			live = append(live, t)
		}
	}
	s.ready = live

	power := s.platform.Power(cfg)
	energy := power * s.platform.TickSeconds
	s.energy += energy
	s.records = append(s.records, TickRecord{
		Tick:        s.now,
		Config:      cfg,
		Power:       power,
		Energy:      energy,
		Ready:       readyCount,
		Completed:   completed,
		Missed:      missed,
		Utilization: workDone / capacity,
		RunningTask: running,
	})

	s.now++
	return !s.Done(), nil
}

// Run drives the simulation to completion and finalizes the result. On
// a tick-ceiling failure the partial result is returned alongside the
// error so the records remain inspectable.
func (s *Simulation) Run() (*Result, error) {
	for {
		more, err := s.Step()
		if err != nil {
			return s.result(), err
		}
		if !more {
			break
		}
	}
	return s.result(), nil
}

// admit moves tasks whose arrival tick has come from pending to ready.
func (s *Simulation) admit() {
	i := 0
	for i < len(s.pending) && s.pending[i].Arrival <= s.now {
		s.pending[i].State = TaskReady
		s.ready = append(s.ready, s.pending[i])
		i++
	}
	s.pending = s.pending[i:]
}

func (s *Simulation) result() *Result {
	r := &Result{
		Scheduler:   s.stepper.Name(),
		Records:     s.records,
		TotalEnergy: s.energy,
		Tasks:       s.all,
	}
	for _, t := range s.done {
		switch t.State {
		case TaskCompleted:
			r.Completed++
		case TaskMissed:
			r.Missed++
		}
	}
	return r
}
