package core

import "fmt"

// Tick is one discrete unit of simulated time.
type Tick int

// TaskState tags where a task is in its lifecycle. Transitions are
// performed only by the simulation driver, never by external callers,
// so a task can never be both completed and missed.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskReady
	TaskCompleted
	TaskMissed
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskReady:
		return "ready"
	case TaskCompleted:
		return "completed"
	case TaskMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// Task represents one unit of work to schedule. WCET and Remaining are
// measured in work units, where one core at frequency 1.0 serves
// Platform.PerfFactor units per tick.
type Task struct {
	ID       int
	Arrival  Tick
	Deadline Tick // absolute deadline tick
	WCET     float64

	Remaining      float64
	State          TaskState
	CompletionTick Tick // valid when State == TaskCompleted
	MissTick       Tick // valid when State == TaskMissed
}

// InvalidTaskSpecError reports a task spec that violates the model
// invariants. Validation happens once at construction; tasks are never
// rechecked during a run.
type InvalidTaskSpecError struct {
	ID     int
	Reason string
}

func (e *InvalidTaskSpecError) Error() string {
	return fmt.Sprintf("invalid task spec %d: %s", e.ID, e.Reason)
}

// NewTask validates and constructs a pending task with Remaining = WCET.
func NewTask(id int, arrival, deadline Tick, wcet float64) (*Task, error) {
	if arrival < 0 {
		return nil, &InvalidTaskSpecError{ID: id, Reason: fmt.Sprintf("arrival %d < 0", arrival)}
	}
	if deadline <= arrival {
		return nil, &InvalidTaskSpecError{ID: id, Reason: fmt.Sprintf("deadline %d <= arrival %d", deadline, arrival)}
	}
	if wcet <= 0 {
		return nil, &InvalidTaskSpecError{ID: id, Reason: fmt.Sprintf("wcet %g <= 0", wcet)}
	}
	return &Task{
		ID:        id,
		Arrival:   arrival,
		Deadline:  deadline,
		WCET:      wcet,
		Remaining: wcet,
		State:     TaskPending,
	}, nil
}

// Terminal reports whether the task has reached a final state.
func (t *Task) Terminal() bool {
	return t.State == TaskCompleted || t.State == TaskMissed
}

func (t *Task) String() string {
	return fmt.Sprintf("task %d [%d,%d) wcet=%g rem=%g %s", t.ID, t.Arrival, t.Deadline, t.WCET, t.Remaining, t.State)
}

func (t *Task) clone() *Task {
	c := *t
	return &c
}

func (t *Task) complete(now Tick) {
	t.Remaining = 0
	t.State = TaskCompleted
	t.CompletionTick = now
}

func (t *Task) miss(now Tick) {
	t.State = TaskMissed
	t.MissTick = now
}
