package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"eapss-sim/pkg/core"
)

// LoadTasksFromCSV parses a CSV of:
//
//	id,arrival,deadline,wcet
//
// into a validated task list, for injecting a fixed workload instead of
// a generated one. Every row goes through core.NewTask, so a file that
// violates the task invariants fails here and never enters a run.
func LoadTasksFromCSV(path string) ([]*core.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("load tasks: read header: %w", err)
	}

	var tasks []*core.Task
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("load tasks: line %d: %w", line, err)
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("load tasks: line %d: want 4 fields, got %d", line, len(rec))
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("load tasks: line %d: id: %w", line, err)
		}
		arrival, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("load tasks: line %d: arrival: %w", line, err)
		}
		deadline, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("load tasks: line %d: deadline: %w", line, err)
		}
		wcet, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("load tasks: line %d: wcet: %w", line, err)
		}
		t, err := core.NewTask(id, core.Tick(arrival), core.Tick(deadline), wcet)
		if err != nil {
			return nil, fmt.Errorf("load tasks: line %d: %w", line, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
