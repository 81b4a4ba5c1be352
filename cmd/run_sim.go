package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"eapss-sim/pkg/core"
	"eapss-sim/pkg/generator"
	"eapss-sim/pkg/loader"
	"eapss-sim/pkg/metrics"
)

// parseFloatSlice converts a comma-separated list of floats into a slice
func parseFloatSlice(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			log.Fatalf("invalid float in slice %q: %v", p, err)
		}
		out = append(out, v)
	}
	return out
}

// parseSeedSlice converts a comma-separated list of seeds into a slice
func parseSeedSlice(s string) []int64 {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			log.Fatalf("invalid seed in slice %q: %v", p, err)
		}
		out = append(out, v)
	}
	return out
}

func main() {
	var (
		patternFlag = flag.String("pattern", "mixed", "workload pattern: light, bursty, heavy or mixed")
		taskCount   = flag.Int("tasks", 30, "number of tasks per generated workload")
		seedsFlag   = flag.String("seeds", "1,2,3,4,5", "comma-separated workload seeds")
		tasksCSV    = flag.String("tasks-csv", "", "inject tasks from a CSV (id,arrival,deadline,wcet) instead of generating them")
		freqFlag    = flag.String("freq-levels", "0.4,0.6,0.8,1.0", "comma-separated DVFS frequency levels, low to max")
		maxCores    = flag.Int("max-cores", 4, "number of cores on the simulated device")
		perfFactor  = flag.Float64("perf-factor", 2000, "work units per tick per core at frequency 1.0")
		powerCoeff  = flag.Float64("power-coeff", 1.2, "device constant of the cubic power law")
		tickSeconds = flag.Float64("tick-seconds", 0.05, "simulated duration of one tick")
		horizon     = flag.Int("horizon", 160, "arrival window for generated workloads, in ticks")
		tickCeiling = flag.Int("tick-ceiling", 0, "abort runs past this many ticks (0 = default guard)")
		outPath     = flag.String("out", "results.csv", "path of the batch results CSV")
		metricsAddr = flag.String("metrics-addr", "", "expose Prometheus metrics on this address (empty = off)")
	)
	flag.Parse()

	platform := core.Platform{
		FreqLevels:  parseFloatSlice(*freqFlag),
		MaxCores:    *maxCores,
		PerfFactor:  *perfFactor,
		PowerCoeff:  *powerCoeff,
		TickSeconds: *tickSeconds,
	}
	if err := platform.Validate(); err != nil {
		log.Fatalf("platform: %v", err)
	}

	seeds := parseSeedSlice(*seedsFlag)
	workload, err := workloadSource(*tasksCSV, *patternFlag, *taskCount, core.Tick(*horizon))
	if err != nil {
		log.Fatalf("workload: %v", err)
	}

	if *metricsAddr != "" {
		metrics.StartServer(*metricsAddr)
	}

	batch := &core.Batch{
		Platform:    platform,
		Seeds:       seeds,
		Steppers:    core.DefaultSteppers(),
		Workload:    workload,
		TickCeiling: core.Tick(*tickCeiling),
	}
	rows, err := batch.Run()
	if err != nil {
		log.Fatalf("batch: %v", err)
	}
	if *metricsAddr != "" {
		metrics.Publish(rows)
	}

	if err := writeResultsCSV(*outPath, rows); err != nil {
		log.Fatalf("write results: %v", err)
	}
	log.Infof("wrote batch results: %s (rows=%d)", *outPath, len(rows))

	for _, s := range core.Summarize(rows) {
		log.WithFields(log.Fields{
			"scheduler":   s.Scheduler,
			"runs":        s.Runs,
			"mean_energy": fmt.Sprintf("%.3f", s.MeanEnergy),
			"stddev":      fmt.Sprintf("%.3f", s.StdDevEnergy),
			"missed":      s.TotalMissed,
		}).Info("summary")
	}
}

// workloadSource picks between an injected CSV task list (same tasks
// for every seed) and the seeded generator.
func workloadSource(tasksCSV, patternFlag string, taskCount int, horizon core.Tick) (func(int64) ([]*core.Task, error), error) {
	if tasksCSV != "" {
		tasks, err := loader.LoadTasksFromCSV(tasksCSV)
		if err != nil {
			return nil, err
		}
		return func(int64) ([]*core.Task, error) { return tasks, nil }, nil
	}
	pattern, err := generator.ParsePattern(patternFlag)
	if err != nil {
		return nil, err
	}
	cfg := generator.DefaultConfig(pattern, taskCount)
	cfg.Horizon = horizon
	return func(seed int64) ([]*core.Task, error) {
		return generator.Generate(cfg, seed)
	}, nil
}

func writeResultsCSV(path string, rows []core.BatchRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"scheduler", "seed", "energy", "tasks", "completed", "missed"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Scheduler,
			strconv.FormatInt(r.Seed, 10),
			fmt.Sprintf("%.6f", r.Energy),
			strconv.Itoa(r.Tasks),
			strconv.Itoa(r.Completed),
			strconv.Itoa(r.Missed),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
