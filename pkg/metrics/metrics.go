package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"eapss-sim/pkg/core"
)

// Prometheus metrics for batch comparisons. The engine itself stays
// metrics-free; the batch runner publishes finished rows here.
var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapss_runs_total",
			Help: "Total number of completed simulation runs.",
		},
		[]string{"scheduler"},
	)
	missedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapss_missed_deadlines_total",
			Help: "Total number of tasks that missed their deadline.",
		},
		[]string{"scheduler"},
	)
	energyGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eapss_run_energy_joules",
			Help: "Total energy consumed by the most recent run per seed.",
		},
		[]string{"scheduler", "seed"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(missedTotal)
	prometheus.MustRegister(energyGauge)
}

// Publish records finished batch rows. Failed rows are skipped so
// metrics reflect the same population as the batch summary.
func Publish(rows []core.BatchRow) {
	for _, r := range rows {
		if r.Err != nil {
			continue
		}
		runsTotal.WithLabelValues(r.Scheduler).Inc()
		missedTotal.WithLabelValues(r.Scheduler).Add(float64(r.Missed))
		energyGauge.WithLabelValues(r.Scheduler, strconv.FormatInt(r.Seed, 10)).Set(r.Energy)
	}
}

// StartServer exposes /metrics on addr in the background.
func StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Infof("metrics server listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("metrics server: %v", err)
		}
	}()
}
