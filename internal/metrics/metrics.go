// Package metrics exposes Prometheus instrumentation for the
// discovery/conformance pipeline: per-phase durations, DFG/candidate
// counts, OC-DECLARE discovery and conformance results, and worker
// pool utilization.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pmcore_phase_duration_seconds",
		Help:    "Duration of each discovery/conformance pipeline phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	PhaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmcore_phase_errors_total",
		Help: "Errors raised by each pipeline phase.",
	}, []string{"phase"})

	DFGEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pmcore_dfg_edges",
		Help: "Number of edges in the directly-follows graph built during the last discovery run.",
	})

	CandidatesGenerated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pmcore_candidates_generated",
		Help: "Number of place candidates generated during the last discovery run.",
	})

	CandidatesAccepted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pmcore_candidates_accepted",
		Help: "Number of place candidates accepted after pruning.",
	})

	PetriNetPlaces = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pmcore_petri_net_places",
		Help: "Number of places in the last assembled Petri net.",
	})

	OCDeclareArcsDiscovered = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmcore_oc_declare_arcs_discovered",
		Help: "Number of OC-DECLARE arcs discovered, by arc type.",
	}, []string{"arc_type"})

	OCDeclareViolationFraction = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmcore_oc_declare_violation_fraction",
		Help: "Fraction of source events violating the constraint in the last conformance check, by constraint.",
	}, []string{"from", "to"})

	WorkerPoolActiveTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pmcore_worker_pool_active_tasks",
		Help: "Number of tasks currently running in the worker pool.",
	})

	WorkerPoolCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pmcore_worker_pool_completed_total",
		Help: "Total number of worker pool tasks completed.",
	})

	WorkerPoolFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pmcore_worker_pool_failed_total",
		Help: "Total number of worker pool tasks failed.",
	})

	TaskManagerPhaseState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pmcore_task_manager_phase_state",
		Help: "1 if the named pipeline phase is in the given state, 0 otherwise.",
	}, []string{"phase", "state"})
)

// RecordPhase observes a phase's duration and increments its error
// counter on failure.
func RecordPhase(phase string, duration time.Duration, err error) {
	PhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
	if err != nil {
		PhaseErrorsTotal.WithLabelValues(phase).Inc()
	}
}

// SetOCDeclareArcsDiscovered records, per arc type, how many arcs the
// last discovery run produced.
func SetOCDeclareArcsDiscovered(counts map[string]int) {
	for arcType, n := range counts {
		OCDeclareArcsDiscovered.WithLabelValues(arcType).Set(float64(n))
	}
}

// SetOCDeclareViolationFraction records one constraint's violation
// fraction from the last conformance check.
func SetOCDeclareViolationFraction(from, to string, fraction float64) {
	OCDeclareViolationFraction.WithLabelValues(from, to).Set(fraction)
}

// Server exposes the /metrics and /health routes.
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

var registerOnce sync.Once

// NewServer builds a metrics HTTP server bound to addr. Metric
// registration happens at package init via promauto, so this only
// wires the router.
func NewServer(addr string, logger *logrus.Logger) *Server {
	registerOnce.Do(func() {})

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return &Server{
		server: &http.Server{Addr: addr, Handler: router},
		logger: logger,
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("starting metrics server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("metrics server error")
		}
	}()
	return nil
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
