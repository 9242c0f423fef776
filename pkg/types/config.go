// Package types holds the application-wide configuration structure.
package types

import (
	"time"
)

// Config is the root configuration object: every tunable of the
// discovery/conformance pipelines and their ambient stack.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	OCDeclare OCDeclareConfig `yaml:"oc_declare"`
	Workers   WorkersConfig   `yaml:"workers"`
	TaskManager TaskManagerConfig `yaml:"task_manager"`
}

// AppConfig contains core application settings.
type AppConfig struct {
	Name        string `yaml:"name"`        // Application name for identification
	Version     string `yaml:"version"`     // Application version
	Environment string `yaml:"environment"` // Deployment environment (dev, staging, prod)
	LogLevel    string `yaml:"log_level"`   // Logging level (trace, debug, info, warn, error)
	LogFormat   string `yaml:"log_format"`  // Log output format (json, text)
	DataDir     string `yaml:"data_dir"`    // Base directory for OCEL logs and output artifacts
}

// ServerConfig contains HTTP server settings for the metrics endpoint.
type ServerConfig struct {
	Enabled      bool   `yaml:"enabled"`       // Enable the HTTP server
	Host         string `yaml:"host"`          // Server bind host
	Port         int    `yaml:"port"`          // Server bind port
	ReadTimeout  string `yaml:"read_timeout"`  // HTTP read timeout
	WriteTimeout string `yaml:"write_timeout"` // HTTP write timeout
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`   // Enable metrics collection
	Host      string `yaml:"host"`      // Metrics server bind host
	Port      int    `yaml:"port"`      // Metrics server bind port
	Path      string `yaml:"path"`      // Metrics endpoint path
	Namespace string `yaml:"namespace"` // Metrics namespace prefix
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled        bool    `yaml:"enabled"`         // Enable span emission
	ServiceName    string  `yaml:"service_name"`    // Service name reported to the exporter
	ServiceVersion string  `yaml:"service_version"` // Service version reported to the exporter
	Exporter       string  `yaml:"exporter"`        // Trace exporter (otlp, jaeger, console)
	Endpoint       string  `yaml:"endpoint"`        // Trace collector endpoint
	SampleRate     float64 `yaml:"sample_rate"`     // Trace sampling rate (0.0 to 1.0)
}

// DiscoveryConfig holds the tunable parameters of an Alpha+++ discovery
// run, mirroring pkg/alphappp.Config.
type DiscoveryConfig struct {
	BalanceThresh float64 `yaml:"balance_thresh"`
	FitnessThresh float64 `yaml:"fitness_thresh"`
	ReplayThresh  float64 `yaml:"replay_thresh"`

	LogRepairSkipDfThreshRel float64 `yaml:"log_repair_skip_df_thresh_rel"`
	LogRepairLoopDfThreshRel float64 `yaml:"log_repair_loop_df_thresh_rel"`

	AbsoluteDfCleanThresh uint64  `yaml:"absolute_df_clean_thresh"`
	RelativeDfCleanThresh float64 `yaml:"relative_df_clean_thresh"`
}

// OCDeclareConfig holds the tunable parameters of an OC-DECLARE
// discovery and conformance-checking run.
type OCDeclareConfig struct {
	NoiseThreshold     float64  `yaml:"noise_threshold"`      // Fraction of violating source events tolerated as noise
	O2OMode            string   `yaml:"o2o_mode"`             // none, direct, reversed, bidirectional
	ActsToUse          []string `yaml:"acts_to_use"`          // Event types to consider; empty means every type in the log
	Reduction          string   `yaml:"reduction"`            // none, lossless, lossy
	ConsideredArcTypes []string `yaml:"considered_arc_types"` // Subset of AS, EF, EP, DF, DP
	ConformanceThreshold float64 `yaml:"conformance_threshold"` // Defaults to NoiseThreshold; no discovery or conformance code reads it
}

// WorkersConfig configures the worker pool backing the pipeline's
// data-parallel stages.
type WorkersConfig struct {
	MaxWorkers      int           `yaml:"max_workers"`      // 0 means CPU-aware autodetection
	QueueSize       int           `yaml:"queue_size"`
	WorkerTimeout   time.Duration `yaml:"worker_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TaskManagerConfig configures the phase tracker used to report
// discovery-run progress and detect stalled phases.
type TaskManagerConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	TaskTimeout       time.Duration `yaml:"task_timeout"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
}
