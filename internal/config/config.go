package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ssw-process-mining/pkg/errors"
	"ssw-process-mining/pkg/ocdeclare"
	"ssw-process-mining/pkg/types"

	"gopkg.in/yaml.v2"
)

// LoadConfig loads configuration from a YAML file, layering default
// values and environment overrides on top, then validates the result.
func LoadConfig(configFile string) (*types.Config, error) {
	config := &types.Config{}
	// Metrics default to enabled; the YAML decoder only overwrites this
	// when the file sets metrics.enabled explicitly.
	config.Metrics.Enabled = true

	if configFile != "" {
		if err := loadConfigFile(configFile, config); err != nil {
			fmt.Printf("Warning: failed to load config file %s: %v\n", configFile, err)
		} else {
			fmt.Printf("Loaded configuration from file: %s\n", configFile)
		}
	}

	metricsEnabled := config.Metrics.Enabled
	applyDefaults(config)
	config.Metrics.Enabled = metricsEnabled
	applyEnvironmentOverrides(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadConfigFile(filename string, config *types.Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyDefaults fills in every field LoadConfig needs but the file or
// environment left unset.
func applyDefaults(config *types.Config) {
	if config.App.Name == "" {
		config.App.Name = "pmcore"
	}
	if config.App.Version == "" {
		config.App.Version = "v0.1.0"
	}
	if config.App.Environment == "" {
		config.App.Environment = "production"
	}
	if config.App.LogLevel == "" {
		config.App.LogLevel = "info"
	}
	if config.App.LogFormat == "" {
		config.App.LogFormat = "json"
	}
	if config.App.DataDir == "" {
		config.App.DataDir = "/app/data"
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8401
	}
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}

	config.Metrics.Enabled = true
	if config.Metrics.Host == "" {
		config.Metrics.Host = "0.0.0.0"
	}
	if config.Metrics.Port == 0 {
		config.Metrics.Port = 9090
	}
	if config.Metrics.Path == "" {
		config.Metrics.Path = "/metrics"
	}
	if config.Metrics.Namespace == "" {
		config.Metrics.Namespace = "pmcore"
	}

	if config.Tracing.ServiceName == "" {
		config.Tracing.ServiceName = config.App.Name
	}
	if config.Tracing.ServiceVersion == "" {
		config.Tracing.ServiceVersion = config.App.Version
	}
	if config.Tracing.Exporter == "" {
		config.Tracing.Exporter = "otlp"
	}
	if config.Tracing.SampleRate == 0 {
		config.Tracing.SampleRate = 1.0
	}

	// Discovery thresholds left at zero get these fallback values.
	if config.Discovery.BalanceThresh == 0 {
		config.Discovery.BalanceThresh = 0.1
	}
	if config.Discovery.FitnessThresh == 0 {
		config.Discovery.FitnessThresh = 0.1
	}
	if config.Discovery.ReplayThresh == 0 {
		config.Discovery.ReplayThresh = 0.1
	}
	if config.Discovery.LogRepairSkipDfThreshRel == 0 {
		config.Discovery.LogRepairSkipDfThreshRel = 0.01
	}
	if config.Discovery.LogRepairLoopDfThreshRel == 0 {
		config.Discovery.LogRepairLoopDfThreshRel = 0.01
	}
	if config.Discovery.RelativeDfCleanThresh == 0 {
		config.Discovery.RelativeDfCleanThresh = 0.05
	}

	if config.OCDeclare.NoiseThreshold == 0 {
		config.OCDeclare.NoiseThreshold = 0.2
	}
	if config.OCDeclare.O2OMode == "" {
		config.OCDeclare.O2OMode = "none"
	}
	if config.OCDeclare.Reduction == "" {
		config.OCDeclare.Reduction = "none"
	}
	if len(config.OCDeclare.ConsideredArcTypes) == 0 {
		config.OCDeclare.ConsideredArcTypes = []string{"AS", "EF", "EP", "DF", "DP"}
	}
	if config.OCDeclare.ConformanceThreshold == 0 {
		config.OCDeclare.ConformanceThreshold = config.OCDeclare.NoiseThreshold
	}

	if config.Workers.QueueSize == 0 {
		config.Workers.QueueSize = 10000
	}
	if config.Workers.WorkerTimeout == 0 {
		config.Workers.WorkerTimeout = 30 * time.Second
	}
	if config.Workers.IdleTimeout == 0 {
		config.Workers.IdleTimeout = 5 * time.Minute
	}
	if config.Workers.ShutdownTimeout == 0 {
		config.Workers.ShutdownTimeout = 30 * time.Second
	}

	if config.TaskManager.HeartbeatInterval == 0 {
		config.TaskManager.HeartbeatInterval = 30 * time.Second
	}
	if config.TaskManager.TaskTimeout == 0 {
		config.TaskManager.TaskTimeout = 5 * time.Minute
	}
	if config.TaskManager.CleanupInterval == 0 {
		config.TaskManager.CleanupInterval = 1 * time.Minute
	}
}

// applyEnvironmentOverrides lets environment variables win over both
// the file and the defaults; every variable carries the PM_ prefix.
func applyEnvironmentOverrides(config *types.Config) {
	config.App.Name = getEnvString("PM_APP_NAME", config.App.Name)
	config.App.Version = getEnvString("PM_APP_VERSION", config.App.Version)
	config.App.Environment = getEnvString("PM_APP_ENVIRONMENT", config.App.Environment)
	config.App.LogLevel = getEnvString("PM_LOG_LEVEL", config.App.LogLevel)
	config.App.LogFormat = getEnvString("PM_LOG_FORMAT", config.App.LogFormat)
	config.App.DataDir = getEnvString("PM_DATA_DIR", config.App.DataDir)

	config.Server.Enabled = getEnvBool("PM_SERVER_ENABLED", config.Server.Enabled)
	config.Server.Host = getEnvString("PM_SERVER_HOST", config.Server.Host)
	config.Server.Port = getEnvInt("PM_SERVER_PORT", config.Server.Port)

	config.Metrics.Enabled = getEnvBool("PM_METRICS_ENABLED", config.Metrics.Enabled)
	config.Metrics.Host = getEnvString("PM_METRICS_HOST", config.Metrics.Host)
	config.Metrics.Port = getEnvInt("PM_METRICS_PORT", config.Metrics.Port)
	config.Metrics.Path = getEnvString("PM_METRICS_PATH", config.Metrics.Path)
	config.Metrics.Namespace = getEnvString("PM_METRICS_NAMESPACE", config.Metrics.Namespace)

	config.Tracing.Enabled = getEnvBool("PM_TRACING_ENABLED", config.Tracing.Enabled)
	config.Tracing.Endpoint = getEnvString("PM_TRACING_ENDPOINT", config.Tracing.Endpoint)
	config.Tracing.SampleRate = getEnvFloat("PM_TRACING_SAMPLE_RATE", config.Tracing.SampleRate)

	config.Discovery.BalanceThresh = getEnvFloat("PM_DISCOVERY_BALANCE_THRESH", config.Discovery.BalanceThresh)
	config.Discovery.FitnessThresh = getEnvFloat("PM_DISCOVERY_FITNESS_THRESH", config.Discovery.FitnessThresh)
	config.Discovery.ReplayThresh = getEnvFloat("PM_DISCOVERY_REPLAY_THRESH", config.Discovery.ReplayThresh)

	config.OCDeclare.NoiseThreshold = getEnvFloat("PM_OC_DECLARE_NOISE_THRESHOLD", config.OCDeclare.NoiseThreshold)
	config.OCDeclare.O2OMode = getEnvString("PM_OC_DECLARE_O2O_MODE", config.OCDeclare.O2OMode)
	config.OCDeclare.Reduction = getEnvString("PM_OC_DECLARE_REDUCTION", config.OCDeclare.Reduction)
	if acts := getEnvStringSlice("PM_OC_DECLARE_ACTS_TO_USE", nil); acts != nil {
		config.OCDeclare.ActsToUse = acts
	}

	config.Workers.MaxWorkers = getEnvInt("PM_WORKERS_MAX", config.Workers.MaxWorkers)
	config.Workers.QueueSize = getEnvInt("PM_WORKERS_QUEUE_SIZE", config.Workers.QueueSize)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// ValidateConfig runs every structural validation over a loaded
// configuration before a discovery/conformance run can start.
func ValidateConfig(config *types.Config) error {
	validator := &ConfigValidator{config: config}
	return validator.Validate()
}

// ConfigValidator accumulates every validation failure so a caller
// sees the whole list of problems in one error, not just the first.
type ConfigValidator struct {
	config *types.Config
	errors []error
}

func (v *ConfigValidator) Validate() error {
	v.validateApp()
	v.validateServer()
	v.validateMetrics()
	v.validateTracing()
	v.validateDiscovery()
	v.validateOCDeclare()
	v.validateWorkers()

	if len(v.errors) > 0 {
		return v.buildValidationError()
	}
	return nil
}

func (v *ConfigValidator) addError(component, operation, message string) {
	err := errors.ConfigError(operation, message).WithMetadata("component", component)
	v.errors = append(v.errors, err)
}

func (v *ConfigValidator) validateApp() {
	if v.config.App.Name == "" {
		v.addError("app", "validate_name", "application name cannot be empty")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[v.config.App.LogLevel] {
		v.addError("app", "validate_log_level", fmt.Sprintf("invalid log level: %s", v.config.App.LogLevel))
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[v.config.App.LogFormat] {
		v.addError("app", "validate_log_format", fmt.Sprintf("invalid log format: %s", v.config.App.LogFormat))
	}
}

func (v *ConfigValidator) validateServer() {
	if !v.config.Server.Enabled {
		return
	}
	if v.config.Server.Port <= 0 || v.config.Server.Port > 65535 {
		v.addError("server", "validate_port", fmt.Sprintf("invalid server port: %d", v.config.Server.Port))
	}
	if v.config.Server.Host == "" {
		v.addError("server", "validate_host", "server host cannot be empty when enabled")
	}
	if v.config.Server.ReadTimeout != "" {
		if _, err := time.ParseDuration(v.config.Server.ReadTimeout); err != nil {
			v.addError("server", "validate_read_timeout", fmt.Sprintf("invalid read timeout: %s", v.config.Server.ReadTimeout))
		}
	}
	if v.config.Server.WriteTimeout != "" {
		if _, err := time.ParseDuration(v.config.Server.WriteTimeout); err != nil {
			v.addError("server", "validate_write_timeout", fmt.Sprintf("invalid write timeout: %s", v.config.Server.WriteTimeout))
		}
	}
}

func (v *ConfigValidator) validateMetrics() {
	if !v.config.Metrics.Enabled {
		return
	}
	if v.config.Metrics.Path == "" {
		v.addError("metrics", "validate_path", "metrics path cannot be empty when enabled")
	}
	if v.config.Metrics.Port <= 0 || v.config.Metrics.Port > 65535 {
		v.addError("metrics", "validate_port", fmt.Sprintf("invalid metrics port: %d", v.config.Metrics.Port))
	}
	if v.config.Server.Enabled && v.config.Server.Port == v.config.Metrics.Port {
		v.addError("metrics", "validate_port_conflict", "metrics port conflicts with server port")
	}
}

func (v *ConfigValidator) validateTracing() {
	if !v.config.Tracing.Enabled {
		return
	}
	if v.config.Tracing.SampleRate < 0 || v.config.Tracing.SampleRate > 1 {
		v.addError("tracing", "validate_sample_rate", fmt.Sprintf("sample rate must be within [0,1]: %v", v.config.Tracing.SampleRate))
	}
	validExporters := map[string]bool{"otlp": true, "jaeger": true, "console": true}
	if !validExporters[v.config.Tracing.Exporter] {
		v.addError("tracing", "validate_exporter", fmt.Sprintf("unsupported exporter: %s", v.config.Tracing.Exporter))
	}
}

func (v *ConfigValidator) validateDiscovery() {
	d := v.config.Discovery
	if d.BalanceThresh < 0 || d.BalanceThresh > 1 {
		v.addError("discovery", "validate_balance_thresh", "balance threshold must be within [0,1]")
	}
	if d.FitnessThresh < 0 || d.FitnessThresh > 1 {
		v.addError("discovery", "validate_fitness_thresh", "fitness threshold must be within [0,1]")
	}
	if d.ReplayThresh < 0 || d.ReplayThresh > 1 {
		v.addError("discovery", "validate_replay_thresh", "replay threshold must be within [0,1]")
	}
}

func (v *ConfigValidator) validateOCDeclare() {
	o := v.config.OCDeclare
	if o.NoiseThreshold < 0 || o.NoiseThreshold > 1 {
		v.addError("oc_declare", "validate_noise_threshold", "noise threshold must be within [0,1]")
	}
	if _, ok := ocdeclare.ParseO2OMode(o.O2OMode); !ok {
		v.addError("oc_declare", "validate_o2o_mode", fmt.Sprintf("invalid o2o mode: %s", o.O2OMode))
	}
	if _, ok := ocdeclare.ParseReductionMode(o.Reduction); !ok {
		v.addError("oc_declare", "validate_reduction", fmt.Sprintf("invalid reduction mode: %s", o.Reduction))
	}
	for _, at := range o.ConsideredArcTypes {
		if _, ok := ocdeclare.ParseArcType(at); !ok {
			v.addError("oc_declare", "validate_arc_types", fmt.Sprintf("invalid arc type: %s", at))
		}
	}
}

func (v *ConfigValidator) validateWorkers() {
	if v.config.Workers.QueueSize <= 0 {
		v.addError("workers", "validate_queue_size", "queue size must be positive")
	}
	if v.config.Workers.MaxWorkers < 0 {
		v.addError("workers", "validate_max_workers", "max workers cannot be negative")
	}
	if v.config.Workers.QueueSize > 1000000 {
		v.addError("workers", "validate_queue_size", "queue size too large (max 1,000,000)")
	}
}

func (v *ConfigValidator) buildValidationError() error {
	if len(v.errors) == 1 {
		return v.errors[0]
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return errors.ConfigError("validate", fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; ")))
}
