package config

import (
	"testing"
	"time"

	"ssw-process-mining/pkg/types"
)

func TestApplyDefaultsFillsEveryRequiredSection(t *testing.T) {
	config := &types.Config{}
	applyDefaults(config)

	if config.App.Name == "" || config.App.LogLevel == "" || config.App.LogFormat == "" {
		t.Errorf("expected app defaults to be filled, got %+v", config.App)
	}
	if !config.Metrics.Enabled {
		t.Error("expected metrics to default to enabled")
	}
	if config.Tracing.ServiceName != config.App.Name {
		t.Errorf("expected tracing service name to default to the app name, got %q", config.Tracing.ServiceName)
	}
	if config.OCDeclare.NoiseThreshold != 0.2 {
		t.Errorf("expected default noise threshold 0.2, got %v", config.OCDeclare.NoiseThreshold)
	}
	if len(config.OCDeclare.ConsideredArcTypes) != 5 {
		t.Errorf("expected all 5 arc types considered by default, got %v", config.OCDeclare.ConsideredArcTypes)
	}
	if config.Workers.QueueSize != 10000 {
		t.Errorf("expected default queue size 10000, got %d", config.Workers.QueueSize)
	}
	if config.TaskManager.HeartbeatInterval != 30*time.Second {
		t.Errorf("expected default heartbeat interval 30s, got %v", config.TaskManager.HeartbeatInterval)
	}
}

func TestApplyDefaultsDoesNotOverwriteExplicitValues(t *testing.T) {
	config := &types.Config{}
	config.App.Name = "custom-name"
	config.OCDeclare.NoiseThreshold = 0.5

	applyDefaults(config)

	if config.App.Name != "custom-name" {
		t.Errorf("expected explicit app name to survive defaulting, got %q", config.App.Name)
	}
	if config.OCDeclare.NoiseThreshold != 0.5 {
		t.Errorf("expected explicit noise threshold to survive defaulting, got %v", config.OCDeclare.NoiseThreshold)
	}
}

func TestApplyEnvironmentOverridesWinsOverDefaults(t *testing.T) {
	config := &types.Config{}
	applyDefaults(config)

	t.Setenv("PM_APP_NAME", "env-name")
	t.Setenv("PM_OC_DECLARE_NOISE_THRESHOLD", "0.3")

	applyEnvironmentOverrides(config)

	if config.App.Name != "env-name" {
		t.Errorf("expected PM_APP_NAME to override, got %q", config.App.Name)
	}
	if config.OCDeclare.NoiseThreshold != 0.3 {
		t.Errorf("expected PM_OC_DECLARE_NOISE_THRESHOLD to override, got %v", config.OCDeclare.NoiseThreshold)
	}
}
