package config

import (
	"testing"

	"ssw-process-mining/pkg/types"
)

func validConfig() *types.Config {
	config := &types.Config{}
	applyDefaults(config)
	return config
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(validConfig()); err != nil {
		t.Errorf("expected defaulted config to validate cleanly, got %v", err)
	}
}

func TestValidateConfigRejectsEmptyAppName(t *testing.T) {
	config := validConfig()
	config.App.Name = ""

	if err := ValidateConfig(config); err == nil {
		t.Error("expected an empty application name to fail validation")
	}
}

func TestValidateConfigRejectsInvalidLogLevel(t *testing.T) {
	config := validConfig()
	config.App.LogLevel = "verbose"

	if err := ValidateConfig(config); err == nil {
		t.Error("expected an invalid log level to fail validation")
	}
}

func TestValidateConfigRejectsPortConflict(t *testing.T) {
	config := validConfig()
	config.Server.Enabled = true
	config.Server.Port = 9000
	config.Metrics.Port = 9000

	if err := ValidateConfig(config); err == nil {
		t.Error("expected a server/metrics port conflict to fail validation")
	}
}

func TestValidateConfigRejectsOutOfRangeNoiseThreshold(t *testing.T) {
	config := validConfig()
	config.OCDeclare.NoiseThreshold = 1.5

	if err := ValidateConfig(config); err == nil {
		t.Error("expected a noise threshold above 1 to fail validation")
	}
}

func TestValidateConfigRejectsUnknownO2OMode(t *testing.T) {
	config := validConfig()
	config.OCDeclare.O2OMode = "sideways"

	if err := ValidateConfig(config); err == nil {
		t.Error("expected an unknown o2o mode to fail validation")
	}
}

func TestValidateConfigRejectsUnknownArcType(t *testing.T) {
	config := validConfig()
	config.OCDeclare.ConsideredArcTypes = []string{"XX"}

	if err := ValidateConfig(config); err == nil {
		t.Error("expected an unknown arc type to fail validation")
	}
}

func TestValidateConfigRejectsNonPositiveQueueSize(t *testing.T) {
	config := validConfig()
	config.Workers.QueueSize = 0

	if err := ValidateConfig(config); err == nil {
		t.Error("expected a zero worker queue size to fail validation")
	}
}

func TestValidateConfigAggregatesMultipleErrors(t *testing.T) {
	config := validConfig()
	config.App.Name = ""
	config.App.LogLevel = "verbose"

	err := ValidateConfig(config)
	if err == nil {
		t.Fatal("expected multiple validation failures to produce an error")
	}
}
