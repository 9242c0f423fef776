package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestNewManagerDisabledReturnsNoopTracer(t *testing.T) {
	m, err := NewManager(Config{Enabled: false}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Tracer() == nil {
		t.Fatal("expected a no-op tracer when tracing is disabled")
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown on a disabled manager should be a no-op, got %v", err)
	}
}

func TestPhaseWrapsFunctionInASpan(t *testing.T) {
	m, err := NewManager(Config{Enabled: false}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	called := false
	err = Phase(context.Background(), m.Tracer(), "projection", func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected the wrapped function to run")
	}
}

func TestPhasePropagatesError(t *testing.T) {
	m, _ := NewManager(Config{Enabled: false}, testLogger())
	want := errors.New("dfg construction failed")

	got := Phase(context.Background(), m.Tracer(), "dfg_build", func(ctx context.Context) error {
		return want
	})
	if got != want {
		t.Errorf("expected Phase to propagate the inner error, got %v", got)
	}
}

func TestSpanContextChildNesting(t *testing.T) {
	m, _ := NewManager(Config{Enabled: false}, testLogger())
	parent := StartSpan(context.Background(), m.Tracer(), "discovery")
	defer parent.End()

	child := parent.Child("repair")
	defer child.End()

	if child.Context() == nil {
		t.Error("expected child span to carry a context")
	}
}
