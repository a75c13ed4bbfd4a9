package observe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// TestConfigValidate_Valid verifies that a fully valid config passes validation.
func TestConfigValidate_Valid(t *testing.T) {
	cfg := Config{
		ServiceName: "test-service",
		Version:     "1.0.0",
		Tracing: TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "stdout",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	err := cfg.Validate()
	if err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

// TestConfigValidate_MissingServiceName verifies that empty ServiceName fails validation.
func TestConfigValidate_MissingServiceName(t *testing.T) {
	cfg := Config{
		ServiceName: "",
		Version:     "1.0.0",
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("expected ErrMissingServiceName, got: %v", err)
	}
}

// TestConfigValidate_UnknownTracingExporter verifies that an unknown tracing exporter fails.
func TestConfigValidate_UnknownTracingExporter(t *testing.T) {
	cfg := Config{
		ServiceName: "test-service",
		Tracing: TracingConfig{
			Enabled:  true,
			Exporter: "unknown",
		},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidTracingExporter) {
		t.Errorf("expected ErrInvalidTracingExporter, got: %v", err)
	}
	if !strings.Contains(err.Error(), "unknown") {
		t.Errorf("expected error to name the exporter, got: %v", err)
	}
}

// TestConfigValidate_UnknownMetricsExporter verifies that an unknown metrics exporter fails.
func TestConfigValidate_UnknownMetricsExporter(t *testing.T) {
	cfg := Config{
		ServiceName: "test-service",
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "badvalue",
		},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidMetricsExporter) {
		t.Errorf("expected ErrInvalidMetricsExporter, got: %v", err)
	}
}

// TestConfigValidate_SamplePctOutOfRange verifies that SamplePct outside [0, 1] fails.
func TestConfigValidate_SamplePctOutOfRange(t *testing.T) {
	for _, pct := range []float64{-0.1, 1.5} {
		cfg := Config{
			ServiceName: "test-service",
			Tracing: TracingConfig{
				Enabled:   true,
				Exporter:  "stdout",
				SamplePct: pct,
			},
		}

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidSamplePct) {
			t.Errorf("SamplePct=%f: expected ErrInvalidSamplePct, got: %v", pct, err)
		}
	}
}

// TestConfigValidate_UnknownLogLevel verifies that an unknown log level fails.
func TestConfigValidate_UnknownLogLevel(t *testing.T) {
	cfg := Config{
		ServiceName: "test-service",
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "verbose",
		},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got: %v", err)
	}
}

// TestConfigValidate_DisabledSubsystemsSkipChecks verifies disabled subsystems
// are not validated.
func TestConfigValidate_DisabledSubsystemsSkipChecks(t *testing.T) {
	cfg := Config{
		ServiceName: "test-service",
		Tracing:     TracingConfig{Enabled: false, Exporter: "garbage", SamplePct: 42},
		Metrics:     MetricsConfig{Enabled: false, Exporter: "garbage"},
		Logging:     LoggingConfig{Enabled: false, Level: "garbage"},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error for disabled subsystems, got: %v", err)
	}
}

// TestNewObserver_Disabled verifies that a fully disabled observer still works.
func TestNewObserver_Disabled(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("expected non-nil noop tracer")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil noop meter")
	}
	if obs.Logger() == nil {
		t.Error("expected non-nil noop logger")
	}

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

// TestNewObserver_InvalidConfig verifies the config is validated up front.
func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("expected ErrMissingServiceName, got: %v", err)
	}
}

// TestNewObserver_StdoutExporters verifies the stdout pipeline wires up.
func TestNewObserver_StdoutExporters(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "test-service",
		Version:     "0.1.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer func() {
		if err := obs.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	}()

	// The observer hands out real (non-noop) components.
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected all components to be set")
	}
}

// TestNewObserver_OTLPWithoutEndpoint verifies OTLP requires an endpoint.
func TestNewObserver_OTLPWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	_, err := NewObserver(context.Background(), Config{
		ServiceName: "test-service",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 1.0},
	})
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("expected ErrEndpointNotConfigured, got: %v", err)
	}
}

// TestParseLogLevel covers the level round trip.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if LevelWarn.String() != "warn" {
		t.Errorf("LevelWarn.String() = %q", LevelWarn.String())
	}
}
