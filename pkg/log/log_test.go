package log

import (
	"context"
	"testing"
)

func TestTestLogger_CapturesStructuredFields(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	logger.Info("Training started",
		OperationKey, "fit",
		SamplesKey, 1000,
		InducingPointsKey, 50,
	)

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !logger.ContainsField(OperationKey, "fit") {
		t.Error("expected ml.operation=fit in log output")
	}
	if !logger.ContainsMessage("Training started") {
		t.Error("expected message in log output")
	}
}

func TestTestLogger_LevelFiltering(t *testing.T) {
	logger, buffer := NewTestLogger(LevelWarn)

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	if logger.ContainsMessage("dropped") {
		t.Error("debug/info messages should be filtered at warn level")
	}
	if !logger.ContainsMessage("kept") {
		t.Errorf("warn message missing, buffer: %q", buffer.String())
	}
}

func TestTestLogger_WithChaining(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	child := logger.With(ComponentKey, "gaussian_process")
	child.Info("Predict finished")

	tl := child.(*TestLogger)
	if !tl.ContainsField(ComponentKey, "gaussian_process") {
		t.Error("expected component field from With chain")
	}
}

func TestDefaultProvider(t *testing.T) {
	logger := GetLoggerWithName("test-component")
	if logger == nil {
		t.Fatal("GetLoggerWithName returned nil")
	}

	SetLevel(LevelError)
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at error level")
	}
	SetLevel(LevelInfo)
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at info level")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
