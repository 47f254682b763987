package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level       string
		development bool
		want        zapcore.Level
	}{
		{"debug", false, zapcore.DebugLevel},
		{"INFO", false, zapcore.InfoLevel},
		{"warning", false, zapcore.WarnLevel},
		{"error", true, zapcore.ErrorLevel},
		{"development", true, zapcore.DebugLevel},
		{"production", false, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level, tt.development); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestGet_BeforeInitIsNoop(t *testing.T) {
	mu.Lock()
	global = nil
	mu.Unlock()

	l := Get()
	if l == nil || l.Logger == nil {
		t.Fatal("Get() should never return nil")
	}
	l.Info("discarded")
}

func TestInit(t *testing.T) {
	if err := Init(&Config{Level: "info", ServiceName: "junta-test"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !Get().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled")
	}
	if Get().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be disabled")
	}
}
