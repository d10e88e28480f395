package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_IsNop(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("Log must not be nil")
	}
	if l.Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("new logger should discard everything")
	}
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"Info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel, zapcore.DebugLevel - 1},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New()
			if err := l.Init(tt.level); err != nil {
				t.Fatalf("Init(%q) failed: %v", tt.level, err)
			}
			if !l.Log.Core().Enabled(tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if l.Log.Core().Enabled(tt.muted) {
				t.Errorf("level %v should be muted", tt.muted)
			}
		})
	}
}

func TestInit_BadLevel(t *testing.T) {
	l := New()
	err := l.Init("loud")
	if err == nil || !strings.Contains(err.Error(), "parse log level") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if l.Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("failed Init must keep the no-op logger")
	}
}

func TestInitTo_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	l := New()
	if err := l.InitTo("info", path); err != nil {
		t.Fatalf("InitTo failed: %v", err)
	}
	l.Log.Info("vault loaded", zap.Int("credentials", 2))
	_ = l.Log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"vault loaded"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}
