package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"ERROR", LevelError, false},
		{"bogus", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelDebug.String() != "debug" || LevelError.String() != "error" {
		t.Error("Level.String() returned unexpected values")
	}
	if Level(99).String() != "unknown" {
		t.Errorf("Level(99).String() = %q, want %q", Level(99).String(), "unknown")
	}
}

func TestGet_BeforeInit(t *testing.T) {
	// Loggers created before Init must be usable and silent
	logger := Get("preinit")
	if logger == nil {
		t.Fatal("Get() returned nil")
	}
	logger.Info("discarded")
}

func TestInitAndWrite(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "pitune.log")

	cfg := Config{
		Level: "debug",
		Path:  logPath,
		Components: map[string]string{
			"tuner": "warn",
		},
	}

	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() {
		if err := Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	logger := Get("monitor")
	logger.Info("snapshot collected", "cores", 4)

	// Component override: info from "tuner" is below its warn threshold
	tunerLogger := Get("tuner")
	tunerLogger.Info("suppressed")
	tunerLogger.Warn("governor write failed", "cpu", 1)

	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "snapshot collected") {
		t.Error("log file missing info message")
	}
	if strings.Contains(content, "suppressed") {
		t.Error("component level override not applied")
	}
	if !strings.Contains(content, "governor write failed") {
		t.Error("log file missing warn message")
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	if err == nil {
		t.Fatal("Init() with invalid level should fail")
	}
}

func TestWith(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Level: "info",
		Path:  filepath.Join(dir, "pitune.log"),
	}

	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() { _ = Close() }()

	base := Get("tuner")
	child := base.With("step", "governor")
	if child == nil {
		t.Fatal("With() returned nil")
	}
	child.Info("applied")
}
