package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("habit completion recorded", "habit_id", 5, "day", "2024-03-10")
	Debug("suppressed at info level")

	data, err := os.ReadFile(filepath.Join(logDir, "tally.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "habit completion recorded") {
		t.Errorf("log file missing info message: %q", content)
	}
	if strings.Contains(content, "suppressed at info level") {
		t.Errorf("debug message should not be written at info level: %q", content)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     true,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message in debug mode")

	data, err := os.ReadFile(filepath.Join(configDir, "logs", "tally.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Test debug message in debug mode") {
		t.Error("debug message missing from log file in debug mode")
	}
}

func TestWith(t *testing.T) {
	Logger = nil
	discard := With("op", "x")
	if discard == nil {
		t.Fatal("With() returned nil before Init")
	}
	discard.Info("dropped")

	if err := Init(Config{ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if With("op", "x") == nil {
		t.Error("With() returned nil after Init")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLogPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got := Config{ConfigDir: "~/.config/tally"}.LogPath()
	want := filepath.Join(home, ".config", "tally", "logs", "tally.log")
	if got != want {
		t.Errorf("LogPath() = %s, want %s", got, want)
	}
}
