package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closeLog, err := Setup(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info("hello", "rows", 10)
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(raw)
	if !strings.Contains(line, `"msg":"hello"`) || !strings.Contains(line, `"rows":10`) {
		t.Fatalf("log line = %q", line)
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closeLog, err := Setup(Options{Level: "warn", Format: "text", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(raw), "dropped") {
		t.Fatal("info line survived warn level")
	}
	if !strings.Contains(string(raw), "kept") {
		t.Fatal("warn line missing")
	}
}

func TestSetupRejectsUnknownSettings(t *testing.T) {
	if _, _, err := Setup(Options{Level: "loud"}); err == nil {
		t.Fatal("Setup accepted unknown level")
	}
	if _, _, err := Setup(Options{Format: "xml"}); err == nil {
		t.Fatal("Setup accepted unknown format")
	}
}
