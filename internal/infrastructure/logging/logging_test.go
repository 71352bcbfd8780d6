package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	log, err := New("dev", "")
	if err != nil {
		t.Fatalf("nop construction failed: %v", err)
	}
	// Must not panic and must not touch the terminal.
	log.Info("hello", "key", "value")
	log.Sync()
}

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docchat.log")

	log, err := New("dev", path)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	log.Info("startup complete", "server", "http://localhost:8000")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "startup complete") {
		t.Errorf("log entry missing from file: %q", string(data))
	}
}

func TestWith_CarriesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docchat.log")

	log, err := New("dev", path)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	log.With("component", "backend").Error("request failed")
	log.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "backend") {
		t.Errorf("expected component field in output: %q", string(data))
	}
}
