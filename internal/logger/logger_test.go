// ABOUTME: Tests for logger setup
// ABOUTME: Verifies level parsing, output format, and the TUI log file

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_JSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Init("info", "json", &buf)
	slog.Debug("hidden")
	slog.Info("Logged in", "username", "alice")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if entry["username"] != "alice" {
		t.Errorf("expected username attribute, got %v", entry)
	}
}

func TestInitFile_WritesDebugLog(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	dir := filepath.Join(t.TempDir(), "hrms")
	closeFn, err := InitFile("debug", "text", dir)
	if err != nil {
		t.Fatalf("InitFile() error: %v", err)
	}
	slog.Debug("Gateway request", "path", "/api/companies")
	closeFn()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "/api/companies") {
		t.Errorf("expected log line in file, got %q", data)
	}
}

func TestInitFile_EmptyDirDiscards(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	closeFn, err := InitFile("info", "text", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	closeFn()
}
