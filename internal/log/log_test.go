package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerWritesLeveledLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf, Prefix: "draftsmith"})

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	out := buf.String()
	for _, want := range []string{"DEBUG", "INFO", "WARN", "ERROR", "draftsmith"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("wrote %d lines, want 4", got)
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("quiet")
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("low-severity lines leaked:\n%s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn line missing:\n%s", out)
	}
}

func TestLoggerFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.Info("moved %d entities to %q", 3, "0")

	if !strings.Contains(buf.String(), `moved 3 entities to "0"`) {
		t.Errorf("unformatted output: %s", buf.String())
	}
}

func TestWithComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelInfo, Output: &buf})

	root.WithComponent("session").Info("started")
	root.Info("untagged")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "[session]") {
		t.Errorf("derived line missing component tag: %s", lines[0])
	}
	if strings.Contains(lines[1], "[") {
		t.Errorf("root line should carry no component tag: %s", lines[1])
	}
}

func TestNullDiscards(t *testing.T) {
	Null.Debug("x")
	Null.Info("x")
	Null.Warn("x")
	Null.Error("x")
	Null.WithComponent("tui").Error("x")
}
