package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/decaf/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
		{"surrounding space", " error ", log.ErrorLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := logging.ParseLevel(testCase.level); got != testCase.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", testCase.level, got, testCase.expected)
			}
			if got := logging.New(testCase.level).GetLevel(); got != testCase.expected {
				t.Errorf("New(%q) level = %v, want %v", testCase.level, got, testCase.expected)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")
	logger.Debug("converted", logging.FieldPath, "a.coffee", logging.FieldEdits, 3)

	out := buf.String()
	for _, want := range []string{"converted", "path=a.coffee", "edits=3"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	// Not parallel because it modifies global state.
	original := logging.Default()
	defer logging.SetDefault(original)

	logging.SetDefault(logging.New("info"))

	logging.SetLevel("debug")
	if logging.Default().GetLevel() != log.DebugLevel {
		t.Error("SetLevel to debug failed")
	}

	logging.SetLevel("error")
	if logging.Default().GetLevel() != log.ErrorLevel {
		t.Error("SetLevel to error failed")
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("warn")
	ctx := logging.WithLogger(context.Background(), logger)
	if logging.FromContext(ctx) != logger {
		t.Error("FromContext did not return the attached logger")
	}
	if logging.FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger returned nil")
	}
}
