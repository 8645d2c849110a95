package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
	}{
		{"info hides debug", log.InfoLevel, false},
		{"debug shows debug", log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("routing", "cells", 42)

			if got := strings.Contains(buf.String(), "cells=42"); got != tt.debug {
				t.Errorf("debug output present = %v, want %v:\n%s", got, tt.debug, buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Rendered board.toml", "links", 3, "fallbacks", 1)

	out := buf.String()
	for _, want := range []string{"Rendered board.toml", "links=3", "fallbacks=1", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressQuietAboveInfo(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.WarnLevel)).done("Laid out graph.dot")
	if buf.Len() != 0 {
		t.Errorf("progress should be silent at warn level, got %q", buf.String())
	}
}
