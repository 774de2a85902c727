package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"kiln/internal/logger"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		verbose   bool
		wantDebug bool
	}{
		{false, false},
		{true, true},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		logger.InitWriter(&buf, test.verbose, true)

		log.Debug("running", "cmd", "nasm")
		log.Info("Built executable")
		log.Warn("cache unavailable")

		out := buf.String()
		if got := strings.Contains(out, "running"); got != test.wantDebug {
			t.Errorf("verbose=%v: debug shown = %v\n%s", test.verbose, got, out)
		}
		if !strings.Contains(out, "KILN") || !strings.Contains(out, "cache unavailable") {
			t.Errorf("verbose=%v: warning missing\n%s", test.verbose, out)
		}
		if !test.verbose && strings.Contains(out, "Built executable") {
			t.Errorf("info shown outside verbose mode\n%s", out)
		}
	}
}
