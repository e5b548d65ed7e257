package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		SetLevel(tt.input)
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("SetLevel(%q) global level = %v, want %v", tt.input, got, tt.want)
		}
		if got := log.Logger.GetLevel(); got != tt.want {
			t.Errorf("SetLevel(%q) package logger level = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer

	if w := Writer(&buf, false); w != &buf {
		t.Errorf("JSON output should write straight to the buffer")
	}

	l := zerolog.New(Writer(&buf, true))
	l.Info().Str("sku", "S1").Msg("hello")
	if out := buf.String(); !strings.Contains(out, "hello") || !strings.Contains(out, "sku=") {
		t.Errorf("unexpected console output %q", out)
	}
}
