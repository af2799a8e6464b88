package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"DEBUG", zerolog.DebugLevel},
	}
	for _, tt := range cases {
		t.Run(tt.input, func(t *testing.T) {
			logger := New(tt.input, "json")
			if logger.GetLevel() != tt.want {
				t.Fatalf("New(%q) level = %v; want %v", tt.input, logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		logger := New("info", format)
		logger.Info().Msg("probe")
	}
}
