package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	Initialize()
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetLevel("debug")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %v", zerolog.GlobalLevel())
	}

	SetLevel("not-a-level")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Invalid level should keep debug, got %v", zerolog.GlobalLevel())
	}

	SetLevel("WARN")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("Expected warn level, got %v", zerolog.GlobalLevel())
	}
}
