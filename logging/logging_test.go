package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/logging"
)

func TestNew_RespectsLevel(t *testing.T) {
	log := logging.New(logging.Options{Level: "warn"})
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled at warn level")
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := logging.New(logging.Options{Level: "shouting"})
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled after fallback")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info disabled after fallback")
	}
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"console", "json", ""} {
		log := logging.New(logging.Options{Level: "info", Format: format})
		if log == nil {
			t.Fatalf("format %q: nil logger", format)
		}
		log.Info("probe") // must not panic
	}
}

func TestNop(t *testing.T) {
	log := logging.Nop()
	if log == nil {
		t.Fatal("nil logger")
	}
	log.Error("discarded")
}
