// Package logging builds the application's zap loggers from plain options,
// keeping the logging setup independent of how configuration is loaded.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Level  string // debug | info | warn | error (default info)
	Format string // console | json (default console)
}

// New builds a *zap.Logger writing to stderr. An unknown level falls back
// to info; any format other than "json" gets the human-readable console
// encoder.
func New(opts Options) *zap.Logger {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch opts.Format {
	case "json":
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *zap.Logger { return zap.NewNop() }
