// Package logging builds the logr.Logger used throughout swarmup.
//
// Loggers are backed by zap through zapr. Console output is meant for an
// operator watching a bootstrap run; JSON output is meant for CI logs.
// Verbosity level 1 (log.level=debug) adds a trace of every command run.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is console or json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger and returns it with a sync function to call before exit.
func New(opts Options) (logr.Logger, func(), error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), func() {}, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch opts.Format {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return logr.Discard(), func() {}, fmt.Errorf("unknown log format %q", opts.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	zl := zap.New(core)

	sync := func() { _ = zl.Sync() }
	return zapr.NewLogger(zl), sync, nil
}

// WithRunID tags every entry of log with a fresh run identifier so that
// entries from one bootstrap run can be grepped out of shared CI logs.
func WithRunID(log logr.Logger) (logr.Logger, string) {
	id := uuid.NewString()
	return log.WithValues("run", id), id
}

// parseLevel maps a level name to a zap level. zapr turns logr's V(1) into
// zap's debug level, so "debug" enables command traces.
func parseLevel(name string) (zapcore.Level, error) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}
