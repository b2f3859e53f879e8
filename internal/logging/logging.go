// Package logging wires up the probekit logging sinks.
//
// Every invocation gets a compact console sink on stderr. When a log file
// location is resolved, a second structured sink writes JSON records with
// source locations through a lossless non-blocking buffer, so emitting a
// record never stalls the caller on disk I/O.
package logging

import (
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/probekit/probekit/pkg/errors"
)

// EnvLogFilter names the environment variable holding the console severity
// threshold. Unset or unparsable values fall back to "error".
const EnvLogFilter = "PROBEKIT_LOG"

// Guard keeps the file sink alive. It must be held until process exit and
// closed on every exit path: Close emits the final log-complete record and
// flushes everything still buffered. A nil Guard (no file sink) is valid and
// all its methods are no-ops.
type Guard struct {
	writer *BufferedWriter
	path   string
}

// Path returns the log file location, or "" without a file sink.
func (g *Guard) Path() string {
	if g == nil {
		return ""
	}
	return g.path
}

// Close marks the log complete and flushes buffered records. Best-effort:
// flush errors are returned but the final record itself is not retried.
func (g *Guard) Close() error {
	if g == nil {
		return nil
	}
	zap.L().Info("Wrote log file", zap.String("path", g.path))
	zap.L().Sync()
	return g.writer.Close()
}

// Init installs the global logging sinks. location selects the optional file
// sink; pass "" for console-only logging. The returned Guard is nil exactly
// when location is "".
func Init(location string) (*Guard, error) {
	consoleLevel := consoleLevelFromEnv()

	consoleEncoderConfig := zapcore.EncoderConfig{
		// The console sink is for interactive use; suppress timestamps.
		TimeKey:        zapcore.OmitKey,
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig),
			zapcore.Lock(os.Stderr),
			zap.NewAtomicLevelAt(consoleLevel),
		),
	}

	var guard *Guard
	if location != "" {
		file, err := os.Create(location)
		if err != nil {
			return nil, errors.NewIOError("log file could not be created", err).WithPath(location)
		}

		writer := NewBufferedWriter(file, DefaultBufferedLines)

		fileEncoderConfig := zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		// The file sink records everything regardless of the console filter.
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig),
			zapcore.AddSync(writer),
			zap.NewAtomicLevelAt(zapcore.DebugLevel),
		))

		guard = &Guard{writer: writer, path: location}
	}

	logger := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("run_id", uuid.NewString())),
	)
	zap.ReplaceGlobals(logger)

	if guard != nil {
		zap.L().Info("Writing log file", zap.String("path", guard.path))
	}
	return guard, nil
}

func consoleLevelFromEnv() zapcore.Level {
	raw, ok := os.LookupEnv(EnvLogFilter)
	if !ok {
		return zapcore.ErrorLevel
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.ErrorLevel
	}
	return level
}
