// Package logx builds the daemons' zap logger: a file sink under the
// per-app state directory with a simple size-triggered roll, plus an
// optional console mirror for --verbose runs.
package logx

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to logFile, rolling it to logFile+".1"
// once it crosses maxSize bytes. Every line carries the app name and a
// per-run session id. Verbose mirrors everything to stderr at debug
// level.
func New(app, logFile, level string, maxSize int64, verbose bool) (*zap.Logger, error) {
	w, err := newRollWriter(logFile, maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, parseLevel(level)),
	}
	if verbose {
		devCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores,
			zapcore.NewCore(zapcore.NewConsoleEncoder(devCfg), zapcore.Lock(os.Stderr), zapcore.DebugLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(
		zap.String("app", app),
		zap.String("session", uuid.New().String()),
	)
	return logger, nil
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.Set(level); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
