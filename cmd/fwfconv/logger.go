package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envLogLevel overrides the default log level (warn). Accepts zap level
// names, plus DEVELOPMENT (debug) and PRODUCTION (info).
const envLogLevel = "FWFCONV_LOG_LEVEL"

// newLogger builds a console logger writing to w. verbose forces debug.
func newLogger(w io.Writer, verbose bool) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	switch v := strings.TrimSpace(os.Getenv(envLogLevel)); strings.ToUpper(v) {
	case "":
	case "DEVELOPMENT":
		level.SetLevel(zapcore.DebugLevel)
	case "PRODUCTION":
		level.SetLevel(zapcore.InfoLevel)
	default:
		if err := level.UnmarshalText([]byte(strings.ToLower(v))); err != nil {
			return nil, fmt.Errorf("%s: %w", envLogLevel, err)
		}
	}
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar(), nil
}
