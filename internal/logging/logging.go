package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger = zap.NewNop()

// L returns the process-wide logger. Before Init it is a no-op logger,
// which keeps tests quiet without any setup.
func L() *zap.Logger { return globalLogger }

// Init configures the global logger from environment variables
// (LOG_LEVEL, LOG_FORMAT) and returns it.
func Init() *zap.Logger {
	level := parseLevel(getenvDefault("LOG_LEVEL", "info"))

	var enc zapcore.Encoder
	if strings.EqualFold(getenvDefault("LOG_FORMAT", "console"), "json") {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), level)
	globalLogger = zap.New(core)
	return globalLogger
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
