// Package logging wraps a process-wide zap logger. Until Init is called the
// logger discards everything, so library code and tests can log freely.
package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	zapLog = zap.NewNop()
)

// ParseLevel maps ERROR/WARN/INFO/DEBUG (any case) to a zap level, defaulting to info
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return zapcore.ErrorLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "DEBUG", "TRACE":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the development logger used by the CLI
func Init(level zapcore.Level) error {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05.000000")
	encoderConfig.StacktraceKey = ""
	config.EncoderConfig = encoderConfig

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Set(logger)
	return nil
}

// Set replaces the process logger; nil restores the no-op logger
func Set(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	zapLog = logger
	mu.Unlock()
}

// L returns the current logger for injection into components
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zapLog
}

func Info(message string, fields ...zap.Field) {
	L().Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	L().Warn(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	L().Debug(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	L().Error(message, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return L().Sync()
}
