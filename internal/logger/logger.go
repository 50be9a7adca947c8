package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines how the global logger is built
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	File   string // empty means stderr
}

var (
	globalLogger *zap.Logger
	mu           sync.Mutex
)

// DefaultConfig reads LOG_LEVEL and LOG_FORMAT, falling back to warn/console
func DefaultConfig() Config {
	return Config{
		Level:  getEnv("LOG_LEVEL", "warn"),
		Format: getEnv("LOG_FORMAT", "console"),
	}
}

// Build creates a logger from the config without touching the global one
func Build(cfg Config) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	format := strings.ToLower(cfg.Format)
	if format != "json" {
		format = "console"
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	}

	output := "stderr"
	if cfg.File != "" {
		output = cfg.File
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:          format,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	return zapConfig.Build()
}

// Initialize replaces the global logger. On a build error the previous
// logger is kept and the error returned.
func Initialize(cfg Config) error {
	l, err := Build(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	old := globalLogger
	globalLogger = l
	mu.Unlock()

	if old != nil {
		_ = old.Sync()
	}
	return nil
}

// Get returns the global logger, building a default one on first use
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		l, err := Build(DefaultConfig())
		if err != nil {
			l = zap.NewNop()
		}
		globalLogger = l
	}
	return globalLogger
}

// Named returns a child of the global logger for a component
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// Sync flushes any buffered log entries
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.ToLower(value)
	}
	return fallback
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
