// Package logging builds the *slog.Logger handed to spool.WithLogger. Records
// are encoded by zap, so output matches services that already log with zap.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Config defines the logging configuration
type Config struct {
	// Level is the log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Format is the log format (json, console)
	Format string `yaml:"format" json:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
	}
}

// New returns a logger writing to stderr.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	core := NewCore(cfg, zapcore.AddSync(w))
	return slog.New(zapslog.NewHandler(core, zapslog.WithName("spool")))
}

// NewZap returns the zap logger sharing the same encoding, for callers that
// log through zap directly.
func NewZap(cfg *Config, w io.Writer) *zap.Logger {
	return zap.New(NewCore(cfg, zapcore.AddSync(w)))
}

func NewCore(cfg *Config, ws zapcore.WriteSyncer) zapcore.Core {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return zapcore.NewCore(encoder(cfg.Format), zapcore.Lock(ws), ParseLevel(cfg.Level))
}

func encoder(format string) zapcore.Encoder {
	if strings.EqualFold(format, "console") {
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "level"
	encoderConfig.MessageKey = "msg"
	encoderConfig.CallerKey = "caller"
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// ParseLevel maps a level name to zap; unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
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
