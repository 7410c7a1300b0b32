// Package logging provides centralized structured logging for pigeist.
// It wraps zap.Logger and allows runtime-configurable level, output streams, and file logging.
package logging

import (
	"os"

	"github.com/mfulz/pigeist/internal/configloader"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents the logging configuration as defined in the global YAML config.
type Config struct {
	Level      string `mapstructure:"level" yaml:"level"`             // "debug", "info", "warn", "error"
	ToStdout   bool   `mapstructure:"to_stdout" yaml:"to_stdout"`     // Enable output to stdout
	ToStderr   bool   `mapstructure:"to_stderr" yaml:"to_stderr"`     // Enable output to stderr
	ToFile     bool   `mapstructure:"to_file" yaml:"to_file"`         // Enable output to file
	FilePath   string `mapstructure:"file" yaml:"file"`               // Log file path, e.g. /var/log/pigeist.log
	MaxSizeMB  int    `mapstructure:"max_size" yaml:"max_size"`       // Max size before rotation (in MB)
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`         // Max age of logs (in days)
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"` // Number of rotated backups to keep
	Compress   bool   `mapstructure:"compress" yaml:"compress"`       // Gzip compress old log files
}

// Log is the globally accessible sugared logger instance.
var Log *zap.SugaredLogger

// Init initializes the global logger based on the registered config.
func Init() error {
	Log = build(configloader.MustGetConfig[*Config](), true)
	return nil
}

// InitFileOnly re-initializes the global logger without console sinks.
// Full-screen terminal sessions use it so log lines don't tear the screen;
// when no file sink is configured, logging is discarded.
func InitFileOnly() error {
	Log = build(configloader.MustGetConfig[*Config](), false)
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func build(cfg *Config, console bool) *zap.SugaredLogger {
	var cores []zapcore.Core

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel
	_ = level.Set(cfg.Level) // invalid level keeps InfoLevel

	if console && cfg.ToStdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	if console && cfg.ToStderr {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}

	if cfg.ToFile && cfg.FilePath != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}

	if len(cores) == 0 {
		if !console {
			return zap.NewNop().Sugar()
		}
		// Fallback: always log to stdout
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
}

func init() {
	// default config
	cfg := &Config{
		Level:    "info",
		ToStdout: true,
	}

	configloader.RegisterConfig(cfg)
	_ = Init()
}
