// Package logging builds the zap logger shared by the server and CLI.
//
// Console output always goes to stderr because stdout carries the MCP
// protocol. When a log file is configured, JSON entries are also written to
// it with size-based rotation.
package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the optional log file.
const (
	DefaultMaxSizeMB  = 50
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 14
)

// Options configures New.
type Options struct {
	// Level is a level name such as "debug" or "warn". Unknown or empty
	// values mean info.
	Level string

	// File is the path of the rotating JSON log file. Empty disables it.
	File string
}

// New returns a logger writing human-readable entries to stderr and, when
// opts.File is set, JSON entries to a rotating file.
func New(opts Options) *zap.Logger {
	return NewWithWriters(opts, zapcore.Lock(os.Stderr), fileWriter(opts.File))
}

// NewWithWriters is New with explicit destinations. file may be nil.
func NewWithWriters(opts Options, console, file zapcore.WriteSyncer) *zap.Logger {
	level := ParseLevel(opts.Level, zapcore.InfoLevel)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), console, level),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), file, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// ParseLevel maps a level name to a zap level, case-insensitively. It returns
// fallback for empty or unknown names.
func ParseLevel(s string, fallback zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return fallback
	}
}

func fileWriter(path string) zapcore.WriteSyncer {
	if path == "" {
		return nil
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	})
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := jsonEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
	return cfg
}
