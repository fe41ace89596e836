// Package logging provides config-driven categorized file logging for coldcase.
// Logs are written to <workspace>/.coldcase/logs/ with one file per category and
// day. When debug mode is off nothing is written and every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config, case loading
	CategorySession Category = "session" // Command dispatch and state transitions
	CategoryArchive Category = "archive" // Lock state changes
	CategoryAPI     Category = "api"     // Assistant calls
	CategoryUI      Category = "ui"      // Terminal events, clipboard
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	DebugMode  bool
	Level      string // debug, info, warn, error
	JSONFormat bool
	Categories map[string]bool // missing categories default to enabled
}

// Logger is a category logger. The zero value and a nil *Logger discard
// everything.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*Logger)
	logsDir string
	opts    Options
	level   zapcore.Level = zapcore.InfoLevel
)

// Initialize sets up the logs directory under workspace. It must be called once
// at startup; until it is, every category logs nowhere.
func Initialize(workspace string, o Options) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	CloseAll()

	mu.Lock()
	opts = o
	logsDir = ""
	level = zapcore.InfoLevel
	if o.Level != "" {
		if l, err := zapcore.ParseLevel(o.Level); err == nil {
			level = l
		}
	}
	mu.Unlock()

	if !o.DebugMode {
		return nil
	}

	dir := filepath.Join(workspace, ".coldcase", "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	mu.Lock()
	logsDir = dir
	mu.Unlock()

	Boot("=== coldcase logging initialized ===")
	Boot("workspace=%s logs=%s level=%s json=%v", workspace, dir, level, o.JSONFormat)
	return nil
}

// IsDebugMode returns whether file logging is on.
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return opts.DebugMode && logsDir != ""
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if !opts.DebugMode {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, ok := opts.Categories[string(category)]
	return !ok || enabled
}

// Get returns (or creates) the logger for category.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	dir := logsDir
	mu.RUnlock()
	if dir == "" {
		return &Logger{category: category}
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", name, err)
		return &Logger{category: category}
	}

	core := zapcore.NewCore(newEncoder(opts.JSONFormat), zapcore.AddSync(file), level)
	l := &Logger{
		category: category,
		file:     file,
		sugar:    zap.New(core).Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

func newEncoder(json bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if json {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// With returns a logger that attaches the key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l == nil || l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// CloseAll flushes and closes every open log file.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for cat, l := range loggers {
		if l.sugar != nil {
			_ = l.sugar.Sync()
		}
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

// Convenience helpers, one pair per category.

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }

func Session(format string, args ...interface{})      { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }

func Archive(format string, args ...interface{})      { Get(CategoryArchive).Info(format, args...) }
func ArchiveDebug(format string, args ...interface{}) { Get(CategoryArchive).Debug(format, args...) }

func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }

func UI(format string, args ...interface{})      { Get(CategoryUI).Info(format, args...) }
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }
