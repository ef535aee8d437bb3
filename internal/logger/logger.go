// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment and level.
// For "production", it uses a JSON encoder. For all other environments,
// it uses a human-readable console encoder. An empty or unknown level keeps
// the environment's default (info in production, debug otherwise).
func Init(env, level string) {
	once.Do(func() {
		var cfg zap.Config
		if env == "production" {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
		}
		if lvl, err := zapcore.ParseLevel(level); err == nil && level != "" {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}

		base, err := cfg.Build()
		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}

		Replace(base.Sugar())
	})
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l == nil {
		Init("development", "")
		mu.RLock()
		l = sugar
		mu.RUnlock()
	}
	return l
}

// Replace swaps the global logger, e.g. for an observer in tests.
func Replace(l *zap.SugaredLogger) {
	mu.Lock()
	sugar = l
	mu.Unlock()
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}
