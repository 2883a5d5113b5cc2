// Package logging provides category-scoped zap loggers for renderview.
// Each subsystem logs through a named child of one process-wide logger,
// so hosts can filter by category (link, tags, dispatch, ...) the same
// way they would filter zap namespaces anywhere else.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a renderview subsystem for log namespacing.
type Category string

const (
	CategoryLink     Category = "link"     // Action link grammar parsing
	CategoryTags     Category = "tags"     // Inline tag extraction
	CategoryDOM      Category = "dom"      // Form collection, head updates
	CategoryJSONUI   Category = "jsonui"   // JSON UI document validation
	CategoryDispatch Category = "dispatch" // Click-to-transaction engine
	CategoryLoader   Category = "loader"   // Progressive content hydration
	CategoryConfig   Category = "config"   // Configuration loading
	CategoryUI       Category = "ui"       // Terminal prompt surfaces
	CategoryWatch    Category = "watch"    // File-watch preview loop
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init builds the process-wide logger. Verbose enables debug level.
// Safe to call more than once; the last call wins.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// SetLogger replaces the process-wide logger. Tests install zaptest or
// observer-backed loggers through this.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	if l == nil {
		l = zap.NewNop()
	}
	root = l
	mu.Unlock()
}

// L returns the logger for a category.
func L(c Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(c))
}

// Sync flushes any buffered log entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
