// Package logging provides categorized loggers for the interpreter
// subsystems. Library code obtains loggers through Get; until Configure is
// called everything is a nop, so embedding the interpreter stays silent by
// default.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category names a subsystem.
type Category string

const (
	CategoryInterpreter Category = "interpreter" // step execution, plan selection
	CategoryActions     Category = "actions"     // built-in action execution
	CategoryGrammar     Category = "grammar"     // program loading
	CategoryRunner      Category = "runner"      // sweeps, message delivery
	CategoryDriver      Category = "driver"      // CLI lifecycle
)

var (
	mu    sync.RWMutex
	root  = zap.NewNop()
	named = make(map[Category]*zap.Logger)
)

// Configure installs the root logger. Category loggers are derived from it
// by name. Passing nil resets to the nop logger.
func Configure(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	root = l
	named = make(map[Category]*zap.Logger)
}

// Get returns the logger for a category.
func Get(c Category) *zap.Logger {
	mu.RLock()
	if l, ok := named[c]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := named[c]; ok {
		return l
	}
	l := root.Named(string(c))
	named[c] = l
	return l
}

// Sync flushes the root logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
