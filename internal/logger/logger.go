// Package logger provides verbose logging for the Vendee engine.
// With --verbose, parse, match and dispatch traces go to stderr.
// Errors are always written.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose toggles verbose output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether verbose output is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Tests swap in a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// logf writes one tagged line. Only levelError ignores the verbose gate.
func logf(lvl level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && lvl != levelError {
		return
	}
	fmt.Fprintf(output, "["+string(lvl)+"] "+format+"\n", args...)
}

// Debug traces pipeline internals.
func Debug(format string, args ...any) { logf(levelDebug, format, args...) }

// Info reports pipeline progress.
func Info(format string, args ...any) { logf(levelInfo, format, args...) }

// Warn reports recoverable problems such as a failed event publish.
func Warn(format string, args ...any) { logf(levelWarn, format, args...) }

// Error reports failures regardless of verbosity.
func Error(format string, args ...any) { logf(levelError, format, args...) }

// Section marks the start of a pipeline stage, e.g. "SmartBuy".
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
