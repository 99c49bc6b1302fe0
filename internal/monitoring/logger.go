// Package monitoring holds the toolkit's pluggable diagnostic logger.
// The calibration core itself never logs; the cmd tools route their
// diagnostics through Logf so callers embedding the loaders can redirect
// or mute them.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// and may be replaced with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
