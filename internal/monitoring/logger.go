// Package monitoring holds the swappable diagnostic logger shared by the
// curvature pipeline packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger used across the pipeline.
// It defaults to log.Printf and may be replaced by SetLogger; tests
// typically mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
