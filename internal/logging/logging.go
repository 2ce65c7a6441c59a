// Package logging centralizes *zap.Logger construction for the rest of
// the module instead of scattering it across call sites.
package logging

import "go.uber.org/zap"

// New builds a development logger when trace is true (human-readable,
// caller-annotated, debug level and up) and a production logger otherwise
// (JSON, info level and up).
func New(trace bool) *zap.Logger {
	var l *zap.Logger
	var err error
	if trace {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// OrNop returns l unchanged, or a no-op logger if l is nil. Every
// component that accepts an optional *zap.Logger should route it through
// this so "no logger configured" never means a nil-pointer panic on the
// first log call.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
