package lfn

import (
	"context"
	"log/slog"
)

// DebugLevel selects how much of the long-name machinery's work is logged.
// Each level includes everything the levels below it log.
type DebugLevel uint8

const (
	// DebugOff logs nothing below warnings.
	DebugOff DebugLevel = iota
	// DebugLookup logs path and file lookups and mutating operations.
	DebugLookup
	// DebugChain additionally logs per-entry progress during a directory
	// scan.
	DebugChain
	// DebugAll logs everything. It has the same floor as DebugChain: the
	// package emits no record below the per-entry trace level, and the
	// scanner itself does not log.
	DebugAll
)

const slogLevelTrace = slog.LevelDebug - 2

// Level returns the slog level floor the debug level corresponds to:
// records below the floor are suppressed even if the logger's own handler
// would accept them.
func (d DebugLevel) Level() slog.Level {
	switch d {
	case DebugLookup:
		return slog.LevelDebug
	case DebugChain, DebugAll:
		return slogLevelTrace
	default:
		return slog.LevelWarn
	}
}

func (d DebugLevel) String() string {
	switch d {
	case DebugOff:
		return "off"
	case DebugLookup:
		return "lookup"
	case DebugChain:
		return "chain"
	case DebugAll:
		return "all"
	}
	return "unknown"
}

// Config carries the filesystem-wide knobs of the long-name subsystem. The
// zero value is a case-sensitive resolver that logs nothing.
type Config struct {
	// CaseInsensitive makes every name comparison during lookup use Unicode
	// case folding (UTF8CaseCmp) instead of exact codepoint order.
	CaseInsensitive bool
	// DebugLevel floors which records reach Logger; see DebugLevel.
	DebugLevel DebugLevel
	// Logger receives structured diagnostics. A nil Logger disables logging
	// entirely regardless of DebugLevel.
	Logger *slog.Logger
}

func (cfg *Config) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	if cfg.Logger != nil && level >= cfg.DebugLevel.Level() {
		cfg.Logger.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

func (cfg *Config) trace(msg string, attrs ...slog.Attr) {
	cfg.logattrs(slogLevelTrace, msg, attrs...)
}
func (cfg *Config) debug(msg string, attrs ...slog.Attr) {
	cfg.logattrs(slog.LevelDebug, msg, attrs...)
}
func (cfg *Config) warn(msg string, attrs ...slog.Attr) {
	cfg.logattrs(slog.LevelWarn, msg, attrs...)
}
