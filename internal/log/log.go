// Package log writes leveled messages to stderr. Stdout carries the LSP
// stream, so nothing here may write to it.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is the severity of a message
type Level int

const (
	// LevelDebug covers per-request detail, e.g. skipped breakpoints
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelLabels = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelLabels[l]
}

// ParseLevel maps "debug", "info", "warn" or "error" to a Level. Unknown
// names return LevelInfo and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

type logger struct {
	mu  sync.Mutex
	out io.Writer
	min Level
}

var std = &logger{out: os.Stderr, min: LevelInfo}

// SetOutput redirects messages. A nil writer discards them.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	std.out = w
	std.mu.Unlock()
}

// SetLevel sets the least severe level that is written
func SetLevel(level Level) {
	std.mu.Lock()
	std.min = level
	std.mu.Unlock()
}

// GetLevel returns the current threshold
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.min
}

func Debug(format string, args ...any) { std.printf(LevelDebug, format, args...) }
func Info(format string, args ...any)  { std.printf(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { std.printf(LevelWarn, format, args...) }
func Error(format string, args ...any) { std.printf(LevelError, format, args...) }

// printf writes "[RRLS] LEVEL: message"
func (l *logger) printf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.min || l.out == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, "[RRLS] %s: %s\n", level, fmt.Sprintf(format, args...))
}
