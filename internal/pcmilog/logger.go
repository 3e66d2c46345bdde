// Package pcmilog wraps the standard log package with a per-session
// correlation ID, tagging diagnostics with the controller identifier the
// way a long-running field device client needs to for multi-session logs.
package pcmilog

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger prefixes every line with a session correlation ID, so log output
// from concurrent Client sessions against different controllers can be told
// apart.
type Logger struct {
	sessionID string
	minLevel  Level
	out       *log.Logger
}

// New builds a Logger writing to w, prefixed with a fresh UUID-derived
// session ID. prefix is typically the controller serial number or a
// caller-chosen label; pass "" before a serial number is known.
func New(w io.Writer, prefix string, minLevel Level) *Logger {
	sessionID := uuid.NewString()
	tag := sessionID[:8]
	if prefix != "" {
		tag = prefix + "/" + tag
	}
	return &Logger{
		sessionID: sessionID,
		minLevel:  minLevel,
		out:       log.New(w, fmt.Sprintf("[%s] ", tag), log.LstdFlags),
	}
}

// NewDefault builds a Logger writing to stderr at LevelInfo.
func NewDefault(prefix string) *Logger {
	return New(os.Stderr, prefix, LevelInfo)
}

// SessionID returns the full UUID assigned to this logger at creation.
func (l *Logger) SessionID() string { return l.sessionID }

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	l.out.Printf("%s %s", level, fmt.Sprintf(format, args...))
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
