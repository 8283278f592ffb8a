// Package log is the engine's leveled logger. Loggers are immutable;
// WithComponent derives a child that tags every line, so subsystems
// share one output and one level.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a message severity. Messages below the logger's level are
// dropped.
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
	}
	return "UNKNOWN"
}

// ParseLevel reads a level name case-insensitively. Unknown names fall
// back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Config sets up a root logger.
type Config struct {
	// Level is the minimum severity written.
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// Prefix, when set, opens every line.
	Prefix string
}

// Logger writes timestamped leveled lines. The zero value is unusable;
// build one with New or derive from an existing logger.
type Logger struct {
	level     Level
	prefix    string
	component string
	disabled  bool

	mu  *sync.Mutex
	out io.Writer
}

// New builds a root logger.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		level:  cfg.Level,
		prefix: cfg.Prefix,
		mu:     &sync.Mutex{},
		out:    out,
	}
}

// Null discards everything. Constructors take it when the caller passes
// a nil logger.
var Null = &Logger{disabled: true}

// WithComponent derives a logger that tags lines with the subsystem
// name. The derived logger shares the parent's output and level.
func (l *Logger) WithComponent(name string) *Logger {
	child := *l
	child.component = name
	return &child
}

// Debug logs at debug level. Args format the message as in fmt.Sprintf.
func (l *Logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.write(LevelInfo, msg, args) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.write(LevelWarn, msg, args) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }

func (l *Logger) write(level Level, msg string, args []any) {
	if l.disabled || level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if l.prefix != "" {
		b.WriteByte(' ')
		b.WriteString(l.prefix)
	}
	if l.component != "" {
		b.WriteString(" [")
		b.WriteString(l.component)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}
