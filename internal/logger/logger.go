// Package logger is the leveled logger used by the fetcher and the catalog
// server. Messages go to stderr so that prompts and summaries on stdout stay
// readable.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to InfoLevel
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
}

// Logger writes leveled entries to an output
type Logger struct {
	mu     sync.Mutex
	config Config
	out    io.Writer
	now    func() time.Time
}

// Field is a structured key/value attached to an entry
type Field struct {
	Key   string
	Value any
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

type entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

var levelColors = map[Level]string{
	DebugLevel: "\033[36m",
	InfoLevel:  "\033[32m",
	WarnLevel:  "\033[33m",
	ErrorLevel: "\033[31m",
}

// New creates a logger writing to out
func New(config Config, out io.Writer) *Logger {
	return &Logger{config: config, out: out, now: time.Now}
}

// Log writes one entry if level is enabled
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if level < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var line string
	if l.config.JSON {
		line = l.formatJSON(level, message, fields)
	} else {
		line = l.formatPretty(level, message, fields)
	}
	fmt.Fprintln(l.out, line)
}

func (l *Logger) formatJSON(level Level, message string, fields []Field) string {
	e := entry{
		Time:      l.now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
	}
	if len(fields) > 0 {
		e.Fields = make(map[string]any, len(fields))
		for _, f := range fields {
			e.Fields[f.Key] = f.Value
		}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","message":"log marshal failed: %s"}`, err)
	}
	return string(data)
}

func (l *Logger) formatPretty(level Level, message string, fields []Field) string {
	var b strings.Builder

	b.WriteString(l.now().Format("2006-01-02 15:04:05"))

	name := level.String()
	if l.config.UseColor {
		name = levelColors[level] + name + "\033[0m"
	}
	fmt.Fprintf(&b, " [%s]", name)

	if l.config.Component != "" {
		fmt.Fprintf(&b, " %s:", l.config.Component)
	}
	b.WriteString(" ")
	b.WriteString(message)

	// Fields keep call order so lines read the same run to run.
	if len(fields) > 0 {
		b.WriteString(" {")
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", f.Key, f.Value)
		}
		b.WriteString("}")
	}
	return b.String()
}

// Debug logs at DebugLevel
func (l *Logger) Debug(message string, fields ...Field) { l.Log(DebugLevel, message, fields...) }

// Info logs at InfoLevel
func (l *Logger) Info(message string, fields ...Field) { l.Log(InfoLevel, message, fields...) }

// Warn logs at WarnLevel
func (l *Logger) Warn(message string, fields ...Field) { l.Log(WarnLevel, message, fields...) }

// Error logs at ErrorLevel
func (l *Logger) Error(message string, fields ...Field) { l.Log(ErrorLevel, message, fields...) }

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(Config{Level: InfoLevel, Component: "wardrobe"}, os.Stderr)
)

// Initialize replaces the default logger
func Initialize(config Config) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = New(config, os.Stderr)
}

// Default returns the package-level logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetOutput redirects the default logger. Useful for tests.
func SetOutput(w io.Writer) {
	l := Default()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func Debug(message string, fields ...Field) { Default().Debug(message, fields...) }

func Info(message string, fields ...Field) { Default().Info(message, fields...) }

func Warn(message string, fields ...Field) { Default().Warn(message, fields...) }

func Error(message string, fields ...Field) { Default().Error(message, fields...) }
