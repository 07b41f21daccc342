// Package logging is the process-wide structured logger. Every entry is one
// JSON line with the event fields inlined next to ts/level/msg, which keeps
// the output greppable and friendly to log collectors.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

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
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown values fall back to
// info rather than failing startup.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled JSON lines. Loggers derived with WithField share the
// output and level but carry their own bound fields, so a request-scoped
// logger can stamp every line with the request id.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	fields map[string]interface{}
}

// New builds a logger writing to stdout at the level named by the LOG_LEVEL
// environment variable.
func New() *Logger {
	return &Logger{
		out:    os.Stdout,
		level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		fields: map[string]interface{}{},
	}
}

func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	return l
}

func (l *Logger) SetLevel(level Level) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	return l
}

// WithField returns a derived logger that stamps every entry with the field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a derived logger carrying the union of the bound fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, level: l.level, fields: merged}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.write(LevelDebug, msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.write(LevelInfo, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.write(LevelWarn, msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.write(LevelError, msg, fields)
}

func (l *Logger) write(level Level, msg string, extra []map[string]interface{}) {
	if level < l.level {
		return
	}

	record := make(map[string]interface{}, len(l.fields)+4)
	for k, v := range l.fields {
		record[k] = v
	}
	for _, f := range extra {
		for k, v := range f {
			record[k] = v
		}
	}
	// Reserved keys always win over field collisions.
	record["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	record["level"] = level.String()
	record["msg"] = msg

	line, err := json.Marshal(record)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"ts":%q,"level":%q,"msg":%q}`,
			record["ts"], level.String(), msg))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(line)
	l.out.Write([]byte("\n"))
}

// Default is the package-level logger used by code without an injected one.
var Default = New()

func Debug(msg string, fields ...map[string]interface{}) { Default.Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { Default.Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { Default.Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { Default.Error(msg, fields...) }
