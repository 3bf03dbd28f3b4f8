package internal

// Internal logging utility.

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"sync"
)

type Logger struct {
	lock     sync.Mutex
	logLevel LogLevel
	prefix   string
	logger   *log.Logger
}

type LogLevel int

const (
	// error levels that should almost always be printed
	LevelFatal LogLevel = iota // error that must stop the program (panics)
	LevelError                 // error that does not need to stop execution

	// debugging levels, okay to disable
	LevelWarn  // something may be wrong, but not necessarily an error
	LevelInfo  // nothing wrong, informational only
	LevelDebug // per-slice tracing

	// Production code by default only shows warnings and above.
	LogLevelDefault = LevelWarn

	// min, max levels for setting print level
	LevelMin = LevelFatal
	LevelMax = LevelDebug
)

var (
	levelToPrefix = []string{
		"FATAL ",
		"ERROR ",
		"WARN ",
		"INFO ",
		"DEBUG ",
	}
)

// NewLogger returns a logger writing to stderr. The component name, if not
// empty, is printed after the level on every line.
func NewLogger(component string) *Logger {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	prefix := ""
	if component != "" {
		prefix = component + ": "
	}
	return &Logger{logLevel: LogLevelDefault, prefix: prefix, logger: logger}
}

func (l *Logger) LogLevel() LogLevel {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.logLevel
}

// SetLogLevel returns the old level
func (l *Logger) SetLogLevel(level LogLevel) LogLevel {
	if level < LevelMin || level > LevelMax {
		panic("trying to set invalid log level")
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	old := l.logLevel
	l.logLevel = level
	return old
}

// SetOutput redirects the logger, mostly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.logger.SetOutput(w)
}

// LevelFromInt maps the public 0..4 verbosity scale onto log levels.
// Anything above the scale is clamped to LevelDebug.
func LevelFromInt(level int) LogLevel {
	switch {
	case level <= 0:
		return LevelFatal
	case level >= int(LevelMax):
		return LevelMax
	default:
		return LogLevel(level)
	}
}

func (l *Logger) output(level LogLevel, s string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if level > l.logLevel {
		return
	}
	l.logger.Output(3, levelToPrefix[level]+l.prefix+s)
}

func (l *Logger) Debug(v ...any)                 { l.output(LevelDebug, fmt.Sprintln(v...)) }
func (l *Logger) Debugf(format string, v ...any) { l.output(LevelDebug, fmt.Sprintf(format, v...)) }

func (l *Logger) Info(v ...any)                 { l.output(LevelInfo, fmt.Sprintln(v...)) }
func (l *Logger) Infof(format string, v ...any) { l.output(LevelInfo, fmt.Sprintf(format, v...)) }

func (l *Logger) Warn(v ...any)                 { l.output(LevelWarn, fmt.Sprintln(v...)) }
func (l *Logger) Warnf(format string, v ...any) { l.output(LevelWarn, fmt.Sprintf(format, v...)) }

func (l *Logger) Error(v ...any)                 { l.output(LevelError, fmt.Sprintln(v...)) }
func (l *Logger) Errorf(format string, v ...any) { l.output(LevelError, fmt.Sprintf(format, v...)) }

func (l *Logger) Fatal(v ...any) {
	log.Print(string(debug.Stack()))
	l.output(LevelFatal, fmt.Sprintln(v...))
	os.Exit(1)
}

func (l *Logger) Fatalf(format string, v ...any) {
	log.Print(string(debug.Stack()))
	l.output(LevelFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}
