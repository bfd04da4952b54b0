package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
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

// ParseLevel converts a config string ("debug", "info", "warn", "error") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	mu      sync.Mutex
	level   = LevelInfo
	console = log.New(os.Stderr, "", log.LstdFlags)
	fileLog *log.Logger
	file    *os.File
)

// SetLevel sets the minimum level written to the console. The file sink
// always receives every level.
func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// CurrentLevel returns the console level.
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// SetOutput redirects console output. Mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	console = log.New(w, "", log.LstdFlags)
	mu.Unlock()
}

// OpenFile starts mirroring log lines into a timestamped file under dir.
func OpenFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("voxel_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	fileLog = log.New(f, "", log.LstdFlags)
	return name, nil
}

// Close flushes and closes the file sink, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
		fileLog = nil
	}
}

func Debug(format string, args ...interface{}) { write(LevelDebug, format, args...) }
func Info(format string, args ...interface{})  { write(LevelInfo, format, args...) }
func Warn(format string, args ...interface{})  { write(LevelWarn, format, args...) }
func Error(format string, args ...interface{}) { write(LevelError, format, args...) }

func write(l Level, format string, args ...interface{}) {
	msg := fmt.Sprintf("[%s] %s", l, fmt.Sprintf(format, args...))

	mu.Lock()
	defer mu.Unlock()
	if fileLog != nil {
		fileLog.Println(msg)
	}
	if l >= level {
		console.Println(msg)
	}
}
