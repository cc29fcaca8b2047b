// Package logger is a small leveled file logger. The client logs to a file
// by default because stdout belongs to the TUI; console output is opt-in.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the log severity threshold.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < DEBUG || l > ERROR {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel reads a level name, case-insensitively. Unknown names fall
// back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field is one key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration.
type Config struct {
	Level      Level
	FilePath   string // empty disables file output
	MaxSize    int64  // bytes before the file is rotated aside
	MaxAge     int    // days a rotated backup is kept
	MaxBackups int    // rotated backups kept
	Console    bool   // also write to stderr
}

// Logger writes leveled, timestamped entries to a log file and optionally
// to stderr, rotating the file by size.
type Logger struct {
	mu   sync.Mutex
	cfg  Config
	file *os.File
	out  io.Writer
	size int64
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init sets up the process-wide logger. Later calls are no-ops; the first
// configuration wins.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(cfg)
	})
	return err
}

// New creates a logger. A missing log directory is created.
func New(cfg Config) (*Logger, error) {
	l := &Logger{cfg: cfg}

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := l.openFile(); err != nil {
			return nil, err
		}
	}

	l.rebuildOutput()
	return l, nil
}

func (l *Logger) openFile() error {
	f, err := os.OpenFile(l.cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	l.file = f
	l.size = info.Size()
	return nil
}

func (l *Logger) rebuildOutput() {
	var ws []io.Writer
	if l.file != nil {
		ws = append(ws, l.file)
	}
	if l.cfg.Console {
		ws = append(ws, os.Stderr)
	}
	switch len(ws) {
	case 0:
		l.out = io.Discard
	case 1:
		l.out = ws[0]
	default:
		l.out = io.MultiWriter(ws...)
	}
}

// rotate moves the current file aside under a timestamped name and prunes
// old backups past MaxBackups or MaxAge. Called with l.mu held.
func (l *Logger) rotate() error {
	if l.file == nil {
		return nil
	}
	l.file.Close()
	l.file = nil

	backup := fmt.Sprintf("%s.%s", l.cfg.FilePath, time.Now().Format("20060102-150405"))
	if err := os.Rename(l.cfg.FilePath, backup); err != nil && !os.IsNotExist(err) {
		return err
	}
	l.pruneBackups()

	if err := l.openFile(); err != nil {
		return err
	}
	l.rebuildOutput()
	return nil
}

func (l *Logger) pruneBackups() {
	matches, err := filepath.Glob(l.cfg.FilePath + ".*")
	if err != nil || len(matches) == 0 {
		return
	}
	sort.Strings(matches) // timestamped suffixes sort oldest first

	cutoff := time.Now().AddDate(0, 0, -l.cfg.MaxAge)
	keepFrom := 0
	if l.cfg.MaxBackups > 0 && len(matches) > l.cfg.MaxBackups {
		keepFrom = len(matches) - l.cfg.MaxBackups
	}
	for i, path := range matches {
		if i < keepFrom {
			os.Remove(path)
			continue
		}
		if l.cfg.MaxAge > 0 {
			if info, err := os.Stat(path); err == nil && info.ModTime().Before(cutoff) {
				os.Remove(path)
			}
		}
	}
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if level < l.cfg.Level {
		return
	}

	caller := "???"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	fmt.Fprintf(&b, " %-5s %s: %s", level, caller, msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	b.WriteByte('\n')
	entry := b.String()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil && l.cfg.MaxSize > 0 && l.size+int64(len(entry)) > l.cfg.MaxSize {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	n, _ := io.WriteString(l.out, entry)
	l.size += int64(n)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(DEBUG, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(INFO, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(WARN, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(ERROR, msg, fields) }

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Package-level functions log through the global logger and are safe to
// call before Init: they simply drop entries.

func Debug(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(DEBUG, msg, fields)
	}
}

func Info(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(INFO, msg, fields)
	}
}

func Warn(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(WARN, msg, fields)
	}
}

func Error(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(ERROR, msg, fields)
	}
}

// Close closes the global logger.
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
