package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

var (
	mu         sync.Mutex
	dir        string
	file       *os.File
	currentDay string
)

// Init enables file logging under dir, one file per day. Without Init the
// package still logs to stdout.
func Init(logDir string) error {
	if logDir == "" {
		return nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	dir = logDir
	if err := rotateLocked(time.Now()); err != nil {
		dir = ""
		return err
	}
	return nil
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
		file = nil
	}
	dir = ""
}

func Info(format string, args ...any)  { emit(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { emit(LevelWarn, format, args...) }
func Error(format string, args ...any) { emit(LevelError, format, args...) }

func emit(lvl Level, format string, args ...any) {
	now := time.Now()
	stamp := now.Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, args...)

	var label, color string
	switch lvl {
	case LevelInfo:
		label, color = "[INFO] ", "\033[32m"
	case LevelWarn:
		label, color = "[WARN] ", "\033[33m"
	case LevelError:
		label, color = "[EROR] ", "\033[31m"
	}

	mu.Lock()
	if dir != "" {
		if err := rotateLocked(now); err == nil && file != nil {
			fmt.Fprintf(file, "%s %s%s\n", stamp, label, msg)
		}
	}
	mu.Unlock()

	fmt.Fprintf(os.Stdout, "%s %s%s\033[0m%s\n", stamp, color, label, msg)
}

func rotateLocked(t time.Time) error {
	day := t.Format("2006-01-02")
	if file != nil && currentDay == day {
		return nil
	}
	if file != nil {
		_ = file.Close()
		file = nil
	}
	f, err := os.OpenFile(filepath.Join(dir, day+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	file = f
	currentDay = day
	return nil
}
