package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Prefix creates a consistent prefix for all file-based commands to use.
//
// i is the zero-based ordinal of the file and n the expected count; the prefix displays i+1.
func Prefix(i, n int, name string) string {
	return fmt.Sprintf(`[%d/%d] "%s" - `, i+1, n, Truncate(filepath.Base(name), 30, "..."))
}

// NewLogger creates a new logger for the i-th file using Prefix.
//
// The logger writes to the same output as the standard logger, see SetupLog.
func NewLogger(i, n int, name string) *log.Logger {
	return log.New(Output(), Prefix(i, n, name), 0)
}

// Truncate keeps the first n runes of text, appending suffix only if truncation happens.
func Truncate(text string, n int, suffix string) string {
	if n <= 0 {
		return suffix
	}

	i := 0
	for j := range text {
		if i == n {
			return text[:j] + suffix
		}
		i++
	}

	return text
}

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// Output returns the writer all loggers write to.
func Output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// LogFile configures the optional rotating log file.
type LogFile struct {
	// Name is the path to the log file. If empty, logs only go to stderr.
	Name string
	// MaxSize is the size in megabytes at which the log file is rotated.
	MaxSize int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// SetupLog tees the standard logger and every logger subsequently created with NewLogger into the given log file.
//
// The returned io.Closer closes the log file; it is a no-op if LogFile.Name is empty.
func SetupLog(cfg LogFile) io.Closer {
	if cfg.Name == "" {
		return io.NopCloser(nil)
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Name,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	}

	w := io.MultiWriter(os.Stderr, lj)

	mu.Lock()
	output = w
	mu.Unlock()

	log.SetOutput(w)
	return lj
}
