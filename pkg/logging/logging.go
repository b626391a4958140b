package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	debugLogger *log.Logger
	logFile     *os.File
	mu          sync.Mutex
	debug       bool
)

// SetupLogger sends log output to the given file. The terminal belongs to
// the TUI while it runs, so nothing is written to stderr after this.
func SetupLogger(logFilePath string, enableDebug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	debug = enableDebug
	debugLogger = log.New(f, "", log.LstdFlags)
	log.SetOutput(f)

	debugLogger.Printf("--- px log started at %s ---", time.Now().Format(time.RFC3339))
	return nil
}

// SetOutput redirects logging to w (used by tests)
func SetOutput(w io.Writer, enableDebug bool) {
	mu.Lock()
	defer mu.Unlock()

	debug = enableDebug
	debugLogger = log.New(w, "", 0)
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		debugLogger.Printf("--- px log closed at %s ---", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		debugLogger = nil
		log.SetOutput(os.Stderr)
	}
}

// Info logs an informational message
func Info(format string, args ...interface{}) {
	write("INFO: ", format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	write("ERROR: ", format, args...)
}

// Debug logs only when debug logging is enabled
func Debug(format string, args ...interface{}) {
	mu.Lock()
	enabled := debug
	mu.Unlock()

	if enabled {
		write("DEBUG: ", format, args...)
	}
}

func write(prefix, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf(prefix+format, args...)
		return
	}
	// Not set up: fall back to the standard logger
	log.Printf(prefix+format, args...)
}
