// Package logger provides leveled logging (info/warning/error) to files
// and stdout/stderr.
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	mu         sync.Mutex
}

// New creates a Logger. When logDir is non-empty each level also appends to
// its own file under that directory.
func New(logDir string) (*Logger, error) {
	infoWriter := io.Writer(os.Stdout)
	warningWriter := io.Writer(os.Stdout)
	errorWriter := io.Writer(os.Stderr)

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
		infoFile, err := openLogFile(filepath.Join(logDir, "info.log"))
		if err != nil {
			return nil, err
		}
		warningFile, err := openLogFile(filepath.Join(logDir, "warning.log"))
		if err != nil {
			return nil, err
		}
		errorFile, err := openLogFile(filepath.Join(logDir, "error.log"))
		if err != nil {
			return nil, err
		}
		infoWriter = io.MultiWriter(os.Stdout, infoFile)
		warningWriter = io.MultiWriter(os.Stdout, warningFile)
		errorWriter = io.MultiWriter(os.Stderr, errorFile)
	}

	return &Logger{
		infoLog:    log.New(infoWriter, "INFO    ", log.Ldate|log.Ltime),
		warningLog: log.New(warningWriter, "WARNING ", log.Ldate|log.Ltime),
		errorLog:   log.New(errorWriter, "ERROR   ", log.Ldate|log.Ltime),
	}, nil
}

func openLogFile(filename string) (*os.File, error) {
	return os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Printf(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Printf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Printf(format, v...)
}
