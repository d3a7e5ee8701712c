// Package logger provides structured logging for the life server.
// Every operation the engine accepts should be traceable through this.
package logger

import (
	"log"
	"os"
)

// Logger provides structured logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debug       bool
}

// NewLogger creates a new logger instance. With debug enabled the
// underlying causes of reported I/O failures are logged too.
func NewLogger(debug bool) *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[LIFE-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[LIFE-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[LIFE-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
		debug:       debug,
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Debug logs diagnostic detail, such as the underlying cause of a
// reported file error. Silent unless debug mode is on.
func (l *Logger) Debug(msg string) {
	if l.debug {
		l.infoLogger.Println("[DEBUG] " + msg)
	}
}

// Event logs a specific board operation for auditing.
func (l *Logger) Event(eventType string, actor string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Actor:%s | %s", eventType, actor, details)
}
