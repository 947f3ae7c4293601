package logger

import (
	"sync"
)

// TestLogger 測試用的日誌記錄器，把所有輸出留在記憶體裡
type TestLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
}

// NewTestLogger 建立新的測試日誌記錄器
func NewTestLogger() *TestLogger {
	return &TestLogger{
		entries: make([]LogEntry, 0),
	}
}

func (l *TestLogger) Debug(msg string, fields ...Field) { l.log("DEBUG", msg, fields...) }
func (l *TestLogger) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields...) }
func (l *TestLogger) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields...) }
func (l *TestLogger) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields...) }
func (l *TestLogger) Fatal(msg string, fields ...Field) { l.log("FATAL", msg, fields...) }

func (l *TestLogger) With(fields ...Field) Logger { return l }

func (l *TestLogger) Named(name string) Logger { return l }

func (l *TestLogger) Sync() error { return nil }

func (l *TestLogger) log(level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

// GetEntries 回傳目前累積的所有日誌
func (l *TestLogger) GetEntries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}
