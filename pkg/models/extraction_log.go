package models

import (
	"fmt"
	"time"
)

// Severity classifies an ExtractionLog entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// LogTimeFormat is the timestamp layout used in rendered log lines.
const LogTimeFormat = "15:04:05"

// LogEntry is a single step recorded during an extraction.
type LogEntry struct {
	Time     time.Time `json:"time"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// String renders the entry as a timestamp-prefixed line.
func (e LogEntry) String() string {
	msg := e.Message
	switch e.Severity {
	case SeverityError:
		msg = "ERROR: " + msg
	case SeveritySuccess:
		msg = "✓ " + msg
	}
	return fmt.Sprintf("[%s] %s", e.Time.Format(LogTimeFormat), msg)
}

// ExtractionLog is an append-only, request-scoped audit trail. Entries are
// never modified once appended.
type ExtractionLog struct {
	now      func() time.Time
	entries  []LogEntry
	onAppend []func(LogEntry)
}

// NewExtractionLog creates an empty log stamped by now. A nil now uses time.Now.
func NewExtractionLog(now func() time.Time) *ExtractionLog {
	if now == nil {
		now = time.Now
	}
	return &ExtractionLog{now: now}
}

// OnAppend registers fn to observe every entry as it is appended.
func (l *ExtractionLog) OnAppend(fn func(LogEntry)) {
	l.onAppend = append(l.onAppend, fn)
}

// Info appends an informational entry.
func (l *ExtractionLog) Info(format string, args ...any) {
	l.append(SeverityInfo, format, args...)
}

// Success appends an entry marking a completed step.
func (l *ExtractionLog) Success(format string, args ...any) {
	l.append(SeveritySuccess, format, args...)
}

// Error appends an entry describing a failure.
func (l *ExtractionLog) Error(format string, args ...any) {
	l.append(SeverityError, format, args...)
}

func (l *ExtractionLog) append(sev Severity, format string, args ...any) {
	ts := l.now()
	// Keep the log chronologically non-decreasing even if the clock steps back.
	if n := len(l.entries); n > 0 && ts.Before(l.entries[n-1].Time) {
		ts = l.entries[n-1].Time
	}
	entry := LogEntry{
		Time:     ts,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
	}
	l.entries = append(l.entries, entry)
	for _, fn := range l.onAppend {
		fn(entry)
	}
}

// Len returns the number of entries.
func (l *ExtractionLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded entries in order.
func (l *ExtractionLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines returns the rendered entries in order.
func (l *ExtractionLog) Lines() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.String()
	}
	return out
}
