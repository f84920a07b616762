package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "flutterai-engine/pkg/errors"
)

// LogKind classifies console log entries
type LogKind string

const (
	LogKindInfo    LogKind = "info"
	LogKindWarning LogKind = "warning"
	LogKindError   LogKind = "error"
)

// ConsoleLogEntry is one append-only console record. The engine never
// truncates the stream; windowing is a display concern.
type ConsoleLogEntry struct {
	id        string
	kind      LogKind
	message   string
	timestamp time.Time
}

// NewConsoleLogEntry creates an entry with a generated id and the current
// timestamp
func NewConsoleLogEntry(kind LogKind, message string) (*ConsoleLogEntry, error) {
	return ReconstructConsoleLogEntry(uuid.New().String(), kind, message, time.Now())
}

// ReconstructConsoleLogEntry rebuilds an entry from supplied fields
func ReconstructConsoleLogEntry(id string, kind LogKind, message string, timestamp time.Time) (*ConsoleLogEntry, error) {
	if id == "" {
		id = uuid.New().String()
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	switch kind {
	case LogKindInfo, LogKindWarning, LogKindError:
	default:
		return nil, pkgerrors.NewValidationError("log kind must be info, warning or error")
	}
	if strings.TrimSpace(message) == "" {
		return nil, pkgerrors.NewValidationError("log message cannot be empty")
	}
	return &ConsoleLogEntry{
		id:        id,
		kind:      kind,
		message:   message,
		timestamp: timestamp,
	}, nil
}

// ID returns the entry's identifier
func (e *ConsoleLogEntry) ID() string {
	return e.id
}

// Kind returns the entry's classification
func (e *ConsoleLogEntry) Kind() LogKind {
	return e.kind
}

// Message returns the entry's message
func (e *ConsoleLogEntry) Message() string {
	return e.message
}

// Timestamp returns when the entry was emitted
func (e *ConsoleLogEntry) Timestamp() time.Time {
	return e.timestamp
}
