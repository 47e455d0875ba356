package models

import "time"

// Level classifies the severity of a normalized log event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ExecutionEvent is one normalized record derived from a raw log line.
// Events are immutable once produced by an adapter.
type ExecutionEvent struct {
	Timestamp time.Time `json:"timestamp,omitempty"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Framework string    `json:"framework"`
	RawLine   string    `json:"raw_line"`
}
