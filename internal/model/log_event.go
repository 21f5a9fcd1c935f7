package model

import "time"

// LogEvent is one raw log line together with where it was read from.
type LogEvent struct {
	Timestamp time.Time
	LogGroup  string
	LogStream string
	Message   string
}
