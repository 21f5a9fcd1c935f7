package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Stage names one measured phase of a job for the per-stage breakdown.
type Stage int

const (
	StageWait Stage = iota
	StageDownload
	StageApply
	StageUpload
	StageTotal
)

// Stages lists the breakdown stages in report order.
var Stages = [...]Stage{StageWait, StageDownload, StageApply, StageUpload, StageTotal}

var stageLabels = [...]string{"W", "D", "A", "U", "E"}

var stageNames = [...]string{"wait", "download", "apply", "upload", "total"}

// Label returns the one-letter tag the job pipeline uses for the stage.
func (s Stage) Label() string {
	if s < 0 || int(s) >= len(stageLabels) {
		return "?"
	}
	return stageLabels[s]
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// MarshalText encodes the stage by name in reports.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DoneLog is a single completed job parsed from a "Done" line.
// All durations are milliseconds; UploadDuration may be negative.
type DoneLog struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	SessionID int64     `json:"session_id" yaml:"session_id"`
	Category  string    `json:"category" yaml:"category"`
	Effect    string    `json:"effect" yaml:"effect"`

	LinkDuration     int64 `json:"link_duration" yaml:"link_duration"`
	WaitDuration     int64 `json:"wait_duration" yaml:"wait_duration"`
	DownloadDuration int64 `json:"download_duration" yaml:"download_duration"`
	ApplyDuration    int64 `json:"apply_duration" yaml:"apply_duration"`
	UploadDuration   int64 `json:"upload_duration" yaml:"upload_duration"`
	TotalDuration    int64 `json:"total_duration" yaml:"total_duration"`

	DownloadKBps int64 `json:"download_kbps" yaml:"download_kbps"`
	UploadKBps   int64 `json:"upload_kbps" yaml:"upload_kbps"`
}

// Duration returns the milliseconds recorded for the given stage, or 0 for a
// stage outside Stages.
func (d DoneLog) Duration(s Stage) int64 {
	switch s {
	case StageWait:
		return d.WaitDuration
	case StageDownload:
		return d.DownloadDuration
	case StageApply:
		return d.ApplyDuration
	case StageUpload:
		return d.UploadDuration
	case StageTotal:
		return d.TotalDuration
	}
	return 0
}

// Validate checks the invariants a parsed record must hold.
func (d DoneLog) Validate() error {
	if d.SessionID < 0 {
		return errors.Errorf("negative session id %d", d.SessionID)
	}
	if d.Category == "" {
		return errors.New("empty category")
	}
	if d.Effect == "" {
		return errors.New("empty effect")
	}
	for _, f := range []struct {
		name string
		v    int64
	}{
		{"link_duration", d.LinkDuration},
		{"wait_duration", d.WaitDuration},
		{"download_duration", d.DownloadDuration},
		{"apply_duration", d.ApplyDuration},
		{"total_duration", d.TotalDuration},
		{"download_kbps", d.DownloadKBps},
		{"upload_kbps", d.UploadKBps},
	} {
		if f.v < 0 {
			return errors.Errorf("negative %s %d", f.name, f.v)
		}
	}
	return nil
}
