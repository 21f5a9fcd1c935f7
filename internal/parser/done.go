package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
)

// word matches what a Unicode-aware \w would.
const word = `[\p{L}\p{N}_]+`

// Phase tags in a Done line:
//
//	L: got upload link
//	W: waiting
//	D: downloading
//	A: applying
//	U: uploading
//	E: done
//
// Category and effect accept any Unicode letter or digit, not only ASCII.
var donePattern = regexp.MustCompile(`^(?P<datetime>\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\.\d{1,6}) ` +
	`\[(?P<sid>\d+)\]\[(?P<category>` + word + `)\]\[(.*)\] ` +
	`Done: "(.*)", "(.*)", "(.*)", ` +
	`I: (-?\d+) bytes\((\d+) files\), (\d+) ms, (?P<effect>` + word + `), ` +
	`L: (\d+)\((?P<l_duration>\d+), (\d+) KB/s\), ` +
	`W: (\d+)\((?P<w_duration>\d+)\), ` +
	`D: (\d+)\((?P<d_duration>\d+), (?P<d_kbps>\d+) KB/s\), ` +
	`A: (\d+)\((?P<a_duration>\d+), (\d*\.?\d*)x\), ` +
	`O: (\d+) bytes\((\d+) files\), ` +
	`U: (\d+)\((?P<u_duration>-?\d+), (?P<u_kbps>\d+) KB/s\), ` +
	`E: (\d+)\((\d*\.?\d*)x, (?P<duration>\d+), (\d*\.?\d*)x\) ` +
	`(.*)$`)

var (
	idxDatetime = donePattern.SubexpIndex("datetime")
	idxSession  = donePattern.SubexpIndex("sid")
	idxCategory = donePattern.SubexpIndex("category")
	idxEffect   = donePattern.SubexpIndex("effect")
	idxLink     = donePattern.SubexpIndex("l_duration")
	idxWait     = donePattern.SubexpIndex("w_duration")
	idxDownload = donePattern.SubexpIndex("d_duration")
	idxDownKBps = donePattern.SubexpIndex("d_kbps")
	idxApply    = donePattern.SubexpIndex("a_duration")
	idxUpload   = donePattern.SubexpIndex("u_duration")
	idxUpKBps   = donePattern.SubexpIndex("u_kbps")
	idxTotal    = donePattern.SubexpIndex("duration")
)

// TimestampLayout is how the pipeline writes the leading date-time of every line.
const TimestampLayout = "2006/01/02 15:04:05.000000"

// parseLayout reads the datetime group, whose fraction is already limited to
// one to six digits by donePattern.
const parseLayout = "2006/01/02 15:04:05"

// ErrUnrecognized matches every *ParseError via errors.Is.
var ErrUnrecognized = errors.New("unrecognized line")

// ParseError reports a line that was rejected. The whole line is discarded.
type ParseError struct {
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrUnrecognized, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrUnrecognized, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrUnrecognized }

// Parse turns one Done line into a record. The line must match the grammar in
// full; prefix or suffix matches are rejected.
func Parse(line string) (model.DoneLog, error) {
	text := strings.TrimSpace(line)
	m := donePattern.FindStringSubmatch(text)
	if m == nil {
		return model.DoneLog{}, &ParseError{Text: text, Reason: "no match"}
	}

	ts, err := time.ParseInLocation(parseLayout, m[idxDatetime], time.UTC)
	if err != nil {
		return model.DoneLog{}, &ParseError{Text: text, Reason: "malformed timestamp", Err: err}
	}

	rec := model.DoneLog{
		Timestamp: ts,
		Category:  m[idxCategory],
		Effect:    m[idxEffect],
	}
	fields := []struct {
		name string
		idx  int
		dst  *int64
	}{
		{"session id", idxSession, &rec.SessionID},
		{"link duration", idxLink, &rec.LinkDuration},
		{"wait duration", idxWait, &rec.WaitDuration},
		{"download duration", idxDownload, &rec.DownloadDuration},
		{"download throughput", idxDownKBps, &rec.DownloadKBps},
		{"apply duration", idxApply, &rec.ApplyDuration},
		{"upload duration", idxUpload, &rec.UploadDuration},
		{"upload throughput", idxUpKBps, &rec.UploadKBps},
		{"total duration", idxTotal, &rec.TotalDuration},
	}
	for _, f := range fields {
		v, err := strconv.ParseInt(m[f.idx], 10, 64)
		if err != nil {
			return model.DoneLog{}, &ParseError{Text: text, Reason: "bad " + f.name, Err: err}
		}
		*f.dst = v
	}
	if err := rec.Validate(); err != nil {
		return model.DoneLog{}, &ParseError{Text: text, Reason: "invalid record", Err: err}
	}
	return rec, nil
}

// Format renders a record as a Done line that Parse maps back to the same
// record. Fields the record does not keep are written as neutral placeholders.
func Format(r model.DoneLog) string {
	return fmt.Sprintf(`%s [%d][%s][-] Done: "-", "-", "-", `+
		`I: 0 bytes(0 files), 0 ms, %s, `+
		`L: 1(%d, 0 KB/s), `+
		`W: 1(%d), `+
		`D: 1(%d, %d KB/s), `+
		`A: 1(%d, 1.0x), `+
		`O: 0 bytes(0 files), `+
		`U: 1(%d, %d KB/s), `+
		`E: 1(1.0x, %d, 1.0x) -`,
		r.Timestamp.UTC().Format(TimestampLayout), r.SessionID, r.Category,
		r.Effect,
		r.LinkDuration,
		r.WaitDuration,
		r.DownloadDuration, r.DownloadKBps,
		r.ApplyDuration,
		r.UploadDuration, r.UploadKBps,
		r.TotalDuration)
}
