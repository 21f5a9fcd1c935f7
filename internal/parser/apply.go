package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	aiEndPattern       = regexp.MustCompile(`^(.*)\[apply\]\[(\d+)\] \((\d+)\) AI End \((\d+) ~ (\d+), (?P<duration>\d+) ms\)(.+)$`)
	functionEndPattern = regexp.MustCompile(`^(.*)\[apply\] Function End \((?P<duration>\d+) ms\)$`)
)

// ApplyKind tells which apply sub-stage a timing line closes.
type ApplyKind int

const (
	ApplyAIEnd ApplyKind = iota
	ApplyFunctionEnd
)

// ApplyTiming is one "AI End" or "Function End" measurement in milliseconds.
type ApplyTiming struct {
	Kind     ApplyKind
	Duration int64
}

// ParseApplyTiming parses an apply sub-stage timing line. ok is false for
// lines that carry neither marker; those are not errors.
func ParseApplyTiming(line string) (t ApplyTiming, ok bool, err error) {
	text := strings.TrimSpace(line)
	var re *regexp.Regexp
	switch {
	case strings.Contains(text, "AI End"):
		re, t.Kind = aiEndPattern, ApplyAIEnd
	case strings.Contains(text, "Function End"):
		re, t.Kind = functionEndPattern, ApplyFunctionEnd
	default:
		return ApplyTiming{}, false, nil
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ApplyTiming{}, true, &ParseError{Text: text, Reason: "no match"}
	}
	d, err := strconv.ParseInt(m[re.SubexpIndex("duration")], 10, 64)
	if err != nil {
		return ApplyTiming{}, true, &ParseError{Text: text, Reason: "bad duration", Err: err}
	}
	t.Duration = d
	return t, true, nil
}

// LoadApplyTimings collects AI End and Function End durations from lines.
// Marker lines that do not match are reported like rejected Done lines.
func LoadApplyTimings(lines []string, report func(Diagnostic)) (aiEnd, functionEnd []int64, st Stats) {
	for i, line := range lines {
		t, ok, err := ParseApplyTiming(line)
		if !ok {
			continue
		}
		st.Lines++
		if err != nil {
			st.Rejected++
			if report != nil {
				report(Diagnostic{Line: i + 1, Text: strings.TrimSpace(line), Err: err})
			}
			continue
		}
		st.Parsed++
		if t.Kind == ApplyAIEnd {
			aiEnd = append(aiEnd, t.Duration)
		} else {
			functionEnd = append(functionEnd, t.Duration)
		}
	}
	return aiEnd, functionEnd, st
}
