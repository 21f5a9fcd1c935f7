package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/Nao-Mk2/done-log-analyzer/internal/store"
)

// UnparsedMarker prefixes every rejected-line diagnostic.
const UnparsedMarker = "not-found"

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Diagnostic describes one rejected input line.
type Diagnostic struct {
	Line int    // 1-based position in the input
	Text string // trimmed line content
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", UnparsedMarker, d.Text)
}

// Stats counts what happened to the lines of one input.
type Stats struct {
	Lines    int `json:"lines" yaml:"lines"`
	Parsed   int `json:"parsed" yaml:"parsed"`
	Rejected int `json:"rejected" yaml:"rejected"`
}

// Load parses every line from r into a new Store. Rejected lines are handed to
// report (which may be nil) and counted; only read errors are returned.
func Load(r io.Reader, report func(Diagnostic)) (*store.Store, Stats, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, Stats{}, err
	}
	s, st := LoadLines(lines, report)
	return s, st, nil
}

// LoadLines is Load over lines that are already in memory.
func LoadLines(lines []string, report func(Diagnostic)) (*store.Store, Stats) {
	s := store.New()
	var st Stats
	for i, line := range lines {
		st.Lines++
		rec, err := Parse(line)
		if err != nil {
			st.Rejected++
			if report != nil {
				report(Diagnostic{Line: i + 1, Text: strings.TrimSpace(line), Err: err})
			}
			continue
		}
		st.Parsed++
		s.Add(rec)
	}
	return s, st
}

// ReadLines splits r into lines without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read lines")
	}
	return lines, nil
}
