package store

import (
	"sort"
	"time"

	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
)

// Field selects the classifier a tally groups by.
type Field int

const (
	Category Field = iota
	Effect
)

func (f Field) String() string {
	if f == Effect {
		return "effect"
	}
	return "category"
}

// Count is one row of a tally.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Store holds the records of one analysis run in file order.
// It is not safe for concurrent mutation; each run owns its own Store.
type Store struct {
	records []model.DoneLog
}

// New creates a Store holding the given records.
func New(records ...model.DoneLog) *Store {
	s := &Store{records: make([]model.DoneLog, 0, len(records))}
	s.records = append(s.records, records...)
	return s
}

// Add appends a record.
func (s *Store) Add(r model.DoneLog) {
	s.records = append(s.records, r)
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the records in insertion order.
func (s *Store) Records() []model.DoneLog {
	out := make([]model.DoneLog, len(s.records))
	copy(out, s.records)
	return out
}

// Tally counts records per distinct value of the field, most frequent first.
// Ties are ordered by name so output is stable.
func (s *Store) Tally(f Field) []Count {
	counts := make(map[string]int)
	for _, r := range s.records {
		counts[key(r, f)]++
	}
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// Filter returns a new Store with the records whose effect is one of effects.
func (s *Store) Filter(effects ...string) *Store {
	set := make(map[string]struct{}, len(effects))
	for _, e := range effects {
		set[e] = struct{}{}
	}
	out := &Store{}
	for _, r := range s.records {
		if _, ok := set[r.Effect]; ok {
			out.records = append(out.records, r)
		}
	}
	return out
}

// Timestamps returns the record timestamps in insertion order.
func (s *Store) Timestamps() []time.Time {
	out := make([]time.Time, len(s.records))
	for i, r := range s.records {
		out[i] = r.Timestamp
	}
	return out
}

// Durations returns one stage's milliseconds per record.
func (s *Store) Durations(stage model.Stage) []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = float64(r.Duration(stage))
	}
	return out
}

// Throughputs returns download and upload KB/s per record.
func (s *Store) Throughputs() (down, up []float64) {
	down = make([]float64, len(s.records))
	up = make([]float64, len(s.records))
	for i, r := range s.records {
		down[i] = float64(r.DownloadKBps)
		up[i] = float64(r.UploadKBps)
	}
	return down, up
}

func key(r model.DoneLog, f Field) string {
	if f == Effect {
		return r.Effect
	}
	return r.Category
}
