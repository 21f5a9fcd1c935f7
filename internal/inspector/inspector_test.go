package inspector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nao-Mk2/done-log-analyzer/internal/analysis"
	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
	"github.com/Nao-Mk2/done-log-analyzer/internal/source"
)

type fakeSource struct {
	name  string
	lines []string
	err   error
	delay time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Lines(ctx context.Context) ([]string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.lines...), nil
}

func doneLines(effect string, n int) []string {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := make([]string, n)
	for i := range lines {
		lines[i] = parser.Format(model.DoneLog{
			Timestamp:     base.Add(time.Duration(i) * time.Second),
			SessionID:     int64(i),
			Category:      "Photo",
			Effect:        effect,
			WaitDuration:  int64(100 * (i + 1)),
			TotalDuration: 2000,
		})
	}
	return lines
}

func TestRun_ResultsInSourceOrder(t *testing.T) {
	sources := []source.Source{
		&fakeSource{name: "slow", lines: doneLines("cartoon", 3), delay: 20 * time.Millisecond},
		&fakeSource{name: "fast", lines: doneLines("cartoon", 2)},
	}
	in := New(sources, []string{"cartoon"})
	in.SetWorkers(2)

	results, err := in.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "slow", results[0].Source)
	assert.Equal(t, 3, results[0].Report.Matched)
	assert.Equal(t, "fast", results[1].Source)
	assert.Equal(t, 2, results[1].Report.Matched)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.Report.Arrival)
	}
}

func TestRun_NoMatchMarksResult(t *testing.T) {
	in := New([]source.Source{&fakeSource{name: "a", lines: doneLines("sketch", 2)}}, []string{"cartoon"})

	results, err := in.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].Err, analysis.ErrInsufficientData))
	require.NotNil(t, results[0].Report)
	assert.Equal(t, 2, results[0].Report.Input.Parsed)
}

func TestRun_ReadErrorStopsRun(t *testing.T) {
	sources := []source.Source{
		&fakeSource{name: "ok", lines: doneLines("cartoon", 2)},
		&fakeSource{name: "broken", err: errors.New("disk gone")},
	}
	_, err := New(sources, []string{"cartoon"}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read broken")
	assert.Contains(t, err.Error(), "disk gone")
}

func TestRun_Diagnostics(t *testing.T) {
	lines := append(doneLines("cartoon", 2), "garbage", "")
	in := New([]source.Source{&fakeSource{name: "a", lines: lines}}, []string{"cartoon"})

	var mu sync.Mutex
	var got []parser.Diagnostic
	in.OnDiagnostic(func(src string, d parser.Diagnostic) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "a", src)
		got = append(got, d)
	})

	results, err := in.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, "not-found: garbage", got[0].String())
	assert.Equal(t, parser.Stats{Lines: 4, Parsed: 2, Rejected: 2}, results[0].Report.Input)
}

func TestRun_Misconfigured(t *testing.T) {
	_, err := New(nil, []string{"cartoon"}).Run(context.Background())
	assert.Error(t, err)

	_, err = New([]source.Source{&fakeSource{name: "a"}}, nil).Run(context.Background())
	assert.Error(t, err)
}
