package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Nao-Mk2/done-log-analyzer/internal/analysis"
	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
	"github.com/Nao-Mk2/done-log-analyzer/internal/store"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func done(effect string, offset time.Duration, wait, total int64) model.DoneLog {
	return model.DoneLog{
		Timestamp:     base.Add(offset),
		Category:      "Photo",
		Effect:        effect,
		WaitDuration:  wait,
		TotalDuration: total,
		DownloadKBps:  100,
		UploadKBps:    50,
	}
}

func TestBuild(t *testing.T) {
	s := store.New(
		done("cartoon", 0, 100, 2000),
		done("sketch", time.Second, 5000, 9000),
		done("cartoon", 3*time.Second, 300, 4000),
	)
	r, err := Build("a.log", s, parser.Stats{Lines: 4, Parsed: 3, Rejected: 1}, []string{"cartoon"})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Matched)
	assert.Equal(t, []store.Count{{Name: "Photo", Count: 3}}, r.Categories)
	assert.Equal(t, []store.Count{{Name: "cartoon", Count: 2}, {Name: "sketch", Count: 1}}, r.Effects)
	assert.Empty(t, r.Skipped)

	require.NotNil(t, r.Arrival)
	assert.Equal(t, []float64{3}, r.Arrival.InterArrivals)

	require.NotNil(t, r.Service)
	assert.Equal(t, []float64{2, 4}, r.Service.Sample, "service time is in seconds")
	assert.InDelta(t, 3.0, r.Service.Mean, 1e-9)

	require.NotNil(t, r.Queuing)
	assert.InDelta(t, 200.0, r.Queuing.Mean, 1e-9)

	require.NotNil(t, r.Stages)
	assert.InDelta(t, 3000.0, r.Stages[4].Mean, 1e-9)
	require.NotNil(t, r.Bandwidth)
	assert.InDelta(t, 100.0, r.Bandwidth.Download.Mean, 1e-9)
}

func TestBuild_SingleRecordSkipsArrival(t *testing.T) {
	s := store.New(done("cartoon", 0, 100, 2000))
	r, err := Build("a.log", s, parser.Stats{}, []string{"cartoon"})
	require.NoError(t, err)

	assert.Nil(t, r.Arrival)
	assert.Contains(t, r.Skipped, SectionArrival)
	assert.NotNil(t, r.Service)
	assert.NotNil(t, r.Queuing)
}

func TestBuild_NoMatch(t *testing.T) {
	s := store.New(done("cartoon", 0, 100, 2000))
	r, err := Build("a.log", s, parser.Stats{}, []string{"missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))

	require.NotNil(t, r)
	assert.Zero(t, r.Matched)
	assert.Len(t, r.Effects, 1)
	assert.Nil(t, r.Arrival)
	assert.Nil(t, r.Service)
	assert.Nil(t, r.Queuing)
	assert.Nil(t, r.Stages)
	assert.Nil(t, r.Bandwidth)
}

func sampleReport(t *testing.T) *Report {
	s := store.New(
		done("cartoon", 0, 100, 2000),
		done("cartoon", 2*time.Second, 300, 4000),
	)
	r, err := Build("a.log", s, parser.Stats{Lines: 2, Parsed: 2}, []string{"cartoon"})
	require.NoError(t, err)
	return r
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleReport(t)))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "a.log", out[0]["source"])

	stages := out[0]["stages"].([]any)
	require.Len(t, stages, 5)
	assert.Equal(t, "wait", stages[0].(map[string]any)["stage"])
	assert.Equal(t, 200.0, stages[0].(map[string]any)["mean"])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleReport(t)))

	var out []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	bw := out[0]["bandwidth"].(map[string]any)
	assert.Contains(t, bw, "download")
	queuing := out[0]["queuing"].(map[string]any)
	assert.Len(t, queuing["percentiles"], 4)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleReport(t)))
	text := buf.String()

	for _, want := range []string{
		"== a.log ==",
		"[cartoon] Arrival Process",
		"[cartoon] Queuing Times",
		"50%: 200",
		"[W] MEAN:   200.00 | STD:   100.00",
		"200,0,0,0,3000",
		"[D] MEAN:   100.00 KB/s | STD:     0.00",
	} {
		assert.True(t, strings.Contains(text, want), "missing %q in:\n%s", want, text)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteOverhead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOverhead(&buf, FormatText, &analysis.Overhead{AIEnd: 100, FunctionEnd: 130.5, Overhead: 30.5}))
	assert.Equal(t, "AI End: 100.000 ms\nFunction End: 130.500 ms\nOverhead: 30.500 ms\n", buf.String())
}
