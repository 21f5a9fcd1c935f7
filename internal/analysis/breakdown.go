package analysis

import (
	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
)

// StageStats is the duration summary of one stage, in milliseconds.
type StageStats struct {
	Stage   model.Stage `json:"stage" yaml:"stage"`
	MeanStd `yaml:",inline"`
}

// Stages holds wait, download, apply, upload and total in that order.
type Stages [len(model.Stages)]StageStats

// Throughput holds download and upload bandwidth in KB/s.
type Throughput struct {
	Download MeanStd `json:"download" yaml:"download"`
	Upload   MeanStd `json:"upload" yaml:"upload"`
}

// StageBreakdown summarizes each pipeline stage over the records.
func StageBreakdown(records []model.DoneLog) (*Stages, error) {
	if err := needSamples("stage breakdown", 1, len(records)); err != nil {
		return nil, err
	}
	var out Stages
	sample := make([]float64, len(records))
	for i, stage := range model.Stages {
		for j, r := range records {
			sample[j] = float64(r.Duration(stage))
		}
		out[i] = StageStats{Stage: stage, MeanStd: popMeanStd(sample)}
	}
	return &out, nil
}

// Bandwidth summarizes download and upload throughput over the records.
func Bandwidth(records []model.DoneLog) (*Throughput, error) {
	if err := needSamples("bandwidth", 1, len(records)); err != nil {
		return nil, err
	}
	down := make([]float64, len(records))
	up := make([]float64, len(records))
	for i, r := range records {
		down[i] = float64(r.DownloadKBps)
		up[i] = float64(r.UploadKBps)
	}
	return &Throughput{Download: popMeanStd(down), Upload: popMeanStd(up)}, nil
}
