package source

import (
	"context"
)

// Source yields the raw lines of one analysis input.
type Source interface {
	Name() string
	Lines(ctx context.Context) ([]string, error)
}

// Extracted rewrites every line of a Source through a MessageExtractor.
type Extracted struct {
	Source
	Extractor *MessageExtractor
}

// Lines returns the wrapped source's lines with the message unwrapped.
func (e Extracted) Lines(ctx context.Context) ([]string, error) {
	lines, err := e.Source.Lines(ctx)
	if err != nil {
		return nil, err
	}
	for i, l := range lines {
		msg, err := e.Extractor.Extract(l)
		if err != nil {
			return nil, err
		}
		lines[i] = msg
	}
	return lines, nil
}
