package analysis

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInsufficientData matches every *InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError reports a statistic requested over too small a sample.
type InsufficientDataError struct {
	Analysis string
	Need     int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s: need at least %d samples, got %d", e.Analysis, ErrInsufficientData, e.Need, e.Got)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

func needSamples(analysis string, need, got int) error {
	if got < need {
		return &InsufficientDataError{Analysis: analysis, Need: need, Got: got}
	}
	return nil
}
