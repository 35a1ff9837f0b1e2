package matching

import (
	"errors"
	"fmt"
)

var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights are the maximum points each criterion contributes to the composite
// score. They must sum to 100.
type Weights struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Resume     int `json:"resume"`
}

func DefaultWeights() Weights {
	return Weights{
		Skills:     40,
		Experience: 35,
		Education:  15,
		Resume:     10,
	}
}

func (w Weights) Total() int {
	return w.Skills + w.Experience + w.Education + w.Resume
}

func (w Weights) Validate() error {
	if w.Skills < 0 || w.Experience < 0 || w.Education < 0 || w.Resume < 0 {
		return fmt.Errorf("%w: negative weight in %+v", ErrInvalidWeights, w)
	}
	if total := w.Total(); total != 100 {
		return fmt.Errorf("%w: weights sum to %d, want 100", ErrInvalidWeights, total)
	}
	return nil
}
