package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoResume          = errors.New("application has no resume")
	ErrExtractionFailed  = errors.New("skill extraction failed")
	ErrQueueUnavailable  = errors.New("analysis queue unavailable")
	ErrInternal          = errors.New("internal error")
	ErrPersistenceOff    = errors.New("persistence is not configured")
	ErrTooManyCandidates = fmt.Errorf("%w: too many candidates", ErrInvalidInput)
)

func internal(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
