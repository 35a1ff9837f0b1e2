// Package queue carries résumé analysis requests from the API to whatever
// runs them: an in-process worker pool or a RabbitMQ queue.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/usecase"

	"github.com/google/uuid"
)

// Handler runs the analysis for one application.
type Handler func(ctx context.Context, applicationID uuid.UUID) error

type AnalysisRequest struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	RequestedAt   time.Time `json:"requestedAt"`
}

func decodeRequest(body []byte) (AnalysisRequest, error) {
	var req AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return AnalysisRequest{}, fmt.Errorf("decode analysis request: %w", err)
	}
	if req.ApplicationID == uuid.Nil {
		return AnalysisRequest{}, fmt.Errorf("decode analysis request: missing applicationId")
	}
	return req, nil
}

// isPermanent reports failures that come out the same on every attempt.
func isPermanent(err error) bool {
	return errors.Is(err, usecase.ErrNotFound) ||
		errors.Is(err, usecase.ErrNoResume) ||
		errors.Is(err, usecase.ErrInvalidInput) ||
		errors.Is(err, usecase.ErrPersistenceOff)
}

// retry calls fn up to attempts times with linear backoff. A permanent error
// is returned at once.
func retry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if isPermanent(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
