package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrSubmissionInFlight = errors.New("submission already in progress")

// SubmitGuard rejects a second submission of the same form by the same client
// while the first one is still running.
type SubmitGuard struct {
	helper *CacheHelper
	ttl    time.Duration
}

// NewSubmitGuard creates a guard whose markers expire after ttl even if never released
func NewSubmitGuard(helper *CacheHelper, ttl time.Duration) *SubmitGuard {
	if ttl <= 0 {
		ttl = GuardCacheConfig.TTL
	}
	return &SubmitGuard{helper: helper, ttl: ttl}
}

// Acquire marks key as in flight. The returned release must be called once the submission settles.
func (g *SubmitGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := g.helper.SetNX(ctx, key, token, g.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire submit guard: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}

	return func() {
		// The request context may already be cancelled here
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if _, err := g.helper.DeleteIfValue(releaseCtx, key, token); err != nil {
			slog.ErrorContext(releaseCtx, "Failed to release submit guard", "error", err)
		}
	}, nil
}
