package ratelimit

import "context"

// Limiter bounds how many review submissions an author may make inside a
// rolling window. Allow consumes a slot only when it returns true; a rejected
// attempt never counts toward the quota.
type Limiter interface {
	Allow(ctx context.Context, authorID string) (bool, error)
}
