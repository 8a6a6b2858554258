package ports

import (
	"context"

	"github.com/clubcore/members-system/internal/core/domain"
)

// EventRecorder persists audit-trail entries.
type EventRecorder interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// EventSink accepts audit events for asynchronous recording. Implementations
// must never block the calling request on persistence.
type EventSink interface {
	Enqueue(event domain.AuthEvent)
}

// LoginThrottle limits repeated failed login attempts per account.
type LoginThrottle interface {
	// Allow reports whether another attempt for email may proceed.
	Allow(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt against email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, email string) error
}
