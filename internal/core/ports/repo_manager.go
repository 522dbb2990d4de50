package ports

import (
	"github.com/vulpemventures/custody/internal/core/domain"
)

type PayloadEventHandler func(event domain.PayloadEvent)

// RepoManager is the abstraction for any kind of service intended to manage
// domain repositories implementations of the same concrete type.
type RepoManager interface {
	// PayloadRepository returns the repository of encrypted wallet payloads.
	PayloadRepository() domain.PayloadRepository

	// RegisterHandlerForPayloadEvent registers an handler function, executed
	// whenever the given event type occurs.
	RegisterHandlerForPayloadEvent(
		eventType domain.PayloadEventType, handler PayloadEventHandler,
	)

	// Reset brings all the repos to their initial state by deleting any persisted data.
	Reset()

	// Close closes the connection with all concrete repositories
	// implementations.
	Close()
}
