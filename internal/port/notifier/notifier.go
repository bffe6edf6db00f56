package notifier

import "github.com/alanyang/leadroute/internal/domain/event"

// Broadcaster fans an event out to every connected dashboard client.
// Best-effort: delivery failures are logged by the implementation, never
// surfaced to the publishing service.
type Broadcaster interface {
	Broadcast(e event.Event)
}
