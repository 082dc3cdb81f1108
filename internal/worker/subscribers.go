// Package worker attaches event consumers to the run event dispatcher.
package worker

import (
	"github.com/supportops/ticketsync/internal/events"
)

// Subscriber attaches its handlers to a dispatcher.
type Subscriber interface {
	Attach(d events.Dispatcher)
}

// StartSubscribers attaches every non-nil subscriber to d and returns how
// many were attached.
func StartSubscribers(d events.Dispatcher, subs ...Subscriber) int {
	if d == nil {
		return 0
	}
	started := 0
	for _, sub := range subs {
		if sub == nil {
			continue
		}
		sub.Attach(d)
		started++
	}
	return started
}
