package publisher

import (
	"log/slog"

	audit "fnsgate/pkg/platform/audit"
)

// Publisher hands events to the audit worker without blocking the request
// path. When the inbox is full the event is dropped and counted in the log;
// verification latency must not depend on audit throughput.
type Publisher struct {
	inbox  chan audit.Event
	logger *slog.Logger
}

func New(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox:  make(chan audit.Event, buffer),
		logger: logger,
	}
}

// Publish enqueues an event, dropping it if the buffer is full.
func (p *Publisher) Publish(event audit.Event) {
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("audit inbox full, dropping event", "action", event.Action)
		}
	}
}

// Inbox exposes the consumer side for the worker.
func (p *Publisher) Inbox() <-chan audit.Event {
	return p.inbox
}
