package service

// Event types pushed to a session's websocket clients.
const (
	EventSelectionUpdated = "selection_updated"
	EventSelectionClosed  = "selection_closed"
	EventCartUpdated      = "cart_updated"
	EventOrderCompleted   = "order_completed"
)

// EventPublisher delivers events to every connection of one guest session.
type EventPublisher interface {
	Publish(sessionID, eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
