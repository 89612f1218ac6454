package chat

import "time"

// BroadcastReceiver is the distinguished receiver id meaning "every participant".
const BroadcastReceiver = "all"

// DefaultMessageType is assumed when a message event carries no message_type.
const DefaultMessageType = "text"

type Status string

const (
	StatusSent             Status = "sent"
	StatusReceivedByServer Status = "received_by_server"
	StatusDelivered        Status = "delivered"
	StatusRead             Status = "read"
)

// statusRanks orders the known delivery statuses. Unknown statuses rank below
// every known one: they are still recorded, they just never win the derived
// "current status" view.
var statusRanks = map[Status]int{
	StatusSent:             1,
	StatusReceivedByServer: 2,
	StatusDelivered:        3,
	StatusRead:             4,
}

func (s Status) Rank() int {
	return statusRanks[s]
}

// Known reports whether the status belongs to the displayed set.
func (s Status) Known() bool {
	_, ok := statusRanks[s]
	return ok
}

type Message struct {
	MessageID   string
	SenderID    string
	SenderName  string
	ReceiverID  string
	Content     string
	MessageType string
	CreatedAt   time.Time
}

// StatusEvent is one observation in the append-only delivery log of a message.
// Events are never updated or deleted individually; removal only happens as a
// cascade when the owning message is removed.
type StatusEvent struct {
	MessageID string
	Status    Status
	UserID    string
	At        time.Time
}

// CurrentStatus derives a single status from an unordered observation log.
// The log itself never enforces the sent -> received_by_server -> delivered ->
// read progression, so the view takes the maximally advanced known status and
// breaks ties on the most recent timestamp.
func CurrentStatus(events []StatusEvent) Status {
	var current Status
	var currentAt time.Time
	for _, evt := range events {
		switch {
		case evt.Status.Rank() > current.Rank():
			current = evt.Status
			currentAt = evt.At
		case evt.Status.Rank() == current.Rank() && evt.At.After(currentAt):
			current = evt.Status
			currentAt = evt.At
		}
	}
	return current
}
