package event

import "chat-relay/domain/chat"

// Event is a domain event fanned out to in-process sinks (console display,
// session timeline). Fan-out is best-effort: no delivery, ordering or
// durability guarantees. The store is the authoritative record.
type Event interface {
	EventName() string
}

type MessageReceived struct {
	Message chat.Message
}

func (MessageReceived) EventName() string { return "message_received" }

type MessageSent struct {
	Message chat.Message
}

func (MessageSent) EventName() string { return "message_sent" }

type StatusRecorded struct {
	Status chat.StatusEvent
}

func (StatusRecorded) EventName() string { return "status_recorded" }

type TypingChanged struct {
	SenderID   string
	SenderName string
	IsTyping   bool
}

func (TypingChanged) EventName() string { return "typing_changed" }

type ReceiptSent struct {
	MessageID string
	SenderID  string
}

func (ReceiptSent) EventName() string { return "receipt_sent" }
