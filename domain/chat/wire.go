package chat

import "time"

// Wire event types. Payloads outside this set are discarded by the dispatcher.
const (
	EventTypeMessage = "message"
	EventTypeStatus  = "status"
	EventTypeTyping  = "typing"
)

// Envelope is the minimal probe decode used to route a raw payload before the
// full event shape is known.
type Envelope struct {
	Type string `json:"type"`
}

type MessageEvent struct {
	Type        string    `json:"type"`
	MessageID   string    `json:"message_id" validate:"required"`
	SenderID    string    `json:"sender_id" validate:"required"`
	SenderName  string    `json:"sender_name"`
	ReceiverID  string    `json:"receiver_id" validate:"required"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// Message converts the wire shape into the domain row. A missing message_type
// falls back to the default, a missing timestamp to the local clock.
func (e MessageEvent) Message(now time.Time) Message {
	messageType := e.MessageType
	if messageType == "" {
		messageType = DefaultMessageType
	}
	createdAt := e.Timestamp
	if createdAt.IsZero() {
		createdAt = now
	}
	return Message{
		MessageID:   e.MessageID,
		SenderID:    e.SenderID,
		SenderName:  e.SenderName,
		ReceiverID:  e.ReceiverID,
		Content:     e.Content,
		MessageType: messageType,
		CreatedAt:   createdAt.UTC(),
	}
}

type StatusUpdateEvent struct {
	Type      string    `json:"type"`
	MessageID string    `json:"message_id" validate:"required"`
	Status    string    `json:"status" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

type TypingEvent struct {
	Type       string    `json:"type"`
	SenderID   string    `json:"sender_id" validate:"required"`
	SenderName string    `json:"sender_name"`
	ReceiverID string    `json:"receiver_id"`
	IsTyping   bool      `json:"is_typing"`
	Timestamp  time.Time `json:"timestamp"`
}
