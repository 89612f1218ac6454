package sink

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"sync"
)

// Timeline keeps the in-process cache of recently processed messages. It is a
// display convenience only; the repository stays authoritative. The cache is
// bounded so a long-lived session cannot grow it without limit.
type Timeline struct {
	mu       sync.Mutex
	limit    int
	messages []chat.Message
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit}
}

func (t *Timeline) Consume(_ context.Context, e event.Event) error {
	switch evt := e.(type) {
	case event.MessageReceived:
		t.append(evt.Message)
	case event.MessageSent:
		t.append(evt.Message)
	}
	return nil
}

func (t *Timeline) append(message chat.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, message)
	if t.limit > 0 && len(t.messages) > t.limit {
		t.messages = t.messages[len(t.messages)-t.limit:]
	}
}

// Messages returns a copy of the cached session timeline, oldest first.
func (t *Timeline) Messages() []chat.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]chat.Message, len(t.messages))
	copy(out, t.messages)
	return out
}
