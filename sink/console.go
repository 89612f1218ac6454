package sink

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"time"

	"github.com/gookit/color"
)

// statusGlyphs marks each known delivery status on the console. Unknown
// statuses are recorded in the store but produce no display line.
var statusGlyphs = map[chat.Status]string{
	chat.StatusSent:             "->",
	chat.StatusReceivedByServer: "ok",
	chat.StatusDelivered:        "<-",
	chat.StatusRead:             "**",
}

// Console renders domain events as chat lines on stdout. Best-effort display
// only: it never blocks the pipeline and never fails it.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Consume(_ context.Context, e event.Event) error {
	switch evt := e.(type) {
	case event.MessageReceived:
		color.Cyan.Printf("\n[%s] %s: %s\n", evt.Message.CreatedAt.Local().Format(time.TimeOnly), evt.Message.SenderName, evt.Message.Content)
	case event.MessageSent:
		color.Green.Printf("Message sent: %s\n", evt.Message.Content)
	case event.StatusRecorded:
		glyph, known := statusGlyphs[evt.Status.Status]
		if !known {
			return nil
		}
		color.Gray.Printf("%s message %s %s by %s\n", glyph, shortID(evt.Status.MessageID), evt.Status.Status, evt.Status.UserID)
	case event.TypingChanged:
		if evt.IsTyping {
			color.Yellow.Printf("%s is typing...\n", evt.SenderName)
		} else {
			fmt.Printf("%s stopped typing\n", evt.SenderName)
		}
	case event.ReceiptSent:
		color.Gray.Printf("Sent read receipt for message %s\n", shortID(evt.MessageID))
	}
	return nil
}

func shortID(messageID string) string {
	if len(messageID) <= 8 {
		return messageID
	}
	return messageID[:8] + "..."
}
