package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/repositories"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ReceiptScheduler emits a delayed read receipt after an inbound message has
// been displayed. Each scheduled receipt is an independent timer goroutine:
// nothing debounces or cancels it, and five messages from one sender produce
// five receipts. Receipts are best-effort; a failed publish is logged and
// dropped.
type ReceiptScheduler struct {
	log       *slog.Logger
	transport contract.Transport
	messages  repositories.IMessageRepository
	sinks     []contract.EventSink
	baseTopic string
	selfID    string
	delay     time.Duration

	mu       sync.Mutex
	draining bool
	wg       sync.WaitGroup
}

func NewReceiptScheduler(
	log *slog.Logger,
	transport contract.Transport,
	messages repositories.IMessageRepository,
	baseTopic, selfID string,
	delay time.Duration,
) *ReceiptScheduler {
	return &ReceiptScheduler{
		log:       log,
		transport: transport,
		messages:  messages,
		baseTopic: baseTopic,
		selfID:    selfID,
		delay:     delay,
	}
}

func (r *ReceiptScheduler) AddSinks(sinks ...contract.EventSink) *ReceiptScheduler {
	r.sinks = append(r.sinks, sinks...)
	return r
}

// Schedule registers a deferred receipt for (messageID, senderID) and returns
// immediately. Ingestion of the next inbound event never waits on a receipt.
// After Drain has started, new receipts are refused.
func (r *ReceiptScheduler) Schedule(ctx context.Context, messageID, senderID string) {
	r.mu.Lock()
	if r.draining {
		r.mu.Unlock()
		r.log.Debug("Refusing receipt during drain", "message_id", messageID)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		// In-flight receipts are allowed to complete even during shutdown,
		// so the sleep deliberately ignores ctx.
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		<-timer.C
		r.fire(ctx, messageID, senderID)
	}()
}

// fire records the read status locally and publishes it to the original
// sender's channel as an ordinary, isolated operation.
func (r *ReceiptScheduler) fire(ctx context.Context, messageID, senderID string) {
	now := time.Now().UTC()
	status := chat.StatusEvent{
		MessageID: messageID,
		Status:    chat.StatusRead,
		UserID:    r.selfID,
		At:        now,
	}
	if err := r.messages.AppendStatus(status); err != nil {
		r.log.Warn("Failed to record read receipt", "message_id", messageID, "error", err)
		return
	}

	payload, err := json.Marshal(chat.StatusUpdateEvent{
		Type:      chat.EventTypeStatus,
		MessageID: messageID,
		Status:    string(chat.StatusRead),
		UserID:    r.selfID,
		Timestamp: now,
	})
	if err != nil {
		r.log.Warn("Failed to encode read receipt", "message_id", messageID, "error", err)
		return
	}

	topic := fmt.Sprintf("%s/%s", r.baseTopic, senderID)
	if err := r.transport.Publish(ctx, topic, payload); err != nil {
		r.log.Warn("Failed to publish read receipt", "message_id", messageID, "topic", topic, "error", err)
		return
	}

	for _, sink := range r.sinks {
		if err := sink.Consume(ctx, event.ReceiptSent{MessageID: messageID, SenderID: senderID}); err != nil {
			r.log.Debug("Receipt sink failed", "error", err)
		}
	}
}

// Drain stops accepting new receipts and waits for every in-flight one to
// finish. Called once during shutdown.
func (r *ReceiptScheduler) Drain() {
	r.mu.Lock()
	r.draining = true
	r.mu.Unlock()
	r.wg.Wait()
}
