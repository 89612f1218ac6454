package services

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"log/slog"
	"time"

	"chat-relay/repositories"
)

// IngestionService handles classified inbound events. It owns the addressing
// filter, the idempotent persistence of messages, the append-only status log
// and the scheduling of read receipts.
type IngestionService struct {
	log      *slog.Logger
	messages repositories.IMessageRepository
	index    repositories.ISearchIndex
	receipts contract.ReceiptScheduler
	sinks    []contract.EventSink
	selfID   string
}

func NewIngestionService(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	index repositories.ISearchIndex,
	receipts contract.ReceiptScheduler,
	selfID string,
) *IngestionService {
	return &IngestionService{
		log:      log,
		messages: messages,
		index:    index,
		receipts: receipts,
		selfID:   selfID,
	}
}

func (s *IngestionService) AddSinks(sinks ...contract.EventSink) *IngestionService {
	s.sinks = append(s.sinks, sinks...)
	return s
}

// HandleMessage runs the inbound message pipeline:
//
//  1. addressing filter (only events for this participant or the broadcast
//     audience are our concern, even though the subscription is broader)
//  2. idempotent message insert + received_by_server status, one transaction
//  3. best-effort display and search indexing
//  4. non-blocking receipt scheduling
//
// Storage failures surface to the caller; the event counts as not processed.
func (s *IngestionService) HandleMessage(ctx context.Context, evt chat.MessageEvent) error {
	if evt.ReceiverID != s.selfID && evt.ReceiverID != chat.BroadcastReceiver {
		s.log.Debug("Discarding message addressed to someone else",
			"message_id", evt.MessageID, "receiver_id", evt.ReceiverID)
		return nil
	}

	now := time.Now().UTC()
	message := evt.Message(now)
	inserted, err := s.messages.SaveWithStatus(message, chat.StatusEvent{
		MessageID: message.MessageID,
		Status:    chat.StatusReceivedByServer,
		UserID:    s.selfID,
		At:        now,
	})
	if err != nil {
		return err
	}
	if !inserted {
		// Repeated ingestion of an already known id is a complete no-op:
		// no display, no receipt, no second timeline entry.
		s.log.Debug("Duplicate message ignored", "message_id", message.MessageID)
		return nil
	}

	if err := s.index.Index(message); err != nil {
		s.log.Warn("Failed to index message", "message_id", message.MessageID, "error", err)
	}

	s.emit(ctx, event.MessageReceived{Message: message})
	s.receipts.Schedule(ctx, message.MessageID, message.SenderID)
	return nil
}

// HandleStatus records one observation in the append-only status log. The
// referenced message may not exist yet; a dangling reference is accepted, not
// rejected.
func (s *IngestionService) HandleStatus(ctx context.Context, evt chat.StatusUpdateEvent) error {
	at := evt.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}
	status := chat.StatusEvent{
		MessageID: evt.MessageID,
		Status:    chat.Status(evt.Status),
		UserID:    evt.UserID,
		At:        at,
	}
	if err := s.messages.AppendStatus(status); err != nil {
		return err
	}
	s.emit(ctx, event.StatusRecorded{Status: status})
	return nil
}

// HandleTyping is display-only: typing indicators are never persisted.
func (s *IngestionService) HandleTyping(ctx context.Context, evt chat.TypingEvent) error {
	s.emit(ctx, event.TypingChanged{
		SenderID:   evt.SenderID,
		SenderName: evt.SenderName,
		IsTyping:   evt.IsTyping,
	})
	return nil
}

func (s *IngestionService) emit(ctx context.Context, e event.Event) {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Debug(fmt.Sprintf("Sink failed for %s", e.EventName()), "error", err)
		}
	}
}
