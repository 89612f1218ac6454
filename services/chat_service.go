//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/repositories"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type IChatService interface {
	SendMessage(ctx context.Context, cmd chat.SendMessageCommand) (string, error)
	SendTyping(ctx context.Context, cmd chat.SendTypingCommand) error
	GetHistory(cmd chat.GetHistoryCommand) ([]repositories.MessageWithStatus, error)
	SearchMessages(ctx context.Context, cmd chat.SearchCommand) ([]repositories.SearchHit, error)
	RemoveMessage(messageID string) error
}

// ChatService is the outbound API: it constructs well-formed wire events,
// publishes them and mirrors sent messages into the store.
type ChatService struct {
	log       *slog.Logger
	messages  repositories.IMessageRepository
	index     repositories.ISearchIndex
	transport contract.Transport
	sinks     []contract.EventSink
	baseTopic string
	selfID    string
	selfName  string
}

func NewChatService(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	index repositories.ISearchIndex,
	transport contract.Transport,
	baseTopic, selfID, selfName string,
) *ChatService {
	return &ChatService{
		log:       log,
		messages:  messages,
		index:     index,
		transport: transport,
		baseTopic: baseTopic,
		selfID:    selfID,
		selfName:  selfName,
	}
}

func (s *ChatService) AddSinks(sinks ...contract.EventSink) *ChatService {
	s.sinks = append(s.sinks, sinks...)
	return s
}

// SendMessage publishes a fresh message on the receiver's channel and on the
// shared channel, then persists it with an initial "sent" status in one
// transaction. Publish failures are logged and dropped (no retry); a storage
// failure surfaces to the caller.
func (s *ChatService) SendMessage(ctx context.Context, cmd chat.SendMessageCommand) (string, error) {
	messageType := cmd.MessageType
	if messageType == "" {
		messageType = chat.DefaultMessageType
	}
	now := time.Now().UTC()
	message := chat.Message{
		MessageID:   uuid.NewString(),
		SenderID:    s.selfID,
		SenderName:  s.selfName,
		ReceiverID:  cmd.ReceiverID,
		Content:     cmd.Content,
		MessageType: messageType,
		CreatedAt:   now,
	}

	payload, err := json.Marshal(chat.MessageEvent{
		Type:        chat.EventTypeMessage,
		MessageID:   message.MessageID,
		SenderID:    message.SenderID,
		SenderName:  message.SenderName,
		ReceiverID:  message.ReceiverID,
		Content:     message.Content,
		MessageType: message.MessageType,
		Timestamp:   now,
	})
	if err != nil {
		return "", fmt.Errorf("encoding message %s: %w", message.MessageID, err)
	}

	// Directed channel first, then the shared channel for visibility.
	for _, topic := range []string{
		fmt.Sprintf("%s/%s", s.baseTopic, message.ReceiverID),
		s.baseTopic,
	} {
		if err := s.transport.Publish(ctx, topic, payload); err != nil {
			s.log.Warn("Failed to publish message", "message_id", message.MessageID, "topic", topic, "error", err)
		}
	}

	if _, err := s.messages.SaveWithStatus(message, chat.StatusEvent{
		MessageID: message.MessageID,
		Status:    chat.StatusSent,
		UserID:    s.selfID,
		At:        now,
	}); err != nil {
		return "", err
	}

	if err := s.index.Index(message); err != nil {
		s.log.Warn("Failed to index sent message", "message_id", message.MessageID, "error", err)
	}
	s.emit(ctx, event.MessageSent{Message: message})
	return message.MessageID, nil
}

// SendTyping is fire-and-forget: published on the receiver's channel only,
// never persisted, never retried.
func (s *ChatService) SendTyping(ctx context.Context, cmd chat.SendTypingCommand) error {
	payload, err := json.Marshal(chat.TypingEvent{
		Type:       chat.EventTypeTyping,
		SenderID:   s.selfID,
		SenderName: s.selfName,
		ReceiverID: cmd.ReceiverID,
		IsTyping:   cmd.IsTyping,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding typing event: %w", err)
	}
	topic := fmt.Sprintf("%s/%s", s.baseTopic, cmd.ReceiverID)
	return s.transport.Publish(ctx, topic, payload)
}

// GetHistory returns this participant's messages joined with their derived
// current status, most recent first.
func (s *ChatService) GetHistory(cmd chat.GetHistoryCommand) ([]repositories.MessageWithStatus, error) {
	return s.messages.History(s.selfID, cmd.Limit)
}

func (s *ChatService) SearchMessages(ctx context.Context, cmd chat.SearchCommand) ([]repositories.SearchHit, error) {
	return s.index.Search(ctx, cmd.Term, cmd.Limit)
}

// RemoveMessage is the administrative delete; the status log of the message is
// removed by cascade.
func (s *ChatService) RemoveMessage(messageID string) error {
	return s.messages.RemoveMessage(messageID)
}

func (s *ChatService) emit(ctx context.Context, e event.Event) {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Debug(fmt.Sprintf("Sink failed for %s", e.EventName()), "error", err)
		}
	}
}
