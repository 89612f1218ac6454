//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain/chat"
	apperrors "chat-relay/errors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	// SaveWithStatus persists a message row together with one status event in a
	// single transaction. The insert is idempotent on the message id: when the
	// row already exists the whole call is a no-op and inserted is false.
	SaveWithStatus(message chat.Message, status chat.StatusEvent) (inserted bool, err error)
	AppendStatus(status chat.StatusEvent) error
	StatusLog(messageID string) ([]chat.StatusEvent, error)
	GetMessage(messageID string) (chat.Message, error)
	History(selfID string, limit int) ([]MessageWithStatus, error)
	RemoveMessage(messageID string) error
}

// MessageWithStatus is one history row: the message plus its derived current
// delivery status.
type MessageWithStatus struct {
	chat.Message
	Current chat.Status
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// Key layout:
//
//	msg:{message_id}                     -> message row (key uniqueness = the UNIQUE constraint)
//	hist:{timestamp_padded}:{message_id} -> message_id (chronological index)
//	st:{message_id}:{timestamp_padded}:{uuid} -> status event (append-only log)
//
// Timestamps use 19-digit zero padding so lexicographical key order is
// chronological order. The uuid suffix on status keys keeps two observations
// of the same status at the same nanosecond from colliding.
func messageKey(messageID string) []byte {
	return []byte("msg:" + messageID)
}

func historyKey(createdAt time.Time, messageID string) []byte {
	return []byte(fmt.Sprintf("hist:%019d:%s", createdAt.UnixNano(), messageID))
}

func statusKey(status chat.StatusEvent) []byte {
	return []byte(fmt.Sprintf("st:%s:%019d:%s", status.MessageID, status.At.UnixNano(), uuid.NewString()))
}

func (m MessageRepository) SaveWithStatus(message chat.Message, status chat.StatusEvent) (bool, error) {
	inserted := false
	err := m.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(messageKey(message.MessageID))
		switch {
		case err == nil:
			// Duplicate ingestion: the message row must not be duplicated, and
			// we keep the status log free of retry noise as well.
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err := insertMessage(txn, message); err != nil {
			return err
		}
		if err := insertStatus(txn, status); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: saving message %s: %w", apperrors.ErrStorageUnavailable, message.MessageID, err)
	}
	return inserted, nil
}

func (m MessageRepository) AppendStatus(status chat.StatusEvent) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		return insertStatus(txn, status)
	})
	if err != nil {
		return fmt.Errorf("%w: appending status for %s: %w", apperrors.ErrStorageUnavailable, status.MessageID, err)
	}
	return nil
}

// StatusLog returns every recorded observation for a message in chronological
// order. Dangling message ids are not an error: status events may arrive
// before their message row exists.
func (m MessageRepository) StatusLog(messageID string) ([]chat.StatusEvent, error) {
	var events []chat.StatusEvent
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("st:" + messageID + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				evt, err := decodeStatus(value)
				if err != nil {
					return err
				}
				events = append(events, evt)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading status log for %s: %w", apperrors.ErrStorageUnavailable, messageID, err)
	}
	return events, nil
}

func (m MessageRepository) GetMessage(messageID string) (chat.Message, error) {
	var message chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(messageID))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			message, err = decodeMessage(value)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return chat.Message{}, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return chat.Message{}, fmt.Errorf("%w: reading message %s: %w", apperrors.ErrStorageUnavailable, messageID, err)
	}
	return message, nil
}

// History returns up to limit messages involving selfID (as sender, receiver
// or broadcast audience), most recent first, each joined with its derived
// current status.
func (m MessageRepository) History(selfID string, limit int) ([]MessageWithStatus, error) {
	var messages []chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("hist:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		// The limit counts rows that survive the participant filter.
		seekKey := append(prefix, []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			var messageID string
			err := it.Item().Value(func(value []byte) error {
				messageID = string(value)
				return nil
			})
			if err != nil {
				return err
			}
			item, err := txn.Get(messageKey(messageID))
			if err != nil {
				return err
			}
			var message chat.Message
			if err := item.Value(func(value []byte) error {
				message, err = decodeMessage(value)
				return err
			}); err != nil {
				return err
			}
			if message.SenderID != selfID && message.ReceiverID != selfID && message.ReceiverID != chat.BroadcastReceiver {
				continue
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning history: %w", apperrors.ErrStorageUnavailable, err)
	}

	var rows []MessageWithStatus
	for _, message := range messages {
		log, err := m.StatusLog(message.MessageID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, MessageWithStatus{Message: message, Current: chat.CurrentStatus(log)})
	}
	return rows, nil
}

// RemoveMessage is the administrative delete: the message row, its history
// index entry and its whole status log go away in one transaction.
func (m MessageRepository) RemoveMessage(messageID string) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(messageID))
		if err != nil {
			return err
		}
		var message chat.Message
		if err := item.Value(func(value []byte) error {
			message, err = decodeMessage(value)
			return err
		}); err != nil {
			return err
		}

		var statusKeys [][]byte
		prefix := []byte("st:" + messageID + ":")
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			statusKeys = append(statusKeys, it.Item().KeyCopy(nil))
		}
		it.Close()

		if err := txn.Delete(messageKey(messageID)); err != nil {
			return err
		}
		if err := txn.Delete(historyKey(message.CreatedAt, messageID)); err != nil {
			return err
		}
		for _, key := range statusKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrMessageNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: removing message %s: %w", apperrors.ErrStorageUnavailable, messageID, err)
	}
	return nil
}

func insertMessage(txn *badger.Txn, message chat.Message) error {
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	if err := txn.Set(messageKey(message.MessageID), bytes); err != nil {
		return err
	}
	return txn.Set(historyKey(message.CreatedAt, message.MessageID), []byte(message.MessageID))
}

func insertStatus(txn *badger.Txn, status chat.StatusEvent) error {
	bytes, err := json.Marshal(fromStatus(status))
	if err != nil {
		return err
	}
	return txn.Set(statusKey(status), bytes)
}

// Stored shapes mirror the relational columns of the original schema.
type storedMessage struct {
	MessageID   string    `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	ReceiverID  string    `json:"receiver_id"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type storedStatus struct {
	MessageID string    `json:"message_id"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func fromMessage(message chat.Message) storedMessage {
	return storedMessage{
		MessageID:   message.MessageID,
		SenderID:    message.SenderID,
		SenderName:  message.SenderName,
		ReceiverID:  message.ReceiverID,
		Content:     message.Content,
		MessageType: message.MessageType,
		CreatedAt:   message.CreatedAt,
	}
}

func decodeMessage(value []byte) (chat.Message, error) {
	var stored storedMessage
	if err := json.Unmarshal(value, &stored); err != nil {
		return chat.Message{}, err
	}
	return chat.Message{
		MessageID:   stored.MessageID,
		SenderID:    stored.SenderID,
		SenderName:  stored.SenderName,
		ReceiverID:  stored.ReceiverID,
		Content:     stored.Content,
		MessageType: stored.MessageType,
		CreatedAt:   stored.CreatedAt,
	}, nil
}

func fromStatus(status chat.StatusEvent) storedStatus {
	return storedStatus{
		MessageID: status.MessageID,
		Status:    string(status.Status),
		UserID:    status.UserID,
		Timestamp: status.At,
	}
}

func decodeStatus(value []byte) (chat.StatusEvent, error) {
	var stored storedStatus
	if err := json.Unmarshal(value, &stored); err != nil {
		return chat.StatusEvent{}, err
	}
	return chat.StatusEvent{
		MessageID: stored.MessageID,
		Status:    chat.Status(stored.Status),
		UserID:    stored.UserID,
		At:        stored.Timestamp,
	}, nil
}
