//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_index.go -package=mocks
package repositories

import (
	"chat-relay/domain/chat"
	apperrors "chat-relay/errors"
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
)

type ISearchIndex interface {
	Index(message chat.Message) error
	Search(ctx context.Context, term string, limit int) ([]SearchHit, error)
}

type SearchHit struct {
	MessageID string
	SenderID  string
	Content   string
}

// SearchIndex mirrors persisted messages into a Bluge full-text index so the
// session history can be searched by content. The index is a projection of the
// store, never the other way round: losing it loses nothing authoritative.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

func (s *SearchIndex) Index(message chat.Message) error {
	doc := bluge.NewDocument(message.MessageID).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("sender_id", message.SenderID).StoreValue()).
		AddField(bluge.NewDateTimeField("created_at", message.CreatedAt))
	if err := s.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("%w: indexing message %s: %w", apperrors.ErrStorageUnavailable, message.MessageID, err)
	}
	return nil
}

func (s *SearchIndex) Search(ctx context.Context, term string, limit int) ([]SearchHit, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: opening index reader: %w", apperrors.ErrStorageUnavailable, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(term).SetField("content")
	request := bluge.NewTopNSearch(limit, query)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%w: searching for %q: %w", apperrors.ErrStorageUnavailable, term, err)
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: iterating search results: %w", apperrors.ErrStorageUnavailable, err)
		}
		if match == nil {
			break
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "sender_id":
				hit.SenderID = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("%w: reading stored fields: %w", apperrors.ErrStorageUnavailable, err)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
