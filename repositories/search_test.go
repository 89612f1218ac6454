package repositories

import (
	"chat-relay/domain/chat"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *bluge.Writer {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return writer
}

func Test_Index_And_Search_By_Content(t *testing.T) {
	req := require.New(t)
	index := NewSearchIndex(openTestIndex(t), slog.Default())

	at := time.Now().UTC()
	req.NoError(index.Index(chat.Message{
		MessageID: "msg-1", SenderID: "alice", ReceiverID: "david",
		Content: "we should migrate the broker to a cluster", CreatedAt: at,
	}))
	req.NoError(index.Index(chat.Message{
		MessageID: "msg-2", SenderID: "bob", ReceiverID: "david",
		Content: "lunch at noon?", CreatedAt: at.Add(time.Minute),
	}))

	hits, err := index.Search(context.Background(), "broker", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("msg-1", hits[0].MessageID)
	req.Equal("alice", hits[0].SenderID)
	req.Contains(hits[0].Content, "broker")
}

func Test_Search_Without_Match_Returns_Nothing(t *testing.T) {
	req := require.New(t)
	index := NewSearchIndex(openTestIndex(t), slog.Default())

	req.NoError(index.Index(chat.Message{
		MessageID: "msg-1", SenderID: "alice", ReceiverID: "david",
		Content: "hello world", CreatedAt: time.Now().UTC(),
	}))

	hits, err := index.Search(context.Background(), "absent", 10)
	req.NoError(err)
	req.Empty(hits)
}

func Test_Reindex_Same_Message_Keeps_One_Document(t *testing.T) {
	req := require.New(t)
	index := NewSearchIndex(openTestIndex(t), slog.Default())

	message := chat.Message{
		MessageID: "msg-1", SenderID: "alice", ReceiverID: "david",
		Content: "deduplicated content", CreatedAt: time.Now().UTC(),
	}
	req.NoError(index.Index(message))
	req.NoError(index.Index(message))

	hits, err := index.Search(context.Background(), "deduplicated", 10)
	req.NoError(err)
	req.Len(hits, 1)
}
