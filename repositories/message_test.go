package repositories

import (
	"chat-relay/domain/chat"
	apperrors "chat-relay/errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testMessage(id, senderID, receiverID string, at time.Time) chat.Message {
	return chat.Message{
		MessageID:   id,
		SenderID:    senderID,
		SenderName:  senderID,
		ReceiverID:  receiverID,
		Content:     "this message will self destruct in 5 seconds",
		MessageType: chat.DefaultMessageType,
		CreatedAt:   at,
	}
}

func Test_Save_Is_Idempotent_On_MessageID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	message := testMessage("msg-1", "alice", "david", at)
	status := chat.StatusEvent{MessageID: "msg-1", Status: chat.StatusReceivedByServer, UserID: "david", At: at}

	inserted, err := repository.SaveWithStatus(message, status)
	req.NoError(err)
	req.True(inserted)

	// Repeated ingestion of the same id must be a complete no-op.
	for i := 0; i < 3; i++ {
		inserted, err = repository.SaveWithStatus(message, status)
		req.NoError(err)
		req.False(inserted)
	}

	fetched, err := repository.GetMessage("msg-1")
	req.NoError(err)
	req.Equal("alice", fetched.SenderID)
	req.Equal(message.Content, fetched.Content)

	log, err := repository.StatusLog("msg-1")
	req.NoError(err)
	req.Len(log, 1)

	rows, err := repository.History("david", 10)
	req.NoError(err)
	req.Len(rows, 1)
}

func Test_Message_And_Status_Commit_As_One_Unit(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewMessageRepository(db, slog.Default())

	at := time.Now().UTC()
	message := testMessage("msg-atomic", "alice", "david", at)
	injected := fmt.Errorf("store failure between inserts")

	// Fail the transaction after the message insert but before the status
	// insert: neither row may be visible afterwards.
	err := db.Update(func(txn *badger.Txn) error {
		if err := insertMessage(txn, message); err != nil {
			return err
		}
		return injected
	})
	req.ErrorIs(err, injected)

	_, err = repository.GetMessage("msg-atomic")
	req.ErrorIs(err, apperrors.ErrMessageNotFound)

	log, err := repository.StatusLog("msg-atomic")
	req.NoError(err)
	req.Empty(log)

	rows, err := repository.History("david", 10)
	req.NoError(err)
	req.Empty(rows)
}

func Test_Status_Log_Accumulates_Per_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	statuses := []chat.Status{chat.StatusSent, chat.StatusReceivedByServer, chat.StatusRead}
	for i, status := range statuses {
		req.NoError(repository.AppendStatus(chat.StatusEvent{
			MessageID: "msg-1", Status: status, UserID: "alice", At: at.Add(time.Duration(i) * time.Second),
		}))
		// Interleave another message's events.
		req.NoError(repository.AppendStatus(chat.StatusEvent{
			MessageID: "msg-2", Status: chat.StatusDelivered, UserID: "bob", At: at.Add(time.Duration(i) * time.Second),
		}))
	}

	log, err := repository.StatusLog("msg-1")
	req.NoError(err)
	req.Len(log, 3)
	for i, status := range statuses {
		req.Equal(status, log[i].Status)
	}
}

func Test_Duplicate_Status_Observations_Are_All_Recorded(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	evt := chat.StatusEvent{MessageID: "msg-1", Status: chat.StatusRead, UserID: "alice", At: at}
	req.NoError(repository.AppendStatus(evt))
	req.NoError(repository.AppendStatus(evt))

	log, err := repository.StatusLog("msg-1")
	req.NoError(err)
	req.Len(log, 2)
}

func Test_Dangling_Status_Reference_Is_Accepted(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	// No message row exists yet: the observation is recorded anyway.
	err := repository.AppendStatus(chat.StatusEvent{
		MessageID: "unknown", Status: chat.StatusDelivered, UserID: "bob", At: time.Now().UTC(),
	})
	req.NoError(err)

	log, err := repository.StatusLog("unknown")
	req.NoError(err)
	req.Len(log, 1)
}

func Test_History_Most_Recent_First_With_Participant_Filter(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	save := func(id, sender, receiver string, offset time.Duration) {
		_, err := repository.SaveWithStatus(
			testMessage(id, sender, receiver, at.Add(offset)),
			chat.StatusEvent{MessageID: id, Status: chat.StatusReceivedByServer, UserID: "david", At: at.Add(offset)},
		)
		req.NoError(err)
	}
	save("msg-old", "alice", "david", 0)
	save("msg-other", "alice", "bob", 1*time.Minute) // not david's concern
	save("msg-broadcast", "carol", chat.BroadcastReceiver, 2*time.Minute)
	save("msg-new", "david", "alice", 3*time.Minute)

	rows, err := repository.History("david", 3)
	req.NoError(err)
	req.Len(rows, 3)
	req.Equal("msg-new", rows[0].Message.MessageID)
	req.Equal("msg-broadcast", rows[1].Message.MessageID)
	req.Equal("msg-old", rows[2].Message.MessageID)
}

func Test_History_Joins_Derived_Current_Status(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	_, err := repository.SaveWithStatus(
		testMessage("msg-1", "david", "alice", at),
		chat.StatusEvent{MessageID: "msg-1", Status: chat.StatusSent, UserID: "david", At: at},
	)
	req.NoError(err)

	// Out-of-order observations: "read" recorded before "delivered".
	req.NoError(repository.AppendStatus(chat.StatusEvent{
		MessageID: "msg-1", Status: chat.StatusRead, UserID: "alice", At: at.Add(time.Second),
	}))
	req.NoError(repository.AppendStatus(chat.StatusEvent{
		MessageID: "msg-1", Status: chat.StatusDelivered, UserID: "alice", At: at.Add(2 * time.Second),
	}))

	rows, err := repository.History("david", 1)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal(chat.StatusRead, rows[0].Current)
}

func Test_Remove_Message_Cascades_To_Status_Log(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	_, err := repository.SaveWithStatus(
		testMessage("msg-1", "alice", "david", at),
		chat.StatusEvent{MessageID: "msg-1", Status: chat.StatusReceivedByServer, UserID: "david", At: at},
	)
	req.NoError(err)
	req.NoError(repository.AppendStatus(chat.StatusEvent{
		MessageID: "msg-1", Status: chat.StatusRead, UserID: "david", At: at.Add(time.Second),
	}))

	req.NoError(repository.RemoveMessage("msg-1"))

	_, err = repository.GetMessage("msg-1")
	req.ErrorIs(err, apperrors.ErrMessageNotFound)

	log, err := repository.StatusLog("msg-1")
	req.NoError(err)
	req.Empty(log)

	rows, err := repository.History("david", 10)
	req.NoError(err)
	req.Empty(rows)

	req.ErrorIs(repository.RemoveMessage("msg-1"), apperrors.ErrMessageNotFound)
}
