package workers

import (
	"chat-relay/domain/chat"
	"chat-relay/mocks"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReceiptScheduler_FiresReadReceipt(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)

	messages.EXPECT().
		AppendStatus(gomock.Any()).
		DoAndReturn(func(status chat.StatusEvent) error {
			req.Equal("msg-1", status.MessageID)
			req.Equal(chat.StatusRead, status.Status)
			req.Equal("david", status.UserID)
			return nil
		}).
		Times(1)

	published := make(chan []byte, 1)
	transport.EXPECT().
		Publish(gomock.Any(), "chat/messages/alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload []byte) error {
			published <- payload
			return nil
		}).
		Times(1)

	scheduler := NewReceiptScheduler(slog.Default(), transport, messages, "chat/messages", "david", 10*time.Millisecond)
	scheduler.Schedule(context.Background(), "msg-1", "alice")
	scheduler.Drain()

	select {
	case payload := <-published:
		var evt chat.StatusUpdateEvent
		req.NoError(json.Unmarshal(payload, &evt))
		req.Equal(chat.EventTypeStatus, evt.Type)
		req.Equal("msg-1", evt.MessageID)
		req.Equal(string(chat.StatusRead), evt.Status)
		req.Equal("david", evt.UserID)
	case <-time.After(time.Second):
		req.Fail("Receipt never published")
	}
}

func TestReceiptScheduler_SchedulingNeverBlocks(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)

	var fired atomic.Int32
	messages.EXPECT().
		AppendStatus(gomock.Any()).
		DoAndReturn(func(chat.StatusEvent) error {
			fired.Add(1)
			return nil
		}).
		Times(20)
	transport.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(20)

	delay := 200 * time.Millisecond
	scheduler := NewReceiptScheduler(slog.Default(), transport, messages, "chat/messages", "david", delay)

	// Ingestion of N messages completes before any of the N receipts fires.
	start := time.Now()
	for i := 0; i < 20; i++ {
		scheduler.Schedule(context.Background(), fmt.Sprintf("msg-%d", i), "alice")
	}
	req.Less(time.Since(start), delay)
	req.Zero(fired.Load())

	scheduler.Drain()
	req.EqualValues(20, fired.Load())
}

func TestReceiptScheduler_PublishFailureIsDropped(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)

	messages.EXPECT().AppendStatus(gomock.Any()).Return(nil).Times(1)
	transport.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("broker gone")).
		Times(1)

	scheduler := NewReceiptScheduler(slog.Default(), transport, messages, "chat/messages", "david", 5*time.Millisecond)
	scheduler.Schedule(context.Background(), "msg-1", "alice")

	// Best-effort: the failed publish is logged and dropped, Drain completes.
	done := make(chan struct{})
	go func() {
		scheduler.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Drain should complete despite the failed publish")
	}
}

func TestReceiptScheduler_RefusesReceiptsAfterDrain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)

	// No receipt may fire once the drain has started.
	messages.EXPECT().AppendStatus(gomock.Any()).Times(0)
	transport.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	scheduler := NewReceiptScheduler(slog.Default(), transport, messages, "chat/messages", "david", time.Millisecond)
	scheduler.Drain()
	scheduler.Schedule(context.Background(), "msg-1", "alice")

	time.Sleep(20 * time.Millisecond)
}
