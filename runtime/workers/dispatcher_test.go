package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	apperrors "chat-relay/errors"
	"chat-relay/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_RoutesMessageEvent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockEventHandler(ctrl)
	dispatcher := NewDispatcher(slog.Default(), nil, handler)

	handler.EXPECT().
		HandleMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt chat.MessageEvent) error {
			req.Equal("msg-1", evt.MessageID)
			req.Equal("alice", evt.SenderID)
			req.Equal("david", evt.ReceiverID)
			req.Equal("hello", evt.Content)
			return nil
		}).
		Times(1)

	payload := []byte(`{"type":"message","message_id":"msg-1","sender_id":"alice","sender_name":"Alice","receiver_id":"david","content":"hello","message_type":"text"}`)
	err := dispatcher.Dispatch(context.Background(), contract.Delivery{Topic: "chat/messages/david", Payload: payload})
	req.NoError(err)
}

func TestDispatcher_RoutesStatusAndTypingEvents(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockEventHandler(ctrl)
	dispatcher := NewDispatcher(slog.Default(), nil, handler)

	handler.EXPECT().
		HandleStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt chat.StatusUpdateEvent) error {
			req.Equal("read", evt.Status)
			return nil
		}).
		Times(1)
	handler.EXPECT().
		HandleTyping(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt chat.TypingEvent) error {
			req.True(evt.IsTyping)
			return nil
		}).
		Times(1)

	statusPayload := []byte(`{"type":"status","message_id":"msg-1","status":"read","user_id":"alice"}`)
	req.NoError(dispatcher.Dispatch(context.Background(), contract.Delivery{Payload: statusPayload}))

	typingPayload := []byte(`{"type":"typing","sender_id":"alice","sender_name":"Alice","receiver_id":"david","is_typing":true}`)
	req.NoError(dispatcher.Dispatch(context.Background(), contract.Delivery{Payload: typingPayload}))
}

func TestDispatcher_DiscardsMalformedPayload(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No handler method may be reached.
	handler := mocks.NewMockEventHandler(ctrl)
	dispatcher := NewDispatcher(slog.Default(), nil, handler)

	err := dispatcher.Dispatch(context.Background(), contract.Delivery{Payload: []byte("not json at all")})
	req.ErrorIs(err, apperrors.ErrMalformedPayload)
}

func TestDispatcher_DiscardsIncompleteEvent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockEventHandler(ctrl)
	dispatcher := NewDispatcher(slog.Default(), nil, handler)

	// Valid JSON, but the message is missing its required ids.
	payload := []byte(`{"type":"message","content":"hello"}`)
	err := dispatcher.Dispatch(context.Background(), contract.Delivery{Payload: payload})
	req.ErrorIs(err, apperrors.ErrMalformedPayload)
}

func TestDispatcher_MissingTypeDefaultsToMessage(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockEventHandler(ctrl)
	dispatcher := NewDispatcher(slog.Default(), nil, handler)

	handler.EXPECT().
		HandleMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt chat.MessageEvent) error {
			req.Equal("msg-1", evt.MessageID)
			return nil
		}).
		Times(1)

	// No type tag at all: treated as a plain message.
	payload := []byte(`{"message_id":"msg-1","sender_id":"alice","sender_name":"Alice","receiver_id":"david","content":"hello"}`)
	req.NoError(dispatcher.Dispatch(context.Background(), contract.Delivery{Payload: payload}))
}

func TestDispatcher_DiscardsUnknownTypeSilently(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockEventHandler(ctrl)
	dispatcher := NewDispatcher(slog.Default(), nil, handler)

	err := dispatcher.Dispatch(context.Background(), contract.Delivery{Payload: []byte(`{"type":"presence"}`)})
	req.NoError(err)
}

func TestDispatcher_RunIsolatesPerEventFailures(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mocks.NewMockEventHandler(ctrl)
	deliveries := make(chan contract.Delivery, 2)
	dispatcher := NewDispatcher(slog.Default(), deliveries, handler)

	done := make(chan struct{})
	handler.EXPECT().
		HandleMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, chat.MessageEvent) error {
			close(done)
			return nil
		}).
		Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = dispatcher.Run(ctx) }()

	// A malformed delivery must not halt processing of the next one.
	deliveries <- contract.Delivery{Payload: []byte("garbage")}
	deliveries <- contract.Delivery{Payload: []byte(`{"type":"message","message_id":"msg-1","sender_id":"alice","receiver_id":"david"}`)}

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Dispatch loop stopped after a malformed event")
	}
}
