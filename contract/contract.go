//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself.
// Crash recovery and restarts belong to the supervisor.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding manual naming in the Worker interface. Used for logging and
// supervision during lifecycle events.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Delivery is one raw payload handed over by the transport on a subscribed
// channel. The dispatcher decodes it; the transport never does.
type Delivery struct {
	Topic   string
	Payload []byte
}

// Transport publishes payloads on named pub/sub channels. Publish returns once
// the payload is handed to the transport's send buffer, not once delivered.
// Implementations must tolerate concurrent publishers.
type Transport interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// EventHandler receives classified inbound events from the dispatcher.
// One handler invocation per delivery; a failing invocation must never stop
// the dispatch loop.
type EventHandler interface {
	HandleMessage(ctx context.Context, evt chat.MessageEvent) error
	HandleStatus(ctx context.Context, evt chat.StatusUpdateEvent) error
	HandleTyping(ctx context.Context, evt chat.TypingEvent) error
}

// ReceiptScheduler schedules a deferred read receipt for a displayed message.
// Schedule must return immediately: the receipt fires on its own goroutine and
// is never canceled by later activity.
type ReceiptScheduler interface {
	Schedule(ctx context.Context, messageID, senderID string)
}

// EventSink consumes domain events for side effects (display, session cache).
// Consume is best-effort; errors are logged by the emitter and dropped.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}
