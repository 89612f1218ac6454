package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	apperrors "chat-relay/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Dispatcher is the inbound dispatch loop. It drains raw transport deliveries,
// classifies each payload by its type tag and hands it to the matching
// handler. One bad or undeliverable event never halts processing of the next:
// every failure is logged against the delivery and dropped.
type Dispatcher struct {
	log        *slog.Logger
	deliveries <-chan contract.Delivery
	handler    contract.EventHandler
	validate   *validator.Validate
}

func NewDispatcher(log *slog.Logger, deliveries <-chan contract.Delivery, handler contract.EventHandler) *Dispatcher {
	return &Dispatcher{
		log:        log,
		deliveries: deliveries,
		handler:    handler,
		validate:   validator.New(),
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.log.Debug("Context done, stopping dispatch loop")
			return nil
		case delivery := <-d.deliveries:
			if err := d.Dispatch(ctx, delivery); err != nil {
				d.log.Warn("Dropped inbound event", "topic", delivery.Topic, "error", err)
			}
		}
	}
}

// Dispatch classifies one raw payload and invokes its handler synchronously.
// No I/O happens before the dispatch decision.
func (d *Dispatcher) Dispatch(ctx context.Context, delivery contract.Delivery) error {
	var envelope chat.Envelope
	if err := json.Unmarshal(delivery.Payload, &envelope); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedPayload, err)
	}

	// A payload without a type tag is treated as a plain message.
	eventType := envelope.Type
	if eventType == "" {
		eventType = chat.EventTypeMessage
	}

	switch eventType {
	case chat.EventTypeMessage:
		var evt chat.MessageEvent
		if err := d.decode(delivery.Payload, &evt); err != nil {
			return err
		}
		if err := d.handler.HandleMessage(ctx, evt); err != nil {
			return fmt.Errorf("handling message %s: %w", evt.MessageID, err)
		}
	case chat.EventTypeStatus:
		var evt chat.StatusUpdateEvent
		if err := d.decode(delivery.Payload, &evt); err != nil {
			return err
		}
		if err := d.handler.HandleStatus(ctx, evt); err != nil {
			return fmt.Errorf("handling status for %s: %w", evt.MessageID, err)
		}
	case chat.EventTypeTyping:
		var evt chat.TypingEvent
		if err := d.decode(delivery.Payload, &evt); err != nil {
			return err
		}
		if err := d.handler.HandleTyping(ctx, evt); err != nil {
			return fmt.Errorf("handling typing from %s: %w", evt.SenderID, err)
		}
	default:
		// Valid JSON with a type outside the known set: silent discard.
		d.log.Debug("Discarding event of unknown type", "type", envelope.Type)
	}
	return nil
}

func (d *Dispatcher) decode(payload []byte, evt any) error {
	if err := json.Unmarshal(payload, evt); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedPayload, err)
	}
	if err := d.validate.Struct(evt); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedPayload, err)
	}
	return nil
}
