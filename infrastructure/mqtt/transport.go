package mqtt

import (
	"chat-relay/contract"
	apperrors "chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// Client adapts an MQTT broker connection to the contract.Transport interface.
// Inbound deliveries are pushed onto a buffered channel drained by the
// dispatcher; when the channel is full the delivery is dropped with a warning
// so the broker callback goroutine never blocks.
type Client struct {
	log        *slog.Logger
	cli        paho.Client
	deliveries chan contract.Delivery
}

func NewClient(log *slog.Logger, brokerURL, clientID string, buffer int) *Client {
	c := &Client{
		log:        log,
		deliveries: make(chan contract.Delivery, buffer),
	}
	options := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOrderMatters(false)
	options.OnConnect = func(paho.Client) {
		log.Info("Connected to MQTT broker", "broker", brokerURL)
	}
	options.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn("MQTT connection lost", "error", err)
	}
	c.cli = paho.NewClient(options)
	return c
}

func (c *Client) Connect(ctx context.Context) error {
	token := c.cli.Connect()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: connecting: %w", apperrors.ErrTransportUnavailable, err)
	}
	return nil
}

// Subscribe registers the given channels. Payloads are copied out of the paho
// callback before being handed to the dispatch channel.
func (c *Client) Subscribe(topics ...string) error {
	for _, topic := range topics {
		token := c.cli.Subscribe(topic, 0, c.onMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("%w: subscribing to %s: %w", apperrors.ErrTransportUnavailable, topic, err)
		}
		c.log.Info("Subscribed", "topic", topic)
	}
	return nil
}

func (c *Client) onMessage(_ paho.Client, msg paho.Message) {
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())
	select {
	case c.deliveries <- contract.Delivery{Topic: msg.Topic(), Payload: payload}:
	default:
		c.log.Warn("Delivery buffer full, dropping inbound payload", "topic", msg.Topic())
	}
}

func (c *Client) Deliveries() <-chan contract.Delivery {
	return c.deliveries
}

// Publish hands the payload to the broker's send buffer. It does not wait for
// end-to-end delivery.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	token := c.cli.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: publish to %s timed out", apperrors.ErrTransportUnavailable, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: publishing to %s: %w", apperrors.ErrTransportUnavailable, topic, err)
	}
	// Once the broker accepted the payload the publish succeeded; a context
	// canceled meanwhile (shutdown drain) must not turn it into a failure.
	return nil
}

func (c *Client) Close() {
	c.cli.Disconnect(250)
}
