// Package mqttpub publishes polled zone state to an MQTT broker, for host
// platforms that integrate over MQTT rather than calling the bridge directly.
package mqttpub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/codekitchen/homebridge-trane-home/internal/poller"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config configures the broker connection and topic layout.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
}

// Client is the subset of the paho client the publisher uses.
type Client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	Poller poller.Poller
	Logger *slog.Logger
	client Client
	prefix string
}

// New returns a Publisher connected to nothing yet; the connection is made
// when Run starts.
func New(cfg Config, p poller.Poller, logger *slog.Logger) *Publisher {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(10 * time.Second)
	return NewWithClient(cfg, mqtt.NewClient(opts), p, logger)
}

// NewWithClient is New with an injected MQTT client.
func NewWithClient(cfg Config, client Client, p poller.Poller, logger *slog.Logger) *Publisher {
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = "trane"
	}
	return &Publisher{
		Poller: p,
		Logger: logger,
		client: client,
		prefix: prefix,
	}
}

func (p *Publisher) Run(ctx context.Context) error {
	// with connect retries enabled the token only completes once the broker
	// is reached, so don't block on it past a shutdown
	token := p.client.Connect()
	for !token.WaitTimeout(100 * time.Millisecond) {
		if ctx.Err() != nil {
			p.client.Disconnect(250)
			return nil
		}
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	p.Logger.Debug("started")
	defer p.Logger.Debug("stopped")
	defer p.client.Disconnect(250)

	ch := p.Poller.Subscribe()
	defer p.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			p.publish(update)
		}
	}
}

// publish sends one retained state message per zone, so late subscribers see
// the last known state immediately.
func (p *Publisher) publish(update poller.Update) {
	for _, thermostat := range update.Thermostats {
		for _, zone := range thermostat.Zones {
			payload, err := json.Marshal(zone)
			if err != nil {
				p.Logger.Error("failed to encode zone state", slog.Any("err", err))
				continue
			}
			topic := fmt.Sprintf("%s/%d/%d/state", p.prefix, thermostat.ID, zone.ID)
			if token := p.client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
				p.Logger.Error("failed to publish zone state", slog.String("topic", topic), slog.Any("err", token.Error()))
			}
		}
	}
}
