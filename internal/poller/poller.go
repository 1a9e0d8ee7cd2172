// Package poller periodically refreshes the house status and fans the
// resulting snapshot out to the bridge's consumers (collector, health, MQTT,
// notifier).
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/codekitchen/homebridge-trane-home/internal/names"
	"github.com/codekitchen/homebridge-trane-home/internal/tranehome"
	"github.com/codekitchen/homebridge-trane-home/pkg/pubsub"
)

// Poller is what consumers see: subscribe to updates, ask for an early poll.
type Poller interface {
	Subscribe() chan Update
	Unsubscribe(ch chan Update)
	Refresh()
}

// StatusClient is the part of the tranehome client the poller uses.
type StatusClient interface {
	Refresh()
	Thermostats(ctx context.Context) ([]tranehome.Thermostat, error)
}

// Update is one polled snapshot, flattened to plain data so consumers can
// label metrics, encode JSON and diff state without holding on to the
// snapshot's views.
type Update struct {
	Polled      time.Time    `json:"polled"`
	Thermostats []Thermostat `json:"thermostats"`
}

type Thermostat struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	OutdoorTemperature *float64 `json:"outdoor_temperature,omitempty"`
	IndoorHumidity     *float64 `json:"indoor_humidity,omitempty"`
	Zones              []Zone   `json:"zones"`
}

type Zone struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Temperature  float64            `json:"temperature"`
	Mode         tranehome.ZoneMode `json:"mode"`
	HeatSetpoint float64            `json:"heat_setpoint"`
	CoolSetpoint float64            `json:"cool_setpoint"`
	Status       string             `json:"status"`
}

var _ Poller = &TranePoller{}

type TranePoller struct {
	*pubsub.Publisher[Update]
	client   StatusClient
	names    names.Names
	interval time.Duration
	logger   *slog.Logger
	refresh  chan struct{}
}

func New(client StatusClient, interval time.Duration, overrides names.Names, logger *slog.Logger) *TranePoller {
	return &TranePoller{
		Publisher: pubsub.New[Update](),
		client:    client,
		names:     overrides,
		interval:  interval,
		logger:    logger,
		refresh:   make(chan struct{}, 1),
	}
}

func (p *TranePoller) Run(ctx context.Context) error {
	p.logger.Debug("started", slog.Duration("interval", p.interval))
	defer p.logger.Debug("stopped")

	// poll once at startup so consumers don't wait a full interval
	if err := p.poll(ctx); err != nil {
		p.logger.Error("failed to get house status", slog.Any("err", err))
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-p.refresh:
		}
		if err := p.poll(ctx); err != nil {
			p.logger.Error("failed to get house status", slog.Any("err", err))
		}
	}
}

// Refresh requests an early poll. It never blocks; a poll is already on its
// way if the request cannot be queued.
func (p *TranePoller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *TranePoller) poll(ctx context.Context) error {
	start := time.Now()

	// a poll is a true refresh: drop the cached snapshot first
	p.client.Refresh()
	thermostats, err := p.client.Thermostats(ctx)
	if err != nil {
		return err
	}

	p.Publish(MakeUpdate(thermostats, p.names))
	p.logger.Debug("poll completed", slog.Duration("duration", time.Since(start)))
	return nil
}

// MakeUpdate flattens a snapshot's thermostats into an Update, applying any
// display-name overrides.
func MakeUpdate(thermostats []tranehome.Thermostat, overrides names.Names) Update {
	update := Update{
		Polled:      time.Now(),
		Thermostats: make([]Thermostat, 0, len(thermostats)),
	}
	for _, t := range thermostats {
		entry := Thermostat{
			ID:   t.ID(),
			Name: overrides.Thermostat(t.ID(), t.Name()),
		}
		if outdoor, ok := t.OutdoorTemperature(); ok {
			entry.OutdoorTemperature = &outdoor
		}
		if humidity, ok := t.IndoorHumidity(); ok {
			entry.IndoorHumidity = &humidity
		}
		for _, z := range t.Zones() {
			entry.Zones = append(entry.Zones, Zone{
				ID:           z.ID(),
				Name:         overrides.Zone(z.ID(), z.Name()),
				Temperature:  z.Temperature(),
				Mode:         z.Mode(),
				HeatSetpoint: z.HeatSetpoint(),
				CoolSetpoint: z.CoolSetpoint(),
				Status:       z.Status(),
			})
		}
		update.Thermostats = append(update.Thermostats, entry)
	}
	return update
}
