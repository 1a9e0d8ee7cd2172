// Package notifier announces zone activity changes (e.g. a zone starting to
// cool) to one or more backends.
package notifier

import (
	"context"
	"log/slog"

	"github.com/codekitchen/homebridge-trane-home/internal/poller"
)

type Notifier interface {
	Notify(msg string)
}

type Notifiers []Notifier

func (n Notifiers) Notify(msg string) {
	for _, notifier := range n {
		notifier.Notify(msg)
	}
}

// Monitor watches polled updates and notifies on zone activity transitions.
// The first update only seeds the state: restarting the bridge should not
// re-announce the current activity of every zone.
type Monitor struct {
	Poller    poller.Poller
	Notifiers Notifiers
	Logger    *slog.Logger

	seen     bool
	activity map[int]string
}

func (m *Monitor) Run(ctx context.Context) error {
	m.Logger.Debug("started")
	defer m.Logger.Debug("stopped")

	ch := m.Poller.Subscribe()
	defer m.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			m.process(update)
		}
	}
}

func (m *Monitor) process(update poller.Update) {
	activity := make(map[int]string)
	for _, thermostat := range update.Thermostats {
		for _, zone := range thermostat.Zones {
			activity[zone.ID] = zone.Status
			if !m.seen {
				continue
			}
			if previous, ok := m.activity[zone.ID]; ok && previous != zone.Status && zone.Status != "" {
				m.Notifiers.Notify(zone.Name + ": " + zone.Status)
			}
		}
	}
	m.activity = activity
	m.seen = true
}
