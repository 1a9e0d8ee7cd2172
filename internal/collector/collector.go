// Package collector exposes the last polled house status as prometheus
// metrics.
package collector

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/codekitchen/homebridge-trane-home/internal/poller"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	zoneTemperature = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "zone", "temperature_celsius"),
		"Current zone temperature in degrees celsius",
		[]string{"thermostat", "zone"},
		nil,
	)
	zoneHeatSetpoint = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "zone", "heat_setpoint_celsius"),
		"Heating setpoint of this zone in degrees celsius",
		[]string{"thermostat", "zone"},
		nil,
	)
	zoneCoolSetpoint = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "zone", "cool_setpoint_celsius"),
		"Cooling setpoint of this zone in degrees celsius",
		[]string{"thermostat", "zone"},
		nil,
	)
	zoneMode = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "zone", "mode"),
		"Operating mode of this zone. Always 1; the mode is in the label",
		[]string{"thermostat", "zone", "mode"},
		nil,
	)
	zoneStatus = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "zone", "status"),
		"Activity of this zone. Always 1; the status is in the label",
		[]string{"thermostat", "zone", "status"},
		nil,
	)
	outdoorTemperature = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "thermostat", "outdoor_temperature_celsius"),
		"Outdoor temperature in degrees celsius, for thermostats with an outdoor sensor",
		[]string{"thermostat", "id"},
		nil,
	)
	indoorHumidity = prometheus.NewDesc(
		prometheus.BuildFQName("trane", "thermostat", "humidity_percentage"),
		"Relative indoor humidity in percent",
		[]string{"thermostat", "id"},
		nil,
	)
)

var _ prometheus.Collector = &Collector{}

type Collector struct {
	Poller     poller.Poller
	Logger     *slog.Logger
	lock       sync.RWMutex
	lastUpdate *poller.Update
}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Poller.Subscribe()
	defer c.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			c.lock.Lock()
			c.lastUpdate = &update
			c.lock.Unlock()
		}
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- zoneTemperature
	ch <- zoneHeatSetpoint
	ch <- zoneCoolSetpoint
	ch <- zoneMode
	ch <- zoneStatus
	ch <- outdoorTemperature
	ch <- indoorHumidity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.lastUpdate == nil {
		return
	}

	for _, thermostat := range c.lastUpdate.Thermostats {
		id := strconv.Itoa(thermostat.ID)
		if thermostat.OutdoorTemperature != nil {
			ch <- prometheus.MustNewConstMetric(outdoorTemperature, prometheus.GaugeValue,
				*thermostat.OutdoorTemperature, thermostat.Name, id)
		}
		if thermostat.IndoorHumidity != nil {
			ch <- prometheus.MustNewConstMetric(indoorHumidity, prometheus.GaugeValue,
				*thermostat.IndoorHumidity, thermostat.Name, id)
		}
		for _, zone := range thermostat.Zones {
			ch <- prometheus.MustNewConstMetric(zoneTemperature, prometheus.GaugeValue,
				zone.Temperature, thermostat.Name, zone.Name)
			ch <- prometheus.MustNewConstMetric(zoneHeatSetpoint, prometheus.GaugeValue,
				zone.HeatSetpoint, thermostat.Name, zone.Name)
			ch <- prometheus.MustNewConstMetric(zoneCoolSetpoint, prometheus.GaugeValue,
				zone.CoolSetpoint, thermostat.Name, zone.Name)
			ch <- prometheus.MustNewConstMetric(zoneMode, prometheus.GaugeValue,
				1, thermostat.Name, zone.Name, string(zone.Mode))
			if zone.Status != "" {
				ch <- prometheus.MustNewConstMetric(zoneStatus, prometheus.GaugeValue,
					1, thermostat.Name, zone.Name, zone.Status)
			}
		}
	}
}
