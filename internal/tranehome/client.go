package tranehome

import (
	"context"
	"log/slog"
	"time"

	"github.com/codekitchen/homebridge-trane-home/pkg/temperature"
	"github.com/codekitchen/homebridge-trane-home/pkg/throttle"
)

// StatusAPI is the transport the Client talks through: one status fetch, one
// action post. Errors pass through the Client uninterpreted; retries and
// timeouts are the transport's business.
type StatusAPI interface {
	GetHouseStatus(ctx context.Context) (House, error)
	Post(ctx context.Context, href string, payload map[string]any) error
}

// Client is the bridge's view of one house. Reads go through a coalescing
// cache, so any number of concurrent accessory reads cost at most one status
// fetch per cache window. Writes post to the action endpoint embedded in the
// zone's snapshot and then invalidate the cache, so the next read refetches.
type Client struct {
	api    StatusAPI
	cache  *throttle.Cache[House]
	logger *slog.Logger
}

// NewClient returns a Client for the house behind api. window is how long a
// fetched status remains valid; writes invalidate it early.
func NewClient(api StatusAPI, window time.Duration, logger *slog.Logger) *Client {
	return &Client{
		api:    api,
		cache:  throttle.New(api.GetHouseStatus, window),
		logger: logger,
	}
}

// Status returns the current house snapshot, fetching one if the cache is
// empty or expired.
func (c *Client) Status(ctx context.Context) (House, error) {
	return c.cache.Get(ctx)
}

// Refresh invalidates the cached snapshot, so the next read fetches a fresh
// one.
func (c *Client) Refresh() {
	c.cache.Reset()
}

// Thermostats returns the house's thermostats.
func (c *Client) Thermostats(ctx context.Context) ([]Thermostat, error) {
	house, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	return house.Thermostats()
}

// Thermostat returns the thermostat with the given id. A miss is a
// NotFoundError.
func (c *Client) Thermostat(ctx context.Context, id int) (Thermostat, error) {
	house, err := c.Status(ctx)
	if err != nil {
		return Thermostat{}, err
	}
	t, ok, err := house.Thermostat(id)
	if err != nil {
		return Thermostat{}, err
	}
	if !ok {
		return Thermostat{}, &NotFoundError{ThermostatID: id}
	}
	return t, nil
}

// Zone returns one zone of one thermostat. A miss on either id is a
// NotFoundError carrying both.
func (c *Client) Zone(ctx context.Context, thermostatID, zoneID int) (Zone, error) {
	t, err := c.Thermostat(ctx, thermostatID)
	if err != nil {
		return Zone{}, err
	}
	zone, ok := t.Zone(zoneID)
	if !ok {
		return Zone{}, &NotFoundError{ThermostatID: thermostatID, ZoneID: zoneID}
	}
	return zone, nil
}

// SetMode switches the zone to the given mode.
//
// The cache is invalidated whether or not the post succeeds: a failed post
// may still have landed on the remote side, and one spurious refetch is
// cheaper than serving a snapshot that no longer matches reality.
func (c *Client) SetMode(ctx context.Context, zone Zone, mode ZoneMode) error {
	if !mode.Valid() {
		return &InvalidModeError{Mode: mode}
	}
	feature, err := zone.modeFeature()
	if err != nil {
		return err
	}
	href, err := feature.action(actionUpdateThermostatMode)
	if err != nil {
		return err
	}
	c.logger.Debug("setting zone mode", slog.Int("zone", zone.ID()), slog.String("mode", string(mode)))
	return c.post(ctx, href, map[string]any{"value": string(mode)})
}

// SetCoolSetpoint sets the zone's cooling setpoint. celsius is converted to
// Fahrenheit on the way out; the remote system only speaks Fahrenheit.
func (c *Client) SetCoolSetpoint(ctx context.Context, zone Zone, celsius float64) error {
	return c.setSetpoint(ctx, zone, actionSetCoolSetpoint, "cool", celsius)
}

// SetHeatSetpoint sets the zone's heating setpoint.
func (c *Client) SetHeatSetpoint(ctx context.Context, zone Zone, celsius float64) error {
	return c.setSetpoint(ctx, zone, actionSetHeatSetpoint, "heat", celsius)
}

func (c *Client) setSetpoint(ctx context.Context, zone Zone, action, field string, celsius float64) error {
	feature, err := zone.thermostatFeature()
	if err != nil {
		return err
	}
	href, err := feature.action(action)
	if err != nil {
		return err
	}
	fahrenheit := temperature.CelsiusToFahrenheit(celsius)
	c.logger.Debug("setting zone setpoint",
		slog.Int("zone", zone.ID()), slog.String("setpoint", field), slog.Float64("fahrenheit", fahrenheit))
	return c.post(ctx, href, map[string]any{field: fahrenheit})
}

// post issues the mutation and invalidates the cache, unconditionally.
func (c *Client) post(ctx context.Context, href string, payload map[string]any) error {
	defer c.cache.Reset()
	return c.api.Post(ctx, href, payload)
}
