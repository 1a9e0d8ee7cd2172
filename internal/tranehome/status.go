package tranehome

import (
	"encoding/json"

	"github.com/clambin/go-common/set"
	"github.com/codekitchen/homebridge-trane-home/pkg/temperature"
)

// Wire markers for the house status document. The device collection is the
// child link whose item_type carries device records; thermostats are the
// device records tagged xxl_thermostat.
const (
	deviceItemType = "application/vnd.nexia.device+json"
	thermostatType = "xxl_thermostat"
)

// ZoneMode is a zone's operating mode as reported and accepted by the remote
// system.
type ZoneMode string

const (
	ModeCool ZoneMode = "COOL"
	ModeHeat ZoneMode = "HEAT"
	ModeAuto ZoneMode = "AUTO"
	ModeOff  ZoneMode = "OFF"
)

var zoneModes = set.New(ModeCool, ModeHeat, ModeAuto, ModeOff)

// Valid reports whether m is a mode the remote system accepts.
func (m ZoneMode) Valid() bool {
	return zoneModes.Contains(m)
}

// Zone activity strings reported in zone_status.
const (
	StatusIdle       = "System Idle"
	StatusCooling    = "Cooling"
	StatusHeating    = "Heating"
	StatusWaiting    = "Waiting..."
	StatusFanRunning = "Fan Running"
)

// House is one fetched house status document. It keeps the raw child links of
// the HAL envelope; thermostats, zones and features are derived views,
// recomputed on access. A House and everything derived from it describe one
// snapshot: action hrefs inside it may change between fetches, so derived
// entities must not outlive the snapshot they came from.
type House struct {
	Result struct {
		Links houseLinks `json:"_links"`
	} `json:"result"`
}

type houseLinks struct {
	Child []childLink `json:"child"`
}

type childLink struct {
	Data struct {
		ItemType string            `json:"item_type"`
		Items    []json.RawMessage `json:"items"`
	} `json:"data"`
}

// Thermostats returns the thermostat devices of the house, in document order.
// A house without a device collection has no thermostats; that is not an
// error. A device record that cannot be decoded is: silently skipping it
// would report a partial house.
func (h House) Thermostats() ([]Thermostat, error) {
	items, ok := h.deviceItems()
	if !ok {
		return nil, nil
	}
	var thermostats []Thermostat
	for _, item := range items {
		var rec deviceRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, &MalformedDocumentError{Reason: "device record", Err: err}
		}
		if rec.Type == thermostatType {
			thermostats = append(thermostats, Thermostat{record: rec})
		}
	}
	return thermostats, nil
}

// Thermostat returns the thermostat with the given id, if present.
func (h House) Thermostat(id int) (Thermostat, bool, error) {
	thermostats, err := h.Thermostats()
	if err != nil {
		return Thermostat{}, false, err
	}
	for _, t := range thermostats {
		if t.ID() == id {
			return t, true, nil
		}
	}
	return Thermostat{}, false, nil
}

func (h House) deviceItems() ([]json.RawMessage, bool) {
	for _, child := range h.Result.Links.Child {
		if child.Data.ItemType == deviceItemType {
			return child.Data.Items, true
		}
	}
	return nil, false
}

// deviceRecord is the raw shape of one device item. All temperatures are
// Fahrenheit on the wire; conversion happens in the view accessors, never
// here.
type deviceRecord struct {
	ID                    int          `json:"id"`
	Name                  string       `json:"name"`
	Type                  string       `json:"type"`
	HasOutdoorTemperature bool         `json:"has_outdoor_temperature"`
	OutdoorTemperature    looseFloat   `json:"outdoor_temperature"`
	HasIndoorHumidity     bool         `json:"has_indoor_humidity"`
	IndoorHumidity        looseFloat   `json:"indoor_humidity"`
	Zones                 []zoneRecord `json:"zones"`
}

type zoneRecord struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	CurrentZoneMode ZoneMode   `json:"current_zone_mode"`
	Temperature     looseFloat `json:"temperature"`
	Setpoints       struct {
		Heat looseFloat `json:"heat"`
		Cool looseFloat `json:"cool"`
	} `json:"setpoints"`
	ZoneStatus string    `json:"zone_status"`
	Features   []Feature `json:"features"`
}

// Thermostat is a read-only view over one thermostat device record.
type Thermostat struct {
	record deviceRecord
}

func (t Thermostat) ID() int      { return t.record.ID }
func (t Thermostat) Name() string { return t.record.Name }

// OutdoorTemperature returns the outdoor temperature in °C. Not every
// thermostat has an outdoor sensor; ok is false when this one does not.
func (t Thermostat) OutdoorTemperature() (float64, bool) {
	if !t.record.HasOutdoorTemperature {
		return 0, false
	}
	return temperature.FahrenheitToCelsius(float64(t.record.OutdoorTemperature)), true
}

// IndoorHumidity returns the relative indoor humidity in percent, if the
// thermostat measures it.
func (t Thermostat) IndoorHumidity() (float64, bool) {
	if !t.record.HasIndoorHumidity {
		return 0, false
	}
	return float64(t.record.IndoorHumidity), true
}

// Zones returns the thermostat's zones in document order.
func (t Thermostat) Zones() []Zone {
	zones := make([]Zone, len(t.record.Zones))
	for i, rec := range t.record.Zones {
		zones[i] = Zone{record: rec}
	}
	return zones
}

// Zone returns the zone with the given id, if present.
func (t Thermostat) Zone(id int) (Zone, bool) {
	for _, rec := range t.record.Zones {
		if rec.ID == id {
			return Zone{record: rec}, true
		}
	}
	return Zone{}, false
}

// Zone is a read-only view over one zone of a thermostat.
type Zone struct {
	record zoneRecord
}

func (z Zone) ID() int        { return z.record.ID }
func (z Zone) Name() string   { return z.record.Name }
func (z Zone) Mode() ZoneMode { return z.record.CurrentZoneMode }

// Status returns the zone's activity, e.g. "Cooling" or "System Idle".
func (z Zone) Status() string { return z.record.ZoneStatus }

// Temperature returns the current zone temperature in °C.
func (z Zone) Temperature() float64 {
	return temperature.FahrenheitToCelsius(float64(z.record.Temperature))
}

// HeatSetpoint returns the heating setpoint in °C.
func (z Zone) HeatSetpoint() float64 {
	return temperature.FahrenheitToCelsius(float64(z.record.Setpoints.Heat))
}

// CoolSetpoint returns the cooling setpoint in °C.
func (z Zone) CoolSetpoint() float64 {
	return temperature.FahrenheitToCelsius(float64(z.record.Setpoints.Cool))
}

// TargetTemperature returns the single setpoint the zone is currently working
// towards: the cooling setpoint in COOL, the heating setpoint in HEAT. In
// AUTO and OFF there is no single target and ok is false.
func (z Zone) TargetTemperature() (float64, bool) {
	switch z.Mode() {
	case ModeCool:
		return z.CoolSetpoint(), true
	case ModeHeat:
		return z.HeatSetpoint(), true
	default:
		return 0, false
	}
}

// thermostatFeature returns the zone's "thermostat" feature, which carries
// the setpoint actions and the system status.
func (z Zone) thermostatFeature() (Feature, error) {
	return findFeature(z.record.Features, featureThermostat)
}

// modeFeature returns the zone's "thermostat_mode" feature, which carries the
// mode-update action.
func (z Zone) modeFeature() (Feature, error) {
	return findFeature(z.record.Features, featureThermostatMode)
}
