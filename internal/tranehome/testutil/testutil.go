// Package testutil builds house status documents for tests, shaped the way
// the remote system reports them.
package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/codekitchen/homebridge-trane-home/internal/tranehome"
)

type ThermostatSpec struct {
	ID                 int
	Name               string
	OutdoorTemperature *float64 // °F
	IndoorHumidity     *float64
	Zones              []ZoneSpec
}

type ZoneSpec struct {
	ID           int
	Name         string
	Mode         tranehome.ZoneMode
	Temperature  float64 // °F
	HeatSetpoint float64 // °F
	CoolSetpoint float64 // °F
	Status       string
	NoFeatures   bool
}

// House returns a status document containing the given thermostats.
func House(thermostats ...ThermostatSpec) tranehome.House {
	items := make([]any, 0, len(thermostats))
	for _, t := range thermostats {
		items = append(items, deviceItem(t))
	}
	doc := map[string]any{
		"result": map[string]any{
			"_links": map[string]any{
				"child": []any{
					map[string]any{
						"data": map[string]any{
							"item_type": "application/vnd.nexia.device+json",
							"items":     items,
						},
					},
				},
			},
		},
	}

	body, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var house tranehome.House
	if err = json.Unmarshal(body, &house); err != nil {
		panic(err)
	}
	return house
}

// Thermostats is shorthand for House(...).Thermostats().
func Thermostats(specs ...ThermostatSpec) []tranehome.Thermostat {
	thermostats, err := House(specs...).Thermostats()
	if err != nil {
		panic(err)
	}
	return thermostats
}

func deviceItem(t ThermostatSpec) map[string]any {
	item := map[string]any{
		"id":   t.ID,
		"name": t.Name,
		"type": "xxl_thermostat",
	}
	if t.OutdoorTemperature != nil {
		item["has_outdoor_temperature"] = true
		item["outdoor_temperature"] = *t.OutdoorTemperature
	}
	if t.IndoorHumidity != nil {
		item["has_indoor_humidity"] = true
		item["indoor_humidity"] = *t.IndoorHumidity
	}
	zones := make([]any, 0, len(t.Zones))
	for _, z := range t.Zones {
		zones = append(zones, zoneItem(z))
	}
	item["zones"] = zones
	return item
}

func zoneItem(z ZoneSpec) map[string]any {
	item := map[string]any{
		"id":                z.ID,
		"name":              z.Name,
		"current_zone_mode": string(z.Mode),
		"temperature":       z.Temperature,
		"setpoints":         map[string]any{"heat": z.HeatSetpoint, "cool": z.CoolSetpoint},
		"zone_status":       z.Status,
	}
	if !z.NoFeatures {
		item["features"] = []any{
			map[string]any{
				"name": "thermostat",
				"actions": map[string]any{
					"set_cool_setpoint": map[string]any{"href": actionHref(z.ID, "setpoints")},
					"set_heat_setpoint": map[string]any{"href": actionHref(z.ID, "setpoints")},
				},
			},
			map[string]any{
				"name": "thermostat_mode",
				"actions": map[string]any{
					"update_thermostat_mode": map[string]any{"href": actionHref(z.ID, "zone_mode")},
				},
			},
		}
	}
	return item
}

func actionHref(zoneID int, action string) string {
	return fmt.Sprintf("https://www.tranehome.com/mobile/xxl_zones/%d/%s", zoneID, action)
}

// Float returns a pointer to v, for the optional fields of ThermostatSpec.
func Float(v float64) *float64 {
	return &v
}
