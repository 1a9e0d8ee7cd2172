package tranehome

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Feature names and action names recognized in zone device records. A zone's
// feature list routinely contains other entries (scheduling, air cleaner,
// ...); those are carried but never interpreted.
const (
	featureThermostat     = "thermostat"
	featureThermostatMode = "thermostat_mode"

	actionSetCoolSetpoint      = "set_cool_setpoint"
	actionSetHeatSetpoint      = "set_heat_setpoint"
	actionUpdateThermostatMode = "update_thermostat_mode"
)

// FeatureKind classifies a feature record by its name discriminator.
type FeatureKind int

const (
	// FeatureUnknown is any feature this bridge does not consume.
	FeatureUnknown FeatureKind = iota
	// FeatureThermostat carries the setpoint actions and the system status.
	FeatureThermostat
	// FeatureThermostatMode carries the mode-update action.
	FeatureThermostatMode
)

// Feature is one entry of a zone's feature list: a named capability block
// with current values and action endpoints. Action hrefs are only valid for
// the snapshot the feature was read from.
type Feature struct {
	Name         string                   `json:"name"`
	SystemStatus string                   `json:"system_status,omitempty"`
	Actions      map[string]FeatureAction `json:"actions,omitempty"`
}

// FeatureAction is a mutation endpoint published by the remote system.
type FeatureAction struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

func (f Feature) Kind() FeatureKind {
	switch f.Name {
	case featureThermostat:
		return FeatureThermostat
	case featureThermostatMode:
		return FeatureThermostatMode
	default:
		return FeatureUnknown
	}
}

// action returns the href of the named action, or a FeatureNotFoundError when
// the feature does not publish it.
func (f Feature) action(name string) (string, error) {
	if a, ok := f.Actions[name]; ok && a.Href != "" {
		return a.Href, nil
	}
	return "", &FeatureNotFoundError{Feature: f.Name + "." + name}
}

// findFeature returns the first feature with the given name. The scan
// tolerates unrecognized entries; only the absence of the requested one is an
// error.
func findFeature(features []Feature, name string) (Feature, error) {
	for _, f := range features {
		if f.Name == name {
			return f, nil
		}
	}
	return Feature{}, &FeatureNotFoundError{Feature: name}
}

var _ json.Unmarshaler = (*looseFloat)(nil)

// looseFloat is a float64 that also accepts quoted numbers. The remote system
// reports some readings as strings ("72") and some as numbers, depending on
// firmware, and uses the placeholder "--" for readings it does not have.
// The placeholder decodes to zero; the corresponding has_* flag tells whether
// the value is meaningful. Anything else that doesn't parse as a number is an
// error: a reading like "garbage" must not silently become 0°F.
type looseFloat float64

// noReading is how the remote system reports a reading it does not have.
const noReading = "--"

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == noReading || s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*f = looseFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}
