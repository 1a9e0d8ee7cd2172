package tranehome

import (
	"fmt"
)

// MalformedDocumentError indicates the house status document is structurally
// unusable, e.g. a device record that cannot be decoded. A document without a
// device collection is not malformed: that is a house without qualifying
// devices.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed status document: %s: %s", e.Reason, e.Err.Error())
	}
	return "malformed status document: " + e.Reason
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// FeatureNotFoundError indicates a zone lacks the feature required for the
// requested operation, e.g. setting a setpoint on a zone without a
// "thermostat" feature.
type FeatureNotFoundError struct {
	Feature string
}

func (e *FeatureNotFoundError) Error() string {
	return "zone has no " + e.Feature + " feature"
}

// InvalidModeError indicates a mode value the remote system does not accept.
type InvalidModeError struct {
	Mode ZoneMode
}

func (e *InvalidModeError) Error() string {
	return "invalid zone mode: " + string(e.Mode)
}

// NotFoundError indicates a thermostat/zone lookup miss at the Client level.
type NotFoundError struct {
	ThermostatID int
	ZoneID       int
}

func (e *NotFoundError) Error() string {
	if e.ZoneID == 0 {
		return fmt.Sprintf("thermostat %d not found", e.ThermostatID)
	}
	return fmt.Sprintf("zone %d not found on thermostat %d", e.ZoneID, e.ThermostatID)
}
