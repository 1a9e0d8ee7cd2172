// Package names loads optional display-name overrides for thermostats and
// zones. The remote system's names are whatever the installer typed on the
// thermostat; a names.yaml next to the config file lets users relabel them
// for metrics, MQTT and notifications without touching the device.
package names

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Names maps thermostat/zone ids to display names. The zero value applies no
// overrides.
type Names struct {
	Thermostats map[int]string `yaml:"thermostats"`
	Zones       map[int]string `yaml:"zones"`
}

// Load reads overrides from r.
func Load(r io.Reader) (Names, error) {
	var n Names
	err := yaml.NewDecoder(r).Decode(&n)
	if err != nil && !errors.Is(err, io.EOF) {
		return Names{}, err
	}
	return n, nil
}

// MaybeLoadFile reads overrides from path. A missing file is not an error.
func MaybeLoadFile(path string) (Names, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		return Names{}, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Thermostat returns the override for a thermostat id, or fallback.
func (n Names) Thermostat(id int, fallback string) string {
	if name, ok := n.Thermostats[id]; ok {
		return name
	}
	return fallback
}

// Zone returns the override for a zone id, or fallback.
func (n Names) Zone(id int, fallback string) string {
	if name, ok := n.Zones[id]; ok {
		return name
	}
	return fallback
}
