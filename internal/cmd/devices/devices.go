// Package devices implements the one-shot device inventory command, mainly
// useful for finding the thermostat/zone ids to put in a names.yaml.
package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/codekitchen/homebridge-trane-home/internal/tranehome"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = cobra.Command{
	Use:   "devices",
	Short: "List the thermostats and zones of the house",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := viper.GetViper()
		api := tranehome.NewAPI(
			cfg.GetInt("tranehome.houseid"),
			cfg.GetString("tranehome.mobileid"),
			cfg.GetString("tranehome.apikey"),
			nil,
		)
		client := tranehome.NewClient(api, 0, slog.Default())
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return ShowDevices(cmd.Context(), client, encoder)
	},
}

type Encoder interface {
	Encode(any) error
}

type Getter interface {
	Thermostats(context.Context) ([]tranehome.Thermostat, error)
}

type zoneEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Mode string `json:"mode"`
}

type thermostatEntry struct {
	ID    int         `json:"id"`
	Name  string      `json:"name"`
	Zones []zoneEntry `json:"zones"`
}

// ShowDevices writes the house's thermostats and zones to e.
func ShowDevices(ctx context.Context, c Getter, e Encoder) error {
	thermostats, err := c.Thermostats(ctx)
	if err != nil {
		return fmt.Errorf("trane home: thermostats: %w", err)
	}

	report := make([]thermostatEntry, 0, len(thermostats))
	for _, thermostat := range thermostats {
		entry := thermostatEntry{
			ID:   thermostat.ID(),
			Name: thermostat.Name(),
		}
		for _, zone := range thermostat.Zones() {
			entry.Zones = append(entry.Zones, zoneEntry{
				ID:   zone.ID(),
				Name: zone.Name(),
				Mode: string(zone.Mode()),
			})
		}
		report = append(report, entry)
	}

	return e.Encode(report)
}
