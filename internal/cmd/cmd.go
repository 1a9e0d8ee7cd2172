// Package cmd wires up the trane-bridge command line.
package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/clambin/go-common/charmer"
	"github.com/codekitchen/homebridge-trane-home/internal/cmd/bridge"
	"github.com/codekitchen/homebridge-trane-home/internal/cmd/devices"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "trane-bridge",
		Short: "Bridge for Trane Home (Nexia) HVAC systems",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			var opts slog.HandlerOptions
			if viper.GetBool("debug") {
				opts.Level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &opts)))
		},
	}
)

var args = charmer.Arguments{
	"debug":                 charmer.Argument{Default: false, Help: "Log debug messages"},
	"tranehome.houseid":     charmer.Argument{Default: 0, Help: "Trane Home house id"},
	"tranehome.mobileid":    charmer.Argument{Default: "", Help: "Trane Home mobile id"},
	"tranehome.apikey":      charmer.Argument{Default: "", Help: "Trane Home API key"},
	"tranehome.cachewindow": charmer.Argument{Default: 15 * time.Second, Help: "How long a fetched house status stays valid"},
	"poller.interval":       charmer.Argument{Default: 30 * time.Second, Help: "Poller interval"},
	"exporter.addr":         charmer.Argument{Default: ":9090", Help: "Address of the Prometheus exporter"},
	"health.addr":           charmer.Argument{Default: ":8080", Help: "Address of the /health endpoint"},
	"mqtt.broker":           charmer.Argument{Default: "", Help: "MQTT broker URL (empty disables MQTT publishing)"},
	"mqtt.clientid":         charmer.Argument{Default: "trane-bridge", Help: "MQTT client id"},
	"mqtt.topicprefix":      charmer.Argument{Default: "trane", Help: "MQTT topic prefix"},
	"slack.token":           charmer.Argument{Default: "", Help: "Slack token (empty disables Slack notifications)"},
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	RootCmd.PersistentFlags().Bool("debug", false, "Log debug messages")
	_ = viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))

	RootCmd.AddCommand(&bridge.Cmd, &devices.Cmd)
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/trane-bridge/")
		viper.AddConfigPath("$HOME/.trane-bridge")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	if err := charmer.SetDefaults(viper.GetViper(), args); err != nil {
		panic("failed to set viper defaults: " + err.Error())
	}

	viper.SetEnvPrefix("TRANE_BRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Error("failed to read config file", "err", err)
		os.Exit(1)
	}
}
