// Package bridge assembles and runs the bridge daemon.
package bridge

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/clambin/go-common/taskmanager"
	"github.com/clambin/go-common/taskmanager/httpserver"
	promserver "github.com/clambin/go-common/taskmanager/prometheus"
	"github.com/codekitchen/homebridge-trane-home/internal/collector"
	"github.com/codekitchen/homebridge-trane-home/internal/health"
	"github.com/codekitchen/homebridge-trane-home/internal/mqttpub"
	"github.com/codekitchen/homebridge-trane-home/internal/names"
	"github.com/codekitchen/homebridge-trane-home/internal/notifier"
	"github.com/codekitchen/homebridge-trane-home/internal/poller"
	"github.com/codekitchen/homebridge-trane-home/internal/tranehome"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = cobra.Command{
	Use:   "bridge",
	Short: "Run the bridge daemon",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tm, err := New(viper.GetViper(), prometheus.DefaultRegisterer, slog.Default())
		if err != nil {
			return err
		}
		return tm.Run(cmd.Context())
	},
}

// New assembles the daemon's tasks from the configuration.
func New(cfg *viper.Viper, registry prometheus.Registerer, logger *slog.Logger) (*taskmanager.Manager, error) {
	apiMetrics := tranehome.NewAPIMetrics("trane", "bridge", nil)
	if registry != nil {
		registry.MustRegister(apiMetrics)
	}
	api := tranehome.NewAPI(
		cfg.GetInt("tranehome.houseid"),
		cfg.GetString("tranehome.mobileid"),
		cfg.GetString("tranehome.apikey"),
		apiMetrics,
	)
	client := tranehome.NewClient(api, cfg.GetDuration("tranehome.cachewindow"), logger.With("component", "client"))

	// Do we have display-name overrides?
	overrides, err := names.MaybeLoadFile(filepath.Join(filepath.Dir(cfg.ConfigFileUsed()), "names.yaml"))
	if err != nil {
		return nil, err
	}

	return taskmanager.New(makeTasks(cfg, client, overrides, registry, logger)...), nil
}

func makeTasks(cfg *viper.Viper, client *tranehome.Client, overrides names.Names, registry prometheus.Registerer, l *slog.Logger) []taskmanager.Task {
	var tasks []taskmanager.Task

	// Poller
	p := poller.New(client, cfg.GetDuration("poller.interval"), overrides, l.With("component", "poller"))
	tasks = append(tasks, p)

	// Collector
	coll := &collector.Collector{Poller: p, Logger: l.With("component", "collector")}
	if registry != nil {
		registry.MustRegister(coll)
	}
	tasks = append(tasks, coll)

	// Prometheus server
	tasks = append(tasks, promserver.New(promserver.WithAddr(cfg.GetString("exporter.addr"))))

	// Health endpoint
	h := health.New(p, l.With("component", "health"))
	tasks = append(tasks, h)
	r := http.NewServeMux()
	r.Handle("/health", h)
	tasks = append(tasks, httpserver.New(cfg.GetString("health.addr"), r))

	// Zone activity notifications
	notifiers := notifier.Notifiers{&notifier.SLogNotifier{Logger: l.With("component", "notifier")}}
	if token := cfg.GetString("slack.token"); token != "" {
		notifiers = append(notifiers, &notifier.SlackNotifier{
			Logger:      l.With("component", "slack"),
			SlackSender: slack.New(token),
		})
	}
	tasks = append(tasks, &notifier.Monitor{
		Poller:    p,
		Notifiers: notifiers,
		Logger:    l.With("component", "monitor"),
	})

	// MQTT publishing
	if broker := cfg.GetString("mqtt.broker"); broker != "" {
		tasks = append(tasks, mqttpub.New(mqttpub.Config{
			Broker:      broker,
			ClientID:    cfg.GetString("mqtt.clientid"),
			TopicPrefix: cfg.GetString("mqtt.topicprefix"),
		}, p, l.With("component", "mqtt")))
	}

	return tasks
}
