package bridge

import (
	"log/slog"
	"testing"
	"time"

	"github.com/codekitchen/homebridge-trane-home/internal/names"
	"github.com/codekitchen/homebridge-trane-home/internal/tranehome"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func testConfig() *viper.Viper {
	cfg := viper.New()
	cfg.Set("tranehome.houseid", 42)
	cfg.Set("tranehome.mobileid", "mobile-1")
	cfg.Set("tranehome.apikey", "key-1")
	cfg.Set("tranehome.cachewindow", 15*time.Second)
	cfg.Set("poller.interval", 30*time.Second)
	cfg.Set("exporter.addr", ":9090")
	cfg.Set("health.addr", ":8080")
	return cfg
}

func TestMakeTasks(t *testing.T) {
	cfg := testConfig()
	client := tranehome.NewClient(tranehome.NewAPI(42, "mobile-1", "key-1", nil), time.Minute, slog.Default())

	// poller, collector, prometheus server, health, http server, notifier monitor
	tasks := makeTasks(cfg, client, names.Names{}, prometheus.NewRegistry(), slog.Default())
	assert.Len(t, tasks, 6)

	// slack and mqtt are optional tasks
	cfg.Set("slack.token", "token")
	cfg.Set("mqtt.broker", "tcp://localhost:1883")
	tasks = makeTasks(cfg, client, names.Names{}, prometheus.NewRegistry(), slog.Default())
	assert.Len(t, tasks, 7)
}

func TestNew(t *testing.T) {
	tm, err := New(testConfig(), prometheus.NewRegistry(), slog.Default())
	assert.NoError(t, err)
	assert.NotNil(t, tm)
}
