package health

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codekitchen/homebridge-trane-home/internal/poller"
	"github.com/stretchr/testify/assert"
)

type fakePoller struct {
	ch        chan poller.Update
	refreshes atomic.Int32
}

func (f *fakePoller) Subscribe() chan poller.Update    { return f.ch }
func (f *fakePoller) Unsubscribe(_ chan poller.Update) {}
func (f *fakePoller) Refresh()                         { f.refreshes.Add(1) }

func TestHealth_ServeHTTP(t *testing.T) {
	p := &fakePoller{ch: make(chan poller.Update, 1)}
	h := New(p, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = h.Run(ctx) }()

	// no update yet: unavailable, and the poller is nudged
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, &http.Request{})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, int32(1), p.refreshes.Load())

	p.ch <- poller.Update{
		Polled: time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC),
		Thermostats: []poller.Thermostat{
			{ID: 1, Name: "Downstairs"},
		},
	}

	assert.Eventually(t, func() bool {
		resp = httptest.NewRecorder()
		h.ServeHTTP(resp, &http.Request{})
		return resp.Code == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Body.String(), `"polled": "2024-07-01T12:00:00Z"`)
	assert.Contains(t, resp.Body.String(), `"name": "Downstairs"`)
}
