package notifier

import (
	"log/slog"
	"testing"

	"github.com/codekitchen/homebridge-trane-home/internal/poller"
	"github.com/codekitchen/homebridge-trane-home/internal/tranehome"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(msg string) {
	f.messages = append(f.messages, msg)
}

func makeUpdate(status string) poller.Update {
	return poller.Update{Thermostats: []poller.Thermostat{{
		ID:   1,
		Name: "Downstairs",
		Zones: []poller.Zone{
			{ID: 10, Name: "Living Room", Mode: tranehome.ModeCool, Status: status},
		},
	}}}
}

func TestMonitor_Process(t *testing.T) {
	f := &fakeNotifier{}
	m := Monitor{Notifiers: Notifiers{f}, Logger: slog.Default()}

	// the first update seeds state without announcing anything
	m.process(makeUpdate(tranehome.StatusIdle))
	assert.Empty(t, f.messages)

	m.process(makeUpdate(tranehome.StatusCooling))
	assert.Equal(t, []string{"Living Room: Cooling"}, f.messages)

	// unchanged activity is not re-announced
	m.process(makeUpdate(tranehome.StatusCooling))
	assert.Len(t, f.messages, 1)

	m.process(makeUpdate(tranehome.StatusIdle))
	assert.Equal(t, []string{"Living Room: Cooling", "Living Room: System Idle"}, f.messages)
}

type fakeSlack struct {
	posts []string
}

func (f *fakeSlack) PostMessage(channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.posts = append(f.posts, channelID)
	return "", "", nil
}

func (f *fakeSlack) GetConversations(_ *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	joined := slack.Channel{}
	joined.ID = "C1"
	joined.Name = "hvac"
	joined.IsMember = true
	left := slack.Channel{}
	left.ID = "C2"
	left.Name = "general"
	return []slack.Channel{joined, left}, "", nil
}

func (f *fakeSlack) AuthTest() (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: "U1"}, nil
}

func TestSlackNotifier(t *testing.T) {
	f := &fakeSlack{}
	s := SlackNotifier{Logger: slog.Default(), SlackSender: f}

	s.Notify("Living Room: Cooling")

	// only joined, unarchived channels are notified
	assert.Equal(t, []string{"C1"}, f.posts)
}
