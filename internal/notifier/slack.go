package notifier

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/slack-go/slack"
)

// SlackNotifier posts zone updates to every channel the bot has joined.
type SlackNotifier struct {
	Logger *slog.Logger
	SlackSender
	userID string
	lock   sync.Mutex
}

// SlackSender is the subset of the Slack client the notifier uses.
type SlackSender interface {
	PostMessage(string, ...slack.MsgOption) (string, string, error)
	GetConversations(*slack.GetConversationsParameters) ([]slack.Channel, string, error)
	AuthTest() (*slack.AuthTestResponse, error)
}

var _ Notifier = &SlackNotifier{}

func (s *SlackNotifier) Notify(msg string) {
	channels, err := s.getChannels()
	if err != nil {
		s.Logger.Error("failed to retrieve slack channels", slog.Any("err", err))
		return
	}
	for _, channel := range channels {
		s.Logger.Debug("notifying on slack", slog.String("channel", channel.Name))
		_, _, err = s.SlackSender.PostMessage(channel.ID, slack.MsgOptionAttachments(slack.Attachment{
			Color: "good",
			Text:  msg,
		}))
		if err != nil {
			s.Logger.Error("failed to post slack message", slog.Any("err", err))
		}
	}
}

func (s *SlackNotifier) getChannels() ([]slack.Channel, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.userID == "" {
		authResp, err := s.SlackSender.AuthTest()
		if err != nil {
			return nil, fmt.Errorf("AuthTest: %w", err)
		}
		s.userID = authResp.UserID
	}

	var joined []slack.Channel
	var cursor string
	for {
		channels, nextCursor, err := s.SlackSender.GetConversations(&slack.GetConversationsParameters{Cursor: cursor, Limit: 100})
		if err != nil {
			return nil, err
		}
		for _, channel := range channels {
			if channel.IsMember && !channel.IsArchived {
				joined = append(joined, channel)
			}
		}
		if cursor = nextCursor; cursor == "" {
			break
		}
	}
	return joined, nil
}
