package notifier

import (
	"log/slog"
)

var _ Notifier = &SLogNotifier{}

type SLogNotifier struct {
	Logger *slog.Logger
}

func (s *SLogNotifier) Notify(msg string) {
	s.Logger.Info("zone update", slog.String("update", msg))
}
