package checkout

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const MessageTimeout = 4000 * time.Millisecond

// MessageBanner shows a message and hides it again after MessageTimeout.
// Every Show schedules its own hide; pending hides are never cancelled.
type MessageBanner struct {
	view  View
	clock clockwork.Clock
	log   logrus.FieldLogger
}

func NewMessageBanner(view View, clock clockwork.Clock, log logrus.FieldLogger) *MessageBanner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MessageBanner{view: view, clock: clock, log: log}
}

func (b *MessageBanner) Show(ctx context.Context, text string) error {
	if err := b.view.SetMessage(ctx, text, true); err != nil {
		return err
	}

	hideCtx := context.WithoutCancel(ctx)
	b.clock.AfterFunc(MessageTimeout, func() {
		if err := b.view.SetMessage(hideCtx, "", false); err != nil {
			b.log.WithError(err).Warn("hide payment message")
		}
	})
	return nil
}
