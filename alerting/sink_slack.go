package alerting

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackSink posts a message to a Slack channel for every notification.
type SlackSink struct {
	client  *slack.Client
	channel string
}

// NewSlackSink creates a SlackSink posting to channel using a bot token.
func NewSlackSink(token, channel string) *SlackSink {
	return &SlackSink{client: slack.New(token), channel: channel}
}

// Notify implements Sink.
func (s *SlackSink) Notify(ctx context.Context, alert Alert, event string) error {
	text := fmt.Sprintf("[%s] %s %s: %s", alert.Severity, event, alert.RuleID, alert.Title)
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	return err
}
