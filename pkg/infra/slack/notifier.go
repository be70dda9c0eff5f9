// Package slack posts release announcements to an incoming webhook.
package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/interfaces"
	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a Notifier posting to the given incoming webhook URL.
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{webhookURL: webhookURL}
}

func (n *notifier) Announce(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post release announcement",
			goerr.T(types.ErrTagRemoteAPI))
	}
	return nil
}
