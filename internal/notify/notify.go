// Package notify formats annotated listings and posts them to Slack.
package notify

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/listing"
	"github.com/sells-group/poi-cli/pkg/slack"
)

// FormatMessage renders the one-line summary posted for a listing:
// "{area} | {price} | {distance to network A} | {name} | <{url}>".
func FormatMessage(l listing.Listing, rec *annotate.Record) string {
	dist := "N/A"
	area := ""
	if rec != nil {
		area = rec.Area
		if rec.NetworkA.Found {
			dist = fmt.Sprintf("%.2f km", rec.NetworkA.DistanceKM)
		}
	}
	return fmt.Sprintf("%s | %s | %s | %s | <%s>", area, l.Price, dist, l.Name, l.URL)
}

// Config holds the Slack posting identity.
type Config struct {
	Channel   string
	Username  string
	IconEmoji string
}

// Notifier posts annotated listings to a channel. A nil Notifier, or one
// without a client, does nothing.
type Notifier struct {
	client slack.Client
	cfg    Config
}

// New creates a Notifier.
func New(client slack.Client, cfg Config) *Notifier {
	return &Notifier{client: client, cfg: cfg}
}

// Enabled reports whether Notify will actually post.
func (n *Notifier) Enabled() bool {
	return n != nil && n.client != nil
}

// Notify posts the listing summary.
func (n *Notifier) Notify(ctx context.Context, l listing.Listing, rec *annotate.Record) error {
	if !n.Enabled() {
		return nil
	}

	text := FormatMessage(l, rec)
	ts, err := n.client.PostMessage(ctx, slack.Message{
		Channel:   n.cfg.Channel,
		Text:      text,
		Username:  n.cfg.Username,
		IconEmoji: n.cfg.IconEmoji,
	})
	if err != nil {
		return eris.Wrapf(err, "notify: post listing %s", l.ID)
	}

	zap.L().Debug("posted listing",
		zap.String("listing_id", l.ID),
		zap.String("channel", n.cfg.Channel),
		zap.String("ts", ts),
	)
	return nil
}
