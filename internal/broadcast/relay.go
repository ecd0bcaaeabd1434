package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured
const DefaultChannel = "catalog:changed"

// Refresher fans the current product list out to local sessions
type Refresher interface {
	Refresh(ctx context.Context, src Source)
}

type announcement struct {
	Origin string `json:"origin"`
}

// Relay carries catalog change notices between instances over Redis
// pub/sub, so sessions connected to any instance see every change.
type Relay struct {
	client  redis.UniversalClient
	channel string
	origin  string
	log     hclog.Logger
}

func NewRelay(client redis.UniversalClient, channel string, log hclog.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		log:     log,
	}
}

// Origin identifies this instance on the channel
func (r *Relay) Origin() string {
	return r.origin
}

// Announce publishes a change notice from this instance
func (r *Relay) Announce(ctx context.Context) error {
	data, err := json.Marshal(announcement{Origin: r.origin})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Run refreshes target's sessions for every notice from another instance
// until ctx is cancelled. Notices from this instance are skipped since the
// local change was already fanned out.
func (r *Relay) Run(ctx context.Context, target Refresher, src Source) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("unable to subscribe to %s: %w", r.channel, err)
	}
	r.log.Info("Relay subscribed", "channel", r.channel, "origin", r.origin)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var a announcement
			if err := json.Unmarshal([]byte(msg.Payload), &a); err != nil {
				r.log.Warn("Ignoring malformed relay message", "payload", msg.Payload, "error", err)
				continue
			}
			if a.Origin == r.origin {
				continue
			}

			r.log.Debug("Catalog changed on another instance", "origin", a.Origin)
			target.Refresh(ctx, src)
		}
	}
}
