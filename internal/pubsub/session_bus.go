package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/procodeli/portal/internal/domain"
)

const topicPrefix = "session."

// Metadata key carrying the event type, so subscribers can filter without decoding.
const metaKeyEventType = "event_type"

// SessionBus fans session change events out to in-process subscribers. Each
// browser session has its own topic; events published with no subscriber are dropped.
type SessionBus struct {
	pubsub *gochannel.GoChannel
}

func NewSessionBus() *SessionBus {
	return &SessionBus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 16},
			watermill.NewStdLogger(false, false),
		),
	}
}

func topicFor(sessionID string) string { return topicPrefix + sessionID }

// Publish emits ev on the topic of ev.SessionID.
func (b *SessionBus) Publish(_ context.Context, ev domain.SessionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metaKeyEventType, ev.Type)
	return b.pubsub.Publish(topicFor(ev.SessionID), msg)
}

// Subscribe calls fn for every event on sessionID's topic until cancel is
// called or ctx ends. The subscription is active when Subscribe returns.
func (b *SessionBus) Subscribe(ctx context.Context, sessionID string, fn func(domain.SessionEvent)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	messages, err := b.pubsub.Subscribe(subCtx, topicFor(sessionID))
	if err != nil {
		cancel()
		return nil, err
	}

	go func() {
		for msg := range messages {
			var ev domain.SessionEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				slog.Error("dropping malformed session event", "msg_id", msg.UUID, "err", err)
				msg.Ack()
				continue
			}
			fn(ev)
			msg.Ack()
		}
	}()
	return cancel, nil
}

// Close shuts the bus down and ends every subscription.
func (b *SessionBus) Close() error {
	return b.pubsub.Close()
}
