package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TypeOTPSent        = "otp.sent"
	TypeInviteCreated  = "invite.created"
	TypeInviteAccepted = "invite.accepted"
	TypeSessionLogin   = "session.login"
	TypeSessionLogout  = "session.logout"
)

// DefaultStream is the redis stream access events are appended to.
const DefaultStream = "access:events"

type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data"`
}

func New(eventType string, data map[string]string) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events. Used when redis is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisPublisher(client *redis.Client, stream string, maxLen int64) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":       event.Type,
			"occurredAt": event.OccurredAt.Format(time.RFC3339Nano),
			"data":       string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// Decode rebuilds an Event from stream message values written by
// RedisPublisher.
func Decode(values map[string]any) (Event, error) {
	var event Event
	eventType, _ := values["type"].(string)
	if eventType == "" {
		return event, fmt.Errorf("event type missing")
	}
	event.Type = eventType

	if ts, ok := values["occurredAt"].(string); ok && ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return event, fmt.Errorf("parse occurredAt: %w", err)
		}
		event.OccurredAt = parsed
	}

	if raw, ok := values["data"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &event.Data); err != nil {
			return event, fmt.Errorf("decode event data: %w", err)
		}
	}
	return event, nil
}
