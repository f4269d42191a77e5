package events

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisPublisher_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	pub := NewRedisPublisher(client, "", 0)
	ctx := context.Background()

	if err := pub.Publish(ctx, New(TypeInviteCreated, map[string]string{"email": "eve@acme.com"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs, err := client.XRange(ctx, DefaultStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}

	event, err := Decode(msgs[0].Values)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if event.Type != TypeInviteCreated {
		t.Errorf("Type = %q", event.Type)
	}
	if event.Data["email"] != "eve@acme.com" {
		t.Errorf("Data = %v", event.Data)
	}
	if event.OccurredAt.IsZero() {
		t.Error("OccurredAt should be set")
	}
}

func TestDecode_MissingType(t *testing.T) {
	if _, err := Decode(map[string]any{"data": "{}"}); err == nil {
		t.Error("expected error for missing type")
	}
}
