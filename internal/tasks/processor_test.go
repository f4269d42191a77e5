package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type captureSink struct {
	got []Delivery
	err error
}

func (s *captureSink) Deliver(_ context.Context, d Delivery) error {
	s.got = append(s.got, d)
	return s.err
}

func message(values map[string]any) redis.XMessage {
	return redis.XMessage{ID: "1-0", Values: values}
}

func TestProcessor_Deliveries(t *testing.T) {
	tests := []struct {
		name      string
		values    map[string]any
		channel   string
		recipient string
		contains  string
	}{
		{
			name:      "otp",
			values:    map[string]any{"type": "otp.sent", "data": `{"phone":"+15550001111","code":"042917"}`},
			channel:   "sms",
			recipient: "+15550001111",
			contains:  "042917",
		},
		{
			name:      "invite",
			values:    map[string]any{"type": "invite.created", "data": `{"email":"eve@acme.com","token":"inv_x","role":"user","companyName":"Acme Corp"}`},
			channel:   "email",
			recipient: "eve@acme.com",
			contains:  "https://app.test/invite?token=inv_x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureSink{}
			p := NewProcessor(zerolog.Nop(), sink, "https://app.test/invite")

			if err := p.Handle(context.Background(), message(tt.values)); err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if len(sink.got) != 1 {
				t.Fatalf("deliveries = %d, want 1", len(sink.got))
			}
			d := sink.got[0]
			if d.Channel != tt.channel || d.Recipient != tt.recipient {
				t.Errorf("delivery = %+v", d)
			}
			if !strings.Contains(d.Body, tt.contains) {
				t.Errorf("body %q missing %q", d.Body, tt.contains)
			}
		})
	}
}

func TestProcessor_AuditAndMalformed(t *testing.T) {
	sink := &captureSink{}
	p := NewProcessor(zerolog.Nop(), sink, "")

	inputs := []map[string]any{
		{"type": "session.login", "data": `{"userId":"usr_alice"}`},
		{"type": "something.else"},
		{"data": `{}`},
		{"type": "otp.sent", "data": "{not json"},
	}
	for _, values := range inputs {
		if err := p.Handle(context.Background(), message(values)); err != nil {
			t.Errorf("Handle(%v) = %v, want nil", values, err)
		}
	}
	if len(sink.got) != 0 {
		t.Errorf("deliveries = %v, want none", sink.got)
	}
}

func TestProcessor_SinkErrorIsReturned(t *testing.T) {
	sink := &captureSink{err: errors.New("smtp down")}
	p := NewProcessor(zerolog.Nop(), sink, "")

	err := p.Handle(context.Background(), message(map[string]any{"type": "otp.sent", "data": `{"phone":"+1","code":"123456"}`}))
	if err == nil {
		t.Fatal("sink failure should leave the message pending")
	}
}
