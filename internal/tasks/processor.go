package tasks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"workpulse/internal/events"
)

// Delivery is an outbound notification the worker would send.
type Delivery struct {
	Channel   string // "sms" or "email"
	Recipient string
	Subject   string
	Body      string
}

// Sink hands deliveries to a transport. The demo sink only logs them.
type Sink interface {
	Deliver(ctx context.Context, d Delivery) error
}

type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) LogSink {
	return LogSink{logger: logger}
}

func (s LogSink) Deliver(_ context.Context, d Delivery) error {
	s.logger.Info().
		Str("channel", d.Channel).
		Str("to", d.Recipient).
		Str("subject", d.Subject).
		Str("body", d.Body).
		Msg("demo delivery")
	return nil
}

// Processor turns access events into deliveries. Events with nothing to
// deliver are logged as audit entries and acknowledged.
type Processor struct {
	logger     zerolog.Logger
	sink       Sink
	acceptBase string
}

// NewProcessor builds a processor whose invite e-mails link to acceptBase,
// e.g. "https://app.example.com/invite".
func NewProcessor(logger zerolog.Logger, sink Sink, acceptBase string) *Processor {
	return &Processor{
		logger:     logger,
		sink:       sink,
		acceptBase: acceptBase,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	event, err := events.Decode(msg.Values)
	if err != nil {
		// Undecodable entries would be redelivered forever; drop them.
		p.logger.Error().Err(err).Str("message_id", msg.ID).Msg("discarding malformed event")
		return nil
	}

	switch event.Type {
	case events.TypeOTPSent:
		return p.handleOTPSent(ctx, event)
	case events.TypeInviteCreated:
		return p.handleInviteCreated(ctx, event)
	case events.TypeInviteAccepted, events.TypeSessionLogin, events.TypeSessionLogout:
		p.audit(event)
		return nil
	default:
		p.logger.Warn().Str("type", event.Type).Msg("unknown event type")
		return nil
	}
}

func (p *Processor) handleOTPSent(ctx context.Context, event events.Event) error {
	phone := event.Data["phone"]
	if phone == "" {
		return fmt.Errorf("otp.sent without phone")
	}
	return p.sink.Deliver(ctx, Delivery{
		Channel:   "sms",
		Recipient: phone,
		Body:      fmt.Sprintf("Your WorkPulse verification code is %s", event.Data["code"]),
	})
}

func (p *Processor) handleInviteCreated(ctx context.Context, event events.Event) error {
	email := event.Data["email"]
	if email == "" {
		return fmt.Errorf("invite.created without email")
	}
	company := event.Data["companyName"]
	if company == "" {
		company = "WorkPulse"
	}
	return p.sink.Deliver(ctx, Delivery{
		Channel:   "email",
		Recipient: email,
		Subject:   fmt.Sprintf("You have been invited to %s", company),
		Body: fmt.Sprintf("Join as %s: %s?token=%s",
			event.Data["role"], p.acceptBase, event.Data["token"]),
	})
}

func (p *Processor) audit(event events.Event) {
	ev := p.logger.Info().Str("type", event.Type).Time("occurred_at", event.OccurredAt)
	for k, v := range event.Data {
		ev = ev.Str(k, v)
	}
	ev.Msg("access event")
}
