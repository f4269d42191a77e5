package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"workpulse/internal/security"
)

const testPhone = "+15550100"

func newOTP() *OTPService {
	return NewOTPService(nil, nil, zerolog.Nop())
}

// sequence makes code generation deterministic.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", fmt.Errorf("sequence exhausted")
		}
		c := codes[i]
		i++
		return c, nil
	}
}

func TestOTPSend_IssuesSixDigitCode(t *testing.T) {
	svc := newOTP()
	c, err := svc.Send(context.Background(), testPhone)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !security.IsOTPFormat(c.Code) {
		t.Errorf("code %q is not six digits", c.Code)
	}
	if c.Phone != testPhone || c.Consumed || c.CreatedAt.IsZero() {
		t.Errorf("unexpected challenge %+v", c)
	}
}

func TestOTPSend_RequiresPhone(t *testing.T) {
	if _, err := newOTP().Send(context.Background(), "  "); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestOTPVerify_SucceedsExactlyOnce(t *testing.T) {
	svc := newOTP()
	ctx := context.Background()
	c, _ := svc.Send(ctx, testPhone)

	if err := svc.Verify(ctx, testPhone, c.Code); err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	if err := svc.Verify(ctx, testPhone, c.Code); !errors.Is(err, ErrNoActiveChallenge) {
		t.Fatalf("second Verify: expected ErrNoActiveChallenge, got %v", err)
	}
	if _, ok := svc.Pending(ctx, testPhone); ok {
		t.Error("consumed challenge should not be pending")
	}
}

func TestOTPResend_InvalidatesPriorCode(t *testing.T) {
	svc := newOTP()
	svc.generate = sequence("111111", "222222")
	ctx := context.Background()

	first, _ := svc.Send(ctx, testPhone)
	second, _ := svc.Send(ctx, testPhone)

	err := svc.Verify(ctx, testPhone, first.Code)
	if err == nil {
		t.Fatal("superseded code must never verify")
	}
	if !errors.Is(err, ErrCodeMismatch) && !errors.Is(err, ErrNoActiveChallenge) {
		t.Fatalf("unexpected error %v", err)
	}

	if err := svc.Verify(ctx, testPhone, second.Code); err != nil {
		t.Fatalf("latest code should verify: %v", err)
	}
}

func TestOTPResend_AfterConsumeIssuesNewChallenge(t *testing.T) {
	svc := newOTP()
	svc.generate = sequence("123456", "654321")
	ctx := context.Background()

	_, _ = svc.Send(ctx, testPhone)
	_ = svc.Verify(ctx, testPhone, "123456")
	_, _ = svc.Send(ctx, testPhone)

	if err := svc.Verify(ctx, testPhone, "654321"); err != nil {
		t.Fatalf("Verify after resend: %v", err)
	}
}

func TestOTPVerify_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		phone string
		code  string
		want  error
	}{
		{"short", testPhone, "12345", ErrMalformedCode},
		{"long", testPhone, "1234567", ErrMalformedCode},
		{"letters", testPhone, "12ab56", ErrMalformedCode},
		{"empty", testPhone, "", ErrMalformedCode},
		{"mismatch", testPhone, "000001", ErrCodeMismatch},
		{"unknown phone", "+19990000", "000000", ErrNoActiveChallenge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newOTP()
			svc.generate = sequence("000000")
			_, _ = svc.Send(ctx, testPhone)

			if err := svc.Verify(ctx, tt.phone, tt.code); !errors.Is(err, tt.want) {
				t.Fatalf("Verify() = %v, want %v", err, tt.want)
			}
			// Failures leave the challenge pending and retryable.
			if err := svc.Verify(ctx, testPhone, "000000"); err != nil {
				t.Fatalf("retry after failure: %v", err)
			}
		})
	}
}

func TestOTPVerify_LeadingZeros(t *testing.T) {
	svc := newOTP()
	svc.generate = sequence("000042")
	ctx := context.Background()
	_, _ = svc.Send(ctx, testPhone)

	if err := svc.Verify(ctx, testPhone, "42"); !errors.Is(err, ErrMalformedCode) {
		t.Fatalf("expected ErrMalformedCode, got %v", err)
	}
	if err := svc.Verify(ctx, testPhone, "000042"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestOTPPending(t *testing.T) {
	svc := newOTP()
	ctx := context.Background()

	if _, ok := svc.Pending(ctx, testPhone); ok {
		t.Fatal("no challenge should be pending before Send")
	}
	sent, _ := svc.Send(ctx, testPhone)
	pending, ok := svc.Pending(ctx, " "+testPhone+" ")
	if !ok || pending.Code != sent.Code {
		t.Fatalf("Pending() = %+v, %v", pending, ok)
	}
}
