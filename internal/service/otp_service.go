package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workpulse/internal/events"
	"workpulse/internal/metrics"
	"workpulse/internal/models"
	"workpulse/internal/repository"
	"workpulse/internal/security"
)

// OTPService issues and verifies one-time passcodes bound to a phone.
// A phone has at most one active challenge; a new Send supersedes the old
// one. There is no wall-clock expiry. Resend pacing is the caller's policy.
type OTPService struct {
	challenges *repository.ChallengeRepository
	events     events.Publisher
	log        zerolog.Logger
	now        func() time.Time
	generate   func() (string, error)
}

func NewOTPService(challenges *repository.ChallengeRepository, publisher events.Publisher, log zerolog.Logger) *OTPService {
	if challenges == nil {
		challenges = repository.NewChallengeRepository()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OTPService{
		challenges: challenges,
		events:     publisher,
		log:        log,
		now:        time.Now,
		generate:   security.GenerateOTP,
	}
}

// NormalizePhone is the challenge key for a phone identifier.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// Send issues a new challenge for phone, discarding any pending one.
func (s *OTPService) Send(ctx context.Context, phone string) (models.Challenge, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return models.Challenge{}, ErrInvalidPhone
	}

	code, err := s.generate()
	if err != nil {
		return models.Challenge{}, err
	}

	challenge := models.Challenge{
		Phone:     phone,
		Code:      code,
		CreatedAt: s.now().UTC(),
	}
	s.challenges.Put(ctx, challenge)

	metrics.OTPSent.Inc()
	s.log.Info().Str("phone", phone).Msg("otp challenge issued")

	// Demo delivery: the worker logs the code instead of sending an SMS.
	err = s.events.Publish(ctx, events.New(events.TypeOTPSent, map[string]string{
		"phone": phone,
		"code":  code,
	}))
	if err != nil {
		s.log.Warn().Err(err).Msg("publish otp event failed")
	}

	return challenge, nil
}

// Verify checks code against the phone's active challenge and consumes it
// on success. Failed attempts leave the challenge untouched.
func (s *OTPService) Verify(ctx context.Context, phone string, code string) error {
	err := s.verify(ctx, NormalizePhone(phone), code)
	metrics.OTPVerifications.WithLabelValues(metrics.Result(ErrorCode(err))).Inc()
	if err != nil {
		s.log.Warn().Str("phone", phone).Str("reason", ErrorCode(err)).Msg("otp verification failed")
		return err
	}
	s.log.Info().Str("phone", phone).Msg("otp verified")
	return nil
}

func (s *OTPService) verify(ctx context.Context, phone string, code string) error {
	if !security.IsOTPFormat(code) {
		return ErrMalformedCode
	}
	err := s.challenges.Update(ctx, phone, func(c *models.Challenge) error {
		if !c.Active() {
			return ErrNoActiveChallenge
		}
		if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
			return ErrCodeMismatch
		}
		c.Consumed = true
		return nil
	})
	if errors.Is(err, repository.ErrChallengeNotFound) {
		return ErrNoActiveChallenge
	}
	if err != nil && !errors.Is(err, ErrNoActiveChallenge) && !errors.Is(err, ErrCodeMismatch) {
		return fmt.Errorf("update challenge: %w", err)
	}
	return err
}

// Pending returns the phone's active challenge, code included. Demo only:
// it backs the "here is your code" affordance and must not exist in a
// production build.
func (s *OTPService) Pending(ctx context.Context, phone string) (models.Challenge, bool) {
	c, err := s.challenges.Get(ctx, NormalizePhone(phone))
	if err != nil || !c.Active() {
		return models.Challenge{}, false
	}
	return c, true
}
