package service

import "errors"

// Authentication.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRoleSwitchDisabled = errors.New("role switching is disabled")
)

// OTP.
var (
	ErrInvalidPhone      = errors.New("phone required")
	ErrMalformedCode     = errors.New("code must be exactly 6 digits")
	ErrNoActiveChallenge = errors.New("no active challenge")
	ErrCodeMismatch      = errors.New("code mismatch")
)

// Invites.
var (
	ErrInvalidInvite   = errors.New("invalid invite")
	ErrInvalidToken    = errors.New("invalid invite token")
	ErrInviteExpired   = errors.New("invite expired")
	ErrAlreadyAccepted = errors.New("invite already accepted")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrAccountNotFound, "account_not_found"},
	{ErrInvalidPassword, "invalid_password"},
	{ErrInvalidRole, "invalid_role"},
	{ErrRoleSwitchDisabled, "role_switch_disabled"},
	{ErrInvalidPhone, "invalid_phone"},
	{ErrMalformedCode, "malformed_code"},
	{ErrNoActiveChallenge, "no_active_challenge"},
	{ErrCodeMismatch, "code_mismatch"},
	{ErrInvalidInvite, "invalid_invite"},
	{ErrInvalidToken, "invalid_token"},
	{ErrInviteExpired, "invite_expired"},
	{ErrAlreadyAccepted, "already_accepted"},
}

// ErrorCode returns the stable code rendered inline for err, "" for nil and
// "internal_error" for anything outside the taxonomy.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal_error"
}
