package config

import "strings"

// envKeyReplacer maps nested keys such as otp.resendcooldown to
// WORKPULSE_OTP_RESENDCOOLDOWN.
var envKeyReplacer = strings.NewReplacer(".", "_")
