package models

import "time"

// Challenge is a one-time passcode bound to a phone identifier.
type Challenge struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	Consumed  bool      `json:"consumed"`
}

// Active reports whether the challenge can still be verified.
func (c Challenge) Active() bool {
	return c.Code != "" && !c.Consumed
}
