package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
)

// Invite grants one-time registration rights for an email, role and company.
type Invite struct {
	Token       string       `json:"token"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	CompanyID   string       `json:"companyId"`
	CompanyName string       `json:"companyName"`
	Status      InviteStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	AcceptedAt  *time.Time   `json:"acceptedAt,omitempty"`
}

// IsPending reports whether the invite can still be accepted.
func (i Invite) IsPending() bool {
	return i.Status == InviteStatusPending
}
