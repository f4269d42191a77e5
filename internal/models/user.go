package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleSubAdmin     Role = "sub_admin"
	RoleUser         Role = "user"
)

// ValidRoles lists every role in privilege order, highest first.
var ValidRoles = []Role{RoleSuperAdmin, RoleCompanyAdmin, RoleSubAdmin, RoleUser}

func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsZero reports whether the session carries no company association.
func (c Company) IsZero() bool {
	return strings.TrimSpace(c.ID) == ""
}

// Session is the authenticated identity currently held by a SessionStore.
type Session struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	Company         Company   `json:"company"`
	DeviceID        string    `json:"deviceId,omitempty"`
	TrackingEnabled bool      `json:"trackingEnabled"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
}

// Credential is a stored login: the email key, the opaque secret and the
// session template produced on a successful login.
type Credential struct {
	Email    string
	Secret   string
	Template Session
}

// NormalizeEmail is the credential lookup key.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
