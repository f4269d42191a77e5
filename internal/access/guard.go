package access

import "workpulse/internal/models"

// Route paths produced by the guards. Navigation is the caller's concern.
const (
	PathLogin          = "/login"
	PathOwnerLogin     = "/owner/login"
	PathDashboard      = "/dashboard"
	PathOwnerDashboard = "/owner/dashboard"
)

// PlatformOwnerRole is the only role admitted to the owner area and the one
// role refused by the tenant area.
const PlatformOwnerRole = models.RoleSuperAdmin

type Outcome string

const (
	OutcomeAllow        Outcome = "allow"
	OutcomeDenyRedirect Outcome = "redirect"
	OutcomeDenyRender   Outcome = "denied"
)

// Verdict is the result of a guard: allow, deny with a redirect, or deny by
// rendering an in-page access-denied state.
type Verdict struct {
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
}

func Allow() Verdict { return Verdict{Outcome: OutcomeAllow} }

func DenyRedirect(path string) Verdict {
	return Verdict{Outcome: OutcomeDenyRedirect, Redirect: path}
}

func DenyRender() Verdict { return Verdict{Outcome: OutcomeDenyRender} }

func (v Verdict) Allowed() bool { return v.Outcome == OutcomeAllow }

// Guard decides access for a possibly nil session.
type Guard func(session *models.Session) Verdict

// Check returns false without a session, otherwise whether the session's
// role grants perm.
func Check(session *models.Session, perm models.Permission) bool {
	if session == nil {
		return false
	}
	return HasPermission(session.Role, perm)
}

// OwnerArea admits only the platform owner role.
func OwnerArea(session *models.Session) Verdict {
	if session == nil {
		return DenyRedirect(PathOwnerLogin)
	}
	if session.Role != PlatformOwnerRole {
		return DenyRedirect(PathLogin)
	}
	return Allow()
}

// TenantArea admits company-scoped sessions. The platform owner is sent back
// to its own area; a role is never valid for both.
func TenantArea(session *models.Session) Verdict {
	if session == nil {
		return DenyRedirect(PathLogin)
	}
	if session.Role == PlatformOwnerRole {
		return DenyRedirect(PathOwnerDashboard)
	}
	if session.Company.IsZero() {
		return DenyRedirect(PathLogin)
	}
	return Allow()
}

// PermissionGate guards page content rather than whole routes: a present
// session lacking perm gets DenyRender instead of a redirect.
func PermissionGate(perm models.Permission) Guard {
	return func(session *models.Session) Verdict {
		if session == nil {
			return DenyRedirect(PathLogin)
		}
		if !HasPermission(session.Role, perm) {
			return DenyRender()
		}
		return Allow()
	}
}

// Chain evaluates guards in order and returns the first non-allow verdict.
func Chain(guards ...Guard) Guard {
	return func(session *models.Session) Verdict {
		for _, g := range guards {
			if v := g(session); !v.Allowed() {
				return v
			}
		}
		return Allow()
	}
}
