package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"workpulse/internal/config"
)

func TestLogin_RedirectTargets(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		email, password, redirect string
	}{
		{"alice@acme.com", "admin123", "/dashboard"},
		{"Bob@Acme.com", "manager123", "/dashboard"},
		{"owner@workpulse.io", "owner123", "/owner/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			body := api.client().login(tt.email, tt.password)
			if body["redirect"] != tt.redirect {
				t.Errorf("redirect = %v, want %s", body["redirect"], tt.redirect)
			}
			session, _ := body["session"].(map[string]any)
			if session["deviceId"] == "" || session["trackingEnabled"] != true {
				t.Errorf("fresh session should carry a device and tracking: %v", session)
			}
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name, email, password, code string
	}{
		{"unknown account", "nobody@acme.com", "x", "account_not_found"},
		{"wrong password", "alice@acme.com", "Admin123", "invalid_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.client().do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": tt.email, "password": tt.password})
			if status != http.StatusUnauthorized || errorOf(body) != tt.code {
				t.Errorf("got %d %v, want 401 %s", status, body, tt.code)
			}
		})
	}
}

func TestLogin_FailureKeepsPriorSession(t *testing.T) {
	c := newTestAPI(t).client()
	c.login("alice@acme.com", "admin123")

	c.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "alice@acme.com", "password": "nope"})

	_, body := c.do(http.MethodGet, "/api/v1/auth/session", nil)
	if body["authenticated"] != true {
		t.Fatal("failed login must not clear the current session")
	}
}

func TestSessionLifecycle(t *testing.T) {
	c := newTestAPI(t).client()

	_, body := c.do(http.MethodGet, "/api/v1/auth/session", nil)
	if body["authenticated"] != false {
		t.Fatalf("new client should be anonymous: %v", body)
	}

	c.login("carol@acme.com", "user123")
	_, body = c.do(http.MethodGet, "/api/v1/auth/session", nil)
	if body["authenticated"] != true {
		t.Fatal("expected authenticated session after login")
	}
	perms, _ := body["permissions"].([]any)
	if len(perms) != 2 {
		t.Errorf("user permissions = %v, want 2", perms)
	}

	for i := 0; i < 2; i++ {
		if status, _ := c.do(http.MethodPost, "/api/v1/auth/logout", nil); status != http.StatusNoContent {
			t.Fatalf("logout status = %d", status)
		}
	}
	_, body = c.do(http.MethodGet, "/api/v1/auth/session", nil)
	if body["authenticated"] != false {
		t.Error("logout should clear the session")
	}
}

func TestClientsAreIsolated(t *testing.T) {
	api := newTestAPI(t)
	a, b := api.client(), api.client()

	a.login("alice@acme.com", "admin123")
	b.do(http.MethodGet, "/api/v1/auth/session", nil)

	_, body := b.do(http.MethodGet, "/api/v1/auth/session", nil)
	if body["authenticated"] != false {
		t.Error("one client's login must not leak into another")
	}
}

func TestSwitchRole(t *testing.T) {
	c := newTestAPI(t).client()
	c.login("carol@acme.com", "user123")

	status, body := c.do(http.MethodPost, "/api/v1/auth/role", gin.H{"role": "company_admin"})
	if status != http.StatusOK {
		t.Fatalf("status = %d body %v", status, body)
	}
	perms, _ := body["permissions"].([]any)
	if len(perms) != 10 {
		t.Errorf("company_admin permissions = %d, want 10", len(perms))
	}

	status, body = c.do(http.MethodPost, "/api/v1/auth/role", gin.H{"role": "janitor"})
	if status != http.StatusBadRequest || errorOf(body) != "invalid_role" {
		t.Errorf("got %d %v, want 400 invalid_role", status, body)
	}
}

func TestSwitchRole_Disabled(t *testing.T) {
	c := newTestAPI(t, func(cfg *config.AppConfig) {
		cfg.Demo.AllowRoleSwitch = false
	}).client()
	c.login("carol@acme.com", "user123")

	status, body := c.do(http.MethodPost, "/api/v1/auth/role", gin.H{"role": "super_admin"})
	if status != http.StatusForbidden || errorOf(body) != "role_switch_disabled" {
		t.Fatalf("got %d %v, want 403 role_switch_disabled", status, body)
	}

	_, body = c.do(http.MethodGet, "/api/v1/auth/session", nil)
	session, _ := body["session"].(map[string]any)
	if session["role"] != "user" {
		t.Errorf("role = %v, want unchanged user", session["role"])
	}
}

func TestBindDevice(t *testing.T) {
	c := newTestAPI(t).client()

	status, _ := c.do(http.MethodPost, "/api/v1/auth/device", gin.H{"deviceId": "laptop-7"})
	if status != http.StatusUnauthorized {
		t.Errorf("anonymous bind status = %d, want 401", status)
	}

	c.login("bob@acme.com", "manager123")
	status, body := c.do(http.MethodPost, "/api/v1/auth/device", gin.H{"deviceId": "laptop-7"})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	session, _ := body["session"].(map[string]any)
	if session["deviceId"] != "laptop-7" || session["trackingEnabled"] != true {
		t.Errorf("session = %v", session)
	}
}
