package handlers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestInviteLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.client()
	admin.login("alice@acme.com", "admin123")

	status, body := admin.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "New.Hire@acme.com", "role": "sub_admin"})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d body %v", status, body)
	}
	invite, _ := body["invite"].(map[string]any)
	token, _ := invite["token"].(string)
	if invite["status"] != "pending" || invite["companyId"] != "cmp_acme" || token == "" {
		t.Fatalf("invite = %v", invite)
	}

	invitee := api.client()
	status, body = invitee.do(http.MethodPost, "/api/v1/invites/accept", gin.H{"token": token, "name": "New Hire", "password": "s3cret"})
	if status != http.StatusOK {
		t.Fatalf("accept status = %d body %v", status, body)
	}
	if body["redirect"] != "/dashboard" {
		t.Errorf("redirect = %v", body["redirect"])
	}
	session, _ := body["session"].(map[string]any)
	if session["role"] != "sub_admin" || session["email"] != "new.hire@acme.com" {
		t.Errorf("session = %v", session)
	}

	status, body = api.client().do(http.MethodPost, "/api/v1/invites/accept", gin.H{"token": token, "password": "other"})
	if status != http.StatusConflict || errorOf(body) != "already_accepted" {
		t.Errorf("second accept: got %d %v", status, body)
	}

	// the first password still works, the second accept changed nothing
	api.client().login("new.hire@acme.com", "s3cret")
}

func TestInviteAccept_Failures(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		token  string
		status int
		code   string
	}{
		{"inv_missing", http.StatusNotFound, "invalid_token"},
		{"inv_demo_expired", http.StatusGone, "invite_expired"},
		{"inv_demo_accepted", http.StatusConflict, "already_accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			status, body := api.client().do(http.MethodPost, "/api/v1/invites/accept", gin.H{"token": tt.token, "password": "pw"})
			if status != tt.status || errorOf(body) != tt.code {
				t.Errorf("got %d %v, want %d %s", status, body, tt.status, tt.code)
			}
		})
	}
}

func TestInviteAccept_Concurrent(t *testing.T) {
	api := newTestAPI(t)

	const n = 8
	clients := make([]*client, n)
	for i := range clients {
		clients[i] = api.client()
		clients[i].do(http.MethodGet, "/api/v1/auth/session", nil)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, c := range clients {
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			status, _ := c.do(http.MethodPost, "/api/v1/invites/accept", gin.H{"token": "inv_demo_pending", "password": "pw"})
			if status == http.StatusOK {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()

	if ok != 1 {
		t.Errorf("successful accepts = %d, want exactly 1", ok)
	}
}

func TestInviteCreate_Authorization(t *testing.T) {
	api := newTestAPI(t)

	anon := api.client()
	if status, _ := anon.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "x@acme.com", "role": "user"}); status != http.StatusUnauthorized {
		t.Errorf("anonymous create status = %d, want 401", status)
	}

	user := api.client()
	user.login("carol@acme.com", "user123")
	status, body := user.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "x@acme.com", "role": "user"})
	if status != http.StatusForbidden {
		t.Fatalf("user create status = %d, want 403", status)
	}
	verdict, _ := body["verdict"].(map[string]any)
	if verdict["outcome"] != "denied" {
		t.Errorf("verdict = %v, want denied render", verdict)
	}

	admin := api.client()
	admin.login("alice@acme.com", "admin123")
	status, body = admin.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "x@acme.com", "role": "super_admin"})
	if status != http.StatusForbidden || errorOf(body) != "forbidden_role" {
		t.Errorf("tenant super_admin invite: got %d %v", status, body)
	}

	status, body = admin.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "not-an-email", "role": "user"})
	if status != http.StatusBadRequest || errorOf(body) != "invalid_invite" {
		t.Errorf("bad email: got %d %v", status, body)
	}
}

func TestInviteList_ScopedToCompany(t *testing.T) {
	api := newTestAPI(t)

	globex := api.client()
	globex.login("dave@globex.com", "admin123")
	globex.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "g@globex.com", "role": "user"})

	_, body := globex.do(http.MethodGet, "/api/v1/invites", nil)
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Errorf("globex invites = %d, want 1", len(items))
	}

	owner := api.client()
	owner.login("owner@workpulse.io", "owner123")
	_, body = owner.do(http.MethodGet, "/api/v1/invites", nil)
	items, _ = body["items"].([]any)
	if len(items) != 4 {
		t.Errorf("owner invites = %d, want all 4", len(items))
	}

	status, body := owner.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "ceo@initech.com", "role": "company_admin"})
	if status != http.StatusBadRequest {
		t.Errorf("owner create without company: got %d %v", status, body)
	}
	status, _ = owner.do(http.MethodPost, "/api/v1/invites", gin.H{
		"email": "ceo@initech.com", "role": "company_admin",
		"companyId": "cmp_initech", "companyName": "Initech",
	})
	if status != http.StatusCreated {
		t.Errorf("owner create status = %d", status)
	}
}

func TestInviteCreate_RefusesAccountFromOtherCompany(t *testing.T) {
	api := newTestAPI(t)

	dave := api.client()
	dave.login("dave@globex.com", "admin123")

	for _, email := range []string{"alice@acme.com", " ALICE@acme.com", "owner@workpulse.io"} {
		status, body := dave.do(http.MethodPost, "/api/v1/invites", gin.H{"email": email, "role": "user"})
		if status != http.StatusConflict || errorOf(body) != "email_in_use" {
			t.Errorf("invite %q: got %d %v, want 409 email_in_use", email, status, body)
		}
	}

	// alice keeps her credential
	api.client().login("alice@acme.com", "admin123")

	alice := api.client()
	alice.login("alice@acme.com", "admin123")
	status, body := alice.do(http.MethodPost, "/api/v1/invites", gin.H{"email": "carol@acme.com", "role": "sub_admin"})
	if status != http.StatusCreated {
		t.Errorf("same-company reinvite: got %d %v, want 201", status, body)
	}
}
