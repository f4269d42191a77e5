package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workpulse/internal/access"
	"workpulse/internal/middleware"
	"workpulse/internal/models"
)

type createInviteRequest struct {
	Email string      `json:"email" binding:"required"`
	Role  models.Role `json:"role" binding:"required"`
	// Company fields are honoured only for the platform owner. Tenant
	// admins always invite into their own company.
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
}

func (h HandlerSet) CreateInvite(c *gin.Context) {
	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, ok := currentSession(c)
	if !ok {
		return
	}
	company := session.Company
	if session.Role == access.PlatformOwnerRole {
		company = models.Company{ID: req.CompanyID, Name: req.CompanyName}
		if company.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_invite", "detail": "companyId is required"})
			return
		}
	} else {
		if req.Role == access.PlatformOwnerRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden_role"})
			return
		}
		// Accepting overwrites the credential, so a tenant may not invite
		// an account that lives outside its company.
		if h.belongsElsewhere(c, req.Email, company.ID) {
			c.JSON(http.StatusConflict, gin.H{"error": "email_in_use"})
			return
		}
	}

	invite, err := h.invites.Create(c.Request.Context(), req.Email, req.Role, company.ID, company.Name)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invite": invite})
}

func (h HandlerSet) ListInvites(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var invites []models.Invite
	if session.Role == access.PlatformOwnerRole {
		invites = h.invites.List(c.Request.Context())
	} else {
		invites = h.invites.ListForCompany(c.Request.Context(), session.Company.ID)
	}
	c.JSON(http.StatusOK, gin.H{"items": invites})
}

type acceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AcceptInvite redeems a token and logs the new account in on the calling
// client.
func (h HandlerSet) AcceptInvite(c *gin.Context) {
	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.invites.Accept(c.Request.Context(), req.Token, req.Name, req.Password, middleware.StoreFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.sendLoginResult(c, result)
}

func (h HandlerSet) belongsElsewhere(c *gin.Context, email string, companyID string) bool {
	if h.credentials == nil {
		return false
	}
	cred, err := h.credentials.FindByEmail(c.Request.Context(), email)
	if err != nil {
		return false
	}
	return cred.Template.Company.ID != companyID
}
