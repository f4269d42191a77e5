package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workpulse/internal/middleware"
	"workpulse/internal/models"
	"workpulse/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	Session       *models.Session     `json:"session"`
	Permissions   []models.Permission `json:"permissions"`
	Redirect      string              `json:"redirect,omitempty"`
}

func newSessionResponse(session *models.Session, redirect string) sessionResponse {
	return sessionResponse{
		Authenticated: session != nil,
		Session:       session,
		Permissions:   granted(session),
		Redirect:      redirect,
	}
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := middleware.StoreFrom(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.sendLoginResult(c, result)
}

// sendLoginResult keeps the now authenticated store as a client before
// answering, so the response carries its token.
func (h HandlerSet) sendLoginResult(c *gin.Context, result service.LoginResult) {
	if err := middleware.Persist(c); err != nil {
		h.log.Error().Err(err).Msg("persist client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	session := result.Session
	c.JSON(http.StatusOK, newSessionResponse(&session, result.RedirectTarget))
}

func (h HandlerSet) Logout(c *gin.Context) {
	middleware.StoreFrom(c).Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) CurrentSession(c *gin.Context) {
	c.JSON(http.StatusOK, newSessionResponse(middleware.StoreFrom(c).Session(), ""))
}

type roleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// SwitchRole is the demo role preview. It is refused unless enabled in
// configuration, and production configuration always disables it.
func (h HandlerSet) SwitchRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store := middleware.StoreFrom(c)
	if err := store.SetRole(req.Role); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(store.Session(), ""))
}

// currentSession returns the caller's session, answering 401 when there is
// none. Guarded routes still check: a concurrent logout can land in between.
func currentSession(c *gin.Context) (*models.Session, bool) {
	session := middleware.StoreFrom(c).Session()
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return session, true
}

type deviceRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

func (h HandlerSet) BindDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store := middleware.StoreFrom(c)
	if !store.IsAuthenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	store.BindDevice(req.DeviceID)
	c.JSON(http.StatusOK, newSessionResponse(store.Session(), ""))
}
