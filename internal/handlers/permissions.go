package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workpulse/internal/access"
	"workpulse/internal/middleware"
	"workpulse/internal/models"
)

func (h HandlerSet) Permissions(c *gin.Context) {
	session := middleware.StoreFrom(c).Session()

	resp := gin.H{"permissions": granted(session)}
	if session != nil {
		resp["role"] = session.Role
	}
	c.JSON(http.StatusOK, resp)
}

// CheckPermissions answers ?perm=a,b&mode=all|any for the current session.
// mode defaults to all.
func (h HandlerSet) CheckPermissions(c *gin.Context) {
	perms, ok := parsePermissions(c.Query("perm"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_permission"})
		return
	}

	session := middleware.StoreFrom(c).Session()

	var allowed bool
	switch mode := c.DefaultQuery("mode", "all"); mode {
	case "all":
		allowed = access.CanAll(session, perms...)
	case "any":
		allowed = access.CanAny(session, perms...)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_mode"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allowed":     allowed,
		"permissions": perms,
	})
}

// granted never returns nil so the JSON body carries [] rather than null.
func granted(session *models.Session) []models.Permission {
	perms := access.Granted(session)
	if perms == nil {
		return []models.Permission{}
	}
	return perms
}

func parsePermissions(raw string) ([]models.Permission, bool) {
	var perms []models.Permission
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p := models.Permission(part)
		if !models.IsValidPermission(p) {
			return nil, false
		}
		perms = append(perms, p)
	}
	return perms, len(perms) > 0
}
