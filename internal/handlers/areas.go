package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"workpulse/internal/access"
	"workpulse/internal/middleware"
	"workpulse/internal/models"
)

// Evaluate returns the verdict for ?area=owner|tenant, optionally narrowed by
// &perm=. The verdict itself is the payload, so denials answer 200.
func (h HandlerSet) Evaluate(c *gin.Context) {
	var guards []access.Guard
	switch c.Query("area") {
	case "owner":
		guards = append(guards, access.OwnerArea)
	case "tenant":
		guards = append(guards, access.TenantArea)
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_area"})
		return
	}

	if raw := c.Query("perm"); raw != "" {
		perm := models.Permission(raw)
		if !models.IsValidPermission(perm) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_permission"})
			return
		}
		guards = append(guards, access.PermissionGate(perm))
	}
	if len(guards) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_area"})
		return
	}

	verdict := access.Chain(guards...)(middleware.StoreFrom(c).Session())
	c.JSON(http.StatusOK, verdict)
}

type companySummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PendingInvites int    `json:"pendingInvites"`
	Accepted       int    `json:"acceptedInvites"`
}

// OwnerOverview is the platform owner's landing data.
func (h HandlerSet) OwnerOverview(c *gin.Context) {
	invites := h.invites.List(c.Request.Context())

	byStatus := map[models.InviteStatus]int{
		models.InviteStatusPending:  0,
		models.InviteStatusAccepted: 0,
		models.InviteStatusExpired:  0,
	}
	companies := make(map[string]*companySummary)
	for _, inv := range invites {
		byStatus[inv.Status]++
		cs, ok := companies[inv.CompanyID]
		if !ok {
			cs = &companySummary{ID: inv.CompanyID, Name: inv.CompanyName}
			companies[inv.CompanyID] = cs
		}
		switch inv.Status {
		case models.InviteStatusPending:
			cs.PendingInvites++
		case models.InviteStatusAccepted:
			cs.Accepted++
		}
	}

	items := make([]companySummary, 0, len(companies))
	for _, cs := range companies {
		items = append(items, *cs)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	c.JSON(http.StatusOK, gin.H{
		"activeClients": h.clients.Len(),
		"invites":       byStatus,
		"companies":     items,
	})
}

// DashboardOverview is the tenant landing data: the caller's company and
// what the caller's role may do there.
func (h HandlerSet) DashboardOverview(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	pending := 0
	if access.Can(session, models.PermManageInvites) {
		for _, inv := range h.invites.ListForCompany(c.Request.Context(), session.Company.ID) {
			if inv.IsPending() {
				pending++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"company":        session.Company,
		"role":           session.Role,
		"permissions":    granted(session),
		"trackingActive": session.TrackingEnabled,
		"pendingInvites": pending,
	})
}
