package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
)

// dashboardHandler serves the summary endpoints.
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
	actorResolver
}

// registerDashboardRoutes registers the dashboard routes.
func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade, userService portssvc.UserSvcFacade) {
	h := &dashboardHandler{
		dashboardService: dashboardService,
		actorResolver:    actorResolver{userService: userService},
	}

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", h.getDashboard)
		dashboard.GET("/admin", h.getAdminDashboard)
	}
}

// getDashboard godoc
// @Summary Personal dashboard
// @Description Aggregates the caller's programs into counts and a recent list, plus their budget view.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.Response{data=dto.DashboardResponse}
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	summary, err := h.dashboardService.SummaryForUser(c.Request.Context(), actor.UserID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDashboardResponse(summary)))
}

// getAdminDashboard godoc
// @Summary System-wide dashboard
// @Description Aggregates every program in the system. Staff only.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.Response{data=dto.DashboardResponse}
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /dashboard/admin [get]
func (h *dashboardHandler) getAdminDashboard(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	summary, err := h.dashboardService.SummaryAll(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDashboardResponse(summary)))
}
