package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
	"github.com/thetpaing-dev/grant_portal_app/internal/middleware"
)

// budgetHandler handles budget allocation reads and writes.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
	actorResolver
}

// registerBudgetRoutes registers budget routes under /users.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade, userService portssvc.UserSvcFacade) {
	h := &budgetHandler{
		budgetService: budgetService,
		actorResolver: actorResolver{userService: userService},
	}

	users := rg.Group("/users/:id/budget")
	{
		users.PUT("", h.setBudget)
		users.GET("", h.getBudget)
	}
}

// setBudget godoc
// @Summary Set a user's total budget
// @Description Overwrites a user's total allocation. Staff only; the amount must be zero or positive.
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param budget body dto.SetBudgetRequest true "New total allocation"
// @Success 200 {object} dto.Response{data=dto.UserBudgetResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /users/{id}/budget [put]
func (h *budgetHandler) setBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	userID := c.Param("id")
	budget, err := h.budgetService.SetTotalBudget(c.Request.Context(), userID, req.Total, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Budget allocation set",
		slog.String("target_user_id", userID),
		slog.String("total", budget.Total.String()),
		slog.String("set_by", actor.UserID))
	c.JSON(http.StatusOK, dto.OK(dto.ToUserBudgetResponse(budget)))
}

// getBudget godoc
// @Summary Get a user's budget
// @Description Returns the stored total and freshly derived remaining budget. Applicants may only read their own.
// @Tags budgets
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Response{data=dto.UserBudgetResponse}
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /users/{id}/budget [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetUserBudget(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToUserBudgetResponse(budget)))
}
