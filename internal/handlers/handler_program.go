package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
	"github.com/thetpaing-dev/grant_portal_app/internal/middleware"
)

// programHandler handles HTTP requests related to programs and their workflow.
type programHandler struct {
	programService  portssvc.ProgramSvcFacade
	workflowService portssvc.WorkflowSvcFacade
	actorResolver
}

// registerProgramRoutes registers program CRUD and workflow routes.
func registerProgramRoutes(rg *gin.RouterGroup, programService portssvc.ProgramSvcFacade, workflowService portssvc.WorkflowSvcFacade, userService portssvc.UserSvcFacade) {
	h := &programHandler{
		programService:  programService,
		workflowService: workflowService,
		actorResolver:   actorResolver{userService: userService},
	}

	programs := rg.Group("/programs")
	{
		programs.POST("", h.createProgram)
		programs.GET("", h.listPrograms)
		programs.GET("/:id", h.getProgram)
		programs.PATCH("/:id", h.updateProgram)
		programs.DELETE("/:id", h.deleteProgram)
		programs.POST("/:id/status", h.changeStatus)
		programs.GET("/:id/history", h.getStatusHistory)
	}
}

// createProgram godoc
// @Summary Create a program
// @Description Creates a new draft program, reserving its budget against the owner's remaining allocation.
// @Tags programs
// @Accept json
// @Produce json
// @Param program body dto.CreateProgramRequest true "Program details"
// @Success 201 {object} dto.Response{data=dto.ProgramResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response "Insufficient remaining budget"
// @Security BearerAuth
// @Router /programs [post]
func (h *programHandler) createProgram(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Program created", slog.String("program_id", program.ProgramID), slog.String("owner_user_id", program.OwnerUserID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToProgramResponse(program)))
}

// listPrograms godoc
// @Summary List programs
// @Description Lists programs. Applicants see their own; staff see all, or one user's with ?userID=.
// @Tags programs
// @Produce json
// @Param userID query string false "Filter by owner user ID (staff only)"
// @Success 200 {object} dto.Response{data=[]dto.ProgramResponse}
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /programs [get]
func (h *programHandler) listPrograms(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	var programs []dto.ProgramResponse
	if ownerID := c.Query("userID"); ownerID != "" {
		list, err := h.programService.ListProgramsByUser(c.Request.Context(), ownerID, actor)
		if err != nil {
			respondError(c, err)
			return
		}
		programs = dto.ToProgramResponses(list)
	} else if actor.Role.IsStaff() {
		list, err := h.programService.ListAllPrograms(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		programs = dto.ToProgramResponses(list)
	} else {
		list, err := h.programService.ListProgramsByUser(c.Request.Context(), actor.UserID, actor)
		if err != nil {
			respondError(c, err)
			return
		}
		programs = dto.ToProgramResponses(list)
	}

	c.JSON(http.StatusOK, dto.OK(programs))
}

// getProgram godoc
// @Summary Get a program
// @Description Retrieves a program by ID. Applicants may only read their own.
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.Response{data=dto.ProgramResponse}
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id} [get]
func (h *programHandler) getProgram(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	program, err := h.programService.GetProgramByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToProgramResponse(program)))
}

// updateProgram godoc
// @Summary Update a program
// @Description Updates the editable fields of a program. Applicants may only edit their own drafts.
// @Tags programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param program body dto.UpdateProgramRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=dto.ProgramResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id} [patch]
func (h *programHandler) updateProgram(c *gin.Context) {
	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	program, err := h.programService.UpdateProgramFields(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToProgramResponse(program)))
}

// deleteProgram godoc
// @Summary Delete a program
// @Description Deletes a program together with its documents, queries, remarks and history.
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id} [delete]
func (h *programHandler) deleteProgram(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	programID := c.Param("id")
	if err := h.programService.DeleteProgram(c.Request.Context(), programID, actor); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Program deleted", slog.String("program_id", programID), slog.String("deleted_by", actor.UserID))
	c.JSON(http.StatusOK, dto.OKMessage("program deleted"))
}

// changeStatus godoc
// @Summary Change program status
// @Description Moves a program one step along the approval workflow. Payment fields are required for PAYMENT_COMPLETED.
// @Tags programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param transition body dto.ChangeStatusRequest true "Target status and optional payment details"
// @Success 200 {object} dto.Response{data=dto.ProgramResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 409 {object} dto.Response "Concurrent transition detected"
// @Failure 422 {object} dto.Response "Transition not allowed from the current status"
// @Security BearerAuth
// @Router /programs/{id}/status [post]
func (h *programHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	program, err := h.workflowService.ChangeStatus(c.Request.Context(), c.Param("id"), req.Target, actor, req.PaymentDetailsFromRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Program status changed",
		slog.String("program_id", program.ProgramID),
		slog.String("status", string(program.Status)),
		slog.String("changed_by", actor.UserID))
	c.JSON(http.StatusOK, dto.OK(dto.ToProgramResponse(program)))
}

// getStatusHistory godoc
// @Summary Get status history
// @Description Returns a program's append-only status history, oldest first.
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.Response{data=[]dto.StatusChangeResponse}
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id}/history [get]
func (h *programHandler) getStatusHistory(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	history, err := h.workflowService.GetStatusHistory(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToStatusChangeResponses(history)))
}
