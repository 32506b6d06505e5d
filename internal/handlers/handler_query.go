package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
)

// queryHandler handles HTTP requests for queries and remarks on programs.
type queryHandler struct {
	queryService portssvc.QuerySvcFacade
	actorResolver
}

// registerQueryRoutes registers query and remark routes under /programs
// and the answer route under /queries.
func registerQueryRoutes(rg *gin.RouterGroup, queryService portssvc.QuerySvcFacade, userService portssvc.UserSvcFacade) {
	h := &queryHandler{
		queryService:  queryService,
		actorResolver: actorResolver{userService: userService},
	}

	programs := rg.Group("/programs/:id")
	{
		programs.POST("/queries", h.raiseQuery)
		programs.GET("/queries", h.listQueries)
		programs.POST("/remarks", h.addRemark)
		programs.GET("/remarks", h.listRemarks)
	}

	queries := rg.Group("/queries")
	{
		queries.POST("/:id/answer", h.answerQuery)
	}
}

// raiseQuery godoc
// @Summary Raise a query
// @Description Raises a reviewer query on a program. Only one query may be outstanding at a time; raising from UNDER_REVIEW moves the program into QUERY.
// @Tags queries
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param query body dto.RaiseQueryRequest true "Question"
// @Success 201 {object} dto.Response{data=dto.QueryResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 422 {object} dto.Response "A query is already pending"
// @Security BearerAuth
// @Router /programs/{id}/queries [post]
func (h *queryHandler) raiseQuery(c *gin.Context) {
	var req dto.RaiseQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	query, err := h.queryService.RaiseQuery(c.Request.Context(), c.Param("id"), req.Question, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToQueryResponse(query)))
}

// listQueries godoc
// @Summary List queries
// @Description Returns a program's queries, oldest first.
// @Tags queries
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.Response{data=[]dto.QueryResponse}
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id}/queries [get]
func (h *queryHandler) listQueries(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	queries, err := h.queryService.ListQueries(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToQueryResponses(queries)))
}

// answerQuery godoc
// @Summary Answer a query
// @Description Records the answer on an unanswered query. When no unanswered queries remain the program moves to QUERY_ANSWERED.
// @Tags queries
// @Accept json
// @Produce json
// @Param id path string true "Query ID"
// @Param answer body dto.AnswerQueryRequest true "Answer"
// @Success 200 {object} dto.Response{data=dto.QueryResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 422 {object} dto.Response "Query already answered"
// @Security BearerAuth
// @Router /queries/{id}/answer [post]
func (h *queryHandler) answerQuery(c *gin.Context) {
	var req dto.AnswerQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	query, err := h.queryService.AnswerQuery(c.Request.Context(), c.Param("id"), req.Answer, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToQueryResponse(query)))
}

// addRemark godoc
// @Summary Add a remark
// @Description Appends a free-form remark to a program. Remarks are allowed in every status and are never edited.
// @Tags remarks
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param remark body dto.AddRemarkRequest true "Remark text"
// @Success 201 {object} dto.Response{data=dto.RemarkResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id}/remarks [post]
func (h *queryHandler) addRemark(c *gin.Context) {
	var req dto.AddRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	remark, err := h.queryService.AddRemark(c.Request.Context(), c.Param("id"), req.Text, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToRemarkResponse(remark)))
}

// listRemarks godoc
// @Summary List remarks
// @Description Returns a program's remarks, oldest first.
// @Tags remarks
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.Response{data=[]dto.RemarkResponse}
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id}/remarks [get]
func (h *queryHandler) listRemarks(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	remarks, err := h.queryService.ListRemarks(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToRemarkResponses(remarks)))
}
