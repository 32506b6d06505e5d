package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
	"github.com/thetpaing-dev/grant_portal_app/internal/middleware"
)

// maxUploadBytes caps a single document upload at 25 MiB.
const maxUploadBytes = 25 << 20

// documentHandler handles document uploads, listing and retrieval.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
	fileStore       portsrepo.FileStore
	actorResolver
}

// registerDocumentRoutes registers document routes under /programs and /documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, fileStore portsrepo.FileStore, userService portssvc.UserSvcFacade) {
	h := &documentHandler{
		documentService: documentService,
		fileStore:       fileStore,
		actorResolver:   actorResolver{userService: userService},
	}

	programs := rg.Group("/programs/:id/documents")
	{
		programs.POST("", h.uploadDocument)
		programs.GET("", h.listDocuments)
	}

	documents := rg.Group("/documents")
	{
		documents.GET("/:id/download", h.downloadDocument)
		documents.GET("/:id/view", h.viewDocument)
		documents.DELETE("/:id", h.deleteDocument)
	}
}

// uploadDocument godoc
// @Summary Upload a document
// @Description Attaches a file to a program. Uploading into an occupied predefined slot supersedes the previous file; custom names append.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Program ID"
// @Param slotName formData string true "Predefined slot name or custom display name"
// @Param file formData file true "File contents"
// @Success 201 {object} dto.Response{data=dto.DocumentResponse}
// @Failure 400 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id}/documents [post]
func (h *documentHandler) uploadDocument(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("missing file"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, dto.Fail("file too large"))
		return
	}

	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("unreadable file"))
		return
	}
	defer file.Close()

	// Stored filenames are opaque keys; the original name only survives in
	// its extension so downloads keep a sensible content type.
	storedFilename := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	if err := h.fileStore.Save(ctx, storedFilename, file); err != nil {
		logger.Error("Failed to store uploaded file", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	doc, err := h.documentService.Attach(ctx, c.Param("id"), req.SlotName, storedFilename, actor)
	if err != nil {
		// The reference was never recorded, so drop the orphaned file.
		if rmErr := h.fileStore.Remove(ctx, storedFilename); rmErr != nil {
			logger.Warn("Failed to remove orphaned upload", slog.String("stored_filename", storedFilename), slog.String("error", rmErr.Error()))
		}
		respondError(c, err)
		return
	}

	logger.Info("Document attached",
		slog.String("document_id", doc.DocumentID),
		slog.String("program_id", doc.ProgramID),
		slog.String("slot_name", doc.SlotName))
	c.JSON(http.StatusCreated, dto.OK(dto.ToDocumentResponse(doc)))
}

// listDocuments godoc
// @Summary List documents
// @Description Returns a program's documents, optionally filtered with ?type=ORIGINAL or ?type=CUSTOM.
// @Tags documents
// @Produce json
// @Param id path string true "Program ID"
// @Param type query string false "Document type filter"
// @Success 200 {object} dto.Response{data=[]dto.DocumentResponse}
// @Failure 403 {object} dto.Response
// @Security BearerAuth
// @Router /programs/{id}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	var docType *domain.DocumentType
	if t := c.Query("type"); t != "" {
		dt := domain.DocumentType(t)
		if dt != domain.DocumentOriginal && dt != domain.DocumentCustom {
			c.JSON(http.StatusBadRequest, dto.Fail("unknown document type"))
			return
		}
		docType = &dt
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), c.Param("id"), docType, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDocumentResponses(docs)))
}

// downloadDocument godoc
// @Summary Download a document
// @Description Streams a document's bytes as an attachment.
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *documentHandler) downloadDocument(c *gin.Context) {
	h.streamDocument(c, "attachment")
}

// viewDocument godoc
// @Summary View a document
// @Description Streams a document's bytes inline for in-browser viewing.
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /documents/{id}/view [get]
func (h *documentHandler) viewDocument(c *gin.Context) {
	h.streamDocument(c, "inline")
}

func (h *documentHandler) streamDocument(c *gin.Context, disposition string) {
	ctx := c.Request.Context()
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(ctx, c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	reader, err := h.fileStore.Open(ctx, doc.StoredFilename)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(doc.StoredFilename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": doc.SlotName + filepath.Ext(doc.StoredFilename),
	}))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Warn("Failed streaming document", slog.String("document_id", doc.DocumentID), slog.String("error", err.Error()))
	}
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Removes a document reference and its stored file.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	actor, ok := h.resolve(c)
	if !ok {
		return
	}

	if err := h.documentService.Detach(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("document deleted"))
}
