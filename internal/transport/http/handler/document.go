package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docuquery/internal/app"
	"docuquery/internal/transport/http/response"
)

type DocumentHandler struct {
	ingestService   *app.IngestService
	documentService *app.DocumentService
	answerService   *app.AnswerService
}

func NewDocumentHandler(ingestService *app.IngestService, documentService *app.DocumentService, answerService *app.AnswerService) *DocumentHandler {
	return &DocumentHandler{
		ingestService:   ingestService,
		documentService: documentService,
		answerService:   answerService,
	}
}

// Upload ingests a multipart PDF under the "file" field.
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "open uploaded file failed")
		return
	}
	defer file.Close()

	doc, stats, err := h.ingestService.Ingest(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		writeServiceError(c, err, "ingest document failed")
		return
	}
	response.OK(c, gin.H{
		"document": doc,
		"stats":    stats,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.List()
	if err != nil {
		writeServiceError(c, err, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	doc, err := h.documentService.Get(id)
	if err != nil {
		writeServiceError(c, err, "get document failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Content(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	text, err := h.documentService.Content(id)
	if err != nil {
		writeServiceError(c, err, "get document content failed")
		return
	}
	response.OK(c, gin.H{
		"document_id": id,
		"content":     text,
	})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "delete document failed")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": id})
}

// Summary returns the lexical summary built from stored chunks.
func (h *DocumentHandler) Summary(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	summary, err := h.documentService.Summary(id)
	if err != nil {
		writeServiceError(c, err, "summarize document failed")
		return
	}
	response.OK(c, summary)
}

// AISummary asks the model for a structured summary of the document.
func (h *DocumentHandler) AISummary(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	summary, err := h.answerService.Summarize(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "generate summary failed")
		return
	}
	response.OK(c, gin.H{
		"document_id": id,
		"summary":     summary,
	})
}

func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.documentService.Stats()
	if err != nil {
		writeServiceError(c, err, "load stats failed")
		return
	}
	response.OK(c, stats)
}
