package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docuquery/internal/app"
	"docuquery/internal/transport/http/response"
)

type QAHandler struct {
	answerService *app.AnswerService
	naiveService  *app.NaiveAnswerService
	searchService *app.SearchService
}

type AskRequest struct {
	Question   string `json:"question" binding:"required"`
	DocumentID uint   `json:"document_id"`
}

type SearchRequest struct {
	Query      string `json:"query" binding:"required"`
	DocumentID uint   `json:"document_id"`
	Limit      int    `json:"limit"`
}

func NewQAHandler(answerService *app.AnswerService, naiveService *app.NaiveAnswerService, searchService *app.SearchService) *QAHandler {
	return &QAHandler{
		answerService: answerService,
		naiveService:  naiveService,
		searchService: searchService,
	}
}

// Ask answers a question over one document, or all documents when
// document_id is omitted.
func (h *QAHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	result, err := h.answerService.Ask(c.Request.Context(), req.Question, req.DocumentID)
	if err != nil {
		writeServiceError(c, err, "answer question failed")
		return
	}
	response.OK(c, result)
}

// Compare answers the same question twice, with the model-backed path and
// the embedding-ranked path, so their outputs can be inspected side by side.
func (h *QAHandler) Compare(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	naiveResult, err := h.naiveService.Answer(c.Request.Context(), req.Question, req.DocumentID)
	if err != nil {
		writeServiceError(c, err, "compare answers failed")
		return
	}

	// Ask falls back to the naive path on model failures; a naive-stage
	// result here means the model side produced nothing of its own.
	aiAnswer := "model answer not available"
	var aiSources []string
	aiResult, aiErr := h.answerService.Ask(c.Request.Context(), req.Question, req.DocumentID)
	aiOK := aiErr == nil && aiResult.Stage != app.StageNaive
	if aiOK {
		aiAnswer = aiResult.Answer
		aiSources = aiResult.Sources
	}

	response.OK(c, gin.H{
		"question":       req.Question,
		"regular_answer": naiveResult.Answer,
		"ai_answer":      aiAnswer,
		"ai_success":     aiOK,
		"sources":        aiSources,
	})
}

func (h *QAHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	hits, err := h.searchService.Search(c.Request.Context(), req.Query, req.DocumentID, req.Limit)
	if err != nil {
		writeServiceError(c, err, "search failed")
		return
	}
	response.OK(c, gin.H{
		"query": req.Query,
		"hits":  hits,
	})
}
