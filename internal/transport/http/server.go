package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"docuquery/internal/ai"
	appsvc "docuquery/internal/app"
	"docuquery/internal/bootstrap"
	"docuquery/internal/cache"
	"docuquery/internal/embedding"
	"docuquery/internal/platform/rabbitmq"
	"docuquery/internal/repository"
	"docuquery/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	docRepo := repository.NewDocumentRepository(app.MySQL)
	contentRepo := repository.NewContentRepository(app.MySQL)
	chunkRepo := repository.NewChunkRepository(app.MySQL)
	recordRepo := repository.NewAnswerRecordRepository(app.MySQL)

	llmClient := ai.NewClient(ai.Options{
		BaseURL:         app.Config.LLM.BaseURL,
		APIKey:          app.Config.LLM.APIKey,
		Model:           app.Config.LLM.Model,
		EmbeddingModel:  app.Config.LLM.EmbeddingModel,
		Temperature:     app.Config.LLM.Temperature,
		MaxOutputTokens: app.Config.LLM.MaxOutputTokens,
		Timeout:         time.Duration(app.Config.LLM.TimeoutSeconds) * time.Second,
	})

	var embedder embedding.Embedder
	if app.Config.Embedding.Backend == "remote" {
		embedder = embedding.NewRemoteEmbedder(llmClient, app.Config.Embedding.Dimension)
	} else {
		embedder = embedding.NewCharEmbedder(app.Config.Embedding.Dimension)
	}

	answerCache := cache.NewAnswerCache(
		app.Redis,
		time.Duration(app.Config.Redis.AnswerServeTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.AnswerRetainTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewAnswerPublisher(app.MQConn, app.Config.RabbitMQ.AnswerLogQueue)

	ingestService := appsvc.NewIngestService(
		app.MySQL, docRepo, contentRepo, chunkRepo,
		embedder, answerCache,
		app.Config.Upload.Dir, app.Config.Upload.MaxSizeBytes,
	)
	naiveService := appsvc.NewNaiveAnswerService(docRepo, chunkRepo, embedder)
	answerService := appsvc.NewAnswerService(
		docRepo, contentRepo, chunkRepo,
		llmClient, answerCache, publisher, naiveService,
		time.Duration(app.Config.LLM.TimeoutSeconds)*time.Second,
	)
	searchService := appsvc.NewSearchService(docRepo, chunkRepo, embedder)
	documentService := appsvc.NewDocumentService(
		app.MySQL, docRepo, contentRepo, chunkRepo, recordRepo,
		answerCache, app.Config.Upload.Dir,
	)

	docHandler := handler.NewDocumentHandler(ingestService, documentService, answerService)
	qaHandler := handler.NewQAHandler(answerService, naiveService, searchService)

	v1 := router.Group("/api/v1")
	v1.POST("/documents", docHandler.Upload)
	v1.GET("/documents", docHandler.List)
	v1.GET("/documents/:id", docHandler.Get)
	v1.GET("/documents/:id/content", docHandler.Content)
	v1.DELETE("/documents/:id", docHandler.Delete)
	v1.GET("/documents/:id/summary", docHandler.Summary)
	v1.POST("/documents/:id/summary", docHandler.AISummary)
	v1.POST("/ask", qaHandler.Ask)
	v1.POST("/compare", qaHandler.Compare)
	v1.POST("/search", qaHandler.Search)
	v1.GET("/stats", docHandler.Stats)

	return router
}
