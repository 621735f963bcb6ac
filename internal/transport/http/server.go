package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"ragapi/internal/ai"
	appsvc "ragapi/internal/app"
	"ragapi/internal/bootstrap"
	"ragapi/internal/cache"
	"ragapi/internal/platform/rabbitmq"
	"ragapi/internal/repository"
	"ragapi/internal/transport/http/handler"
	"ragapi/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	docRepo := repository.NewDocumentRepository(app.MySQL)
	turnRepo := repository.NewChatTurnRepository(app.MySQL)

	embeddingClient := ai.NewEmbeddingClient(ai.EmbeddingConfig{
		BaseURL: cfg.Embedding.BaseURL,
		APIKey:  cfg.Embedding.APIKey,
		Model:   cfg.Embedding.Model,
	})
	generationClient := ai.NewGenerationClient(ai.GenerationConfig{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	var reranker appsvc.Reranker
	if cfg.Retrieval.RerankEnabled {
		reranker = ai.NewRerankerClient(ai.RerankerConfig{
			BaseURL: cfg.Reranker.BaseURL,
			APIKey:  cfg.Reranker.APIKey,
			Model:   cfg.Reranker.Model,
		})
	}

	historyCache := cache.NewHistoryCache(app.Redis, time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second)
	ingestPublisher := rabbitmq.NewIngestPublisher(app.MQConn, cfg.RabbitMQ.IngestAuditQueue)

	retrievalService := appsvc.NewRetrievalService(embeddingClient, app.Qdrant, reranker)
	ingestService := appsvc.NewIngestService(docRepo, retrievalService, ingestPublisher)
	queryService := appsvc.NewQueryService(retrievalService, turnRepo, historyCache, generationClient, cfg.Retrieval.TopK)
	sessionService := appsvc.NewSessionService()

	trainHandler := handler.NewTrainHandler(ingestService)
	predictHandler := handler.NewPredictHandler(queryService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	protected := router.Group("/")
	protected.Use(middleware.ClientSecret(cfg.Auth.ClientSecret))
	protected.POST("/train", trainHandler.Train)
	protected.POST("/predict", predictHandler.Predict)
	protected.POST("/create-session", sessionHandler.Create)

	return router
}
