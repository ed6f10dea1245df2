package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hestia/internal/chat_service/api"
	"hestia/internal/chat_service/service"
	"hestia/internal/config"
	"hestia/internal/database/milvus"
	"hestia/internal/database/mongo"
	"hestia/internal/database/redis"
	"hestia/internal/embedding"
	"hestia/internal/knowledge"
	"hestia/internal/llm"
	"hestia/internal/oracle"
	"hestia/internal/transcript"
	"hestia/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("ChatService")
	appLogger.Info("Starting chat service...")

	ctx := context.Background()

	// 3. Initialize backing stores
	milvusClient, err := milvus.NewClient(ctx, &cfg.Databases.Milvus)
	if err != nil {
		log.Fatalf("Failed to connect to Milvus: %v", err)
	}
	defer milvusClient.Close()
	if err := milvusClient.EnsureFactCollection(ctx); err != nil {
		log.Fatalf("Failed to prepare fact collection: %v", err)
	}

	transcripts, cleanup, err := newTranscriptStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize transcript store: %v", err)
	}
	defer cleanup()

	// 4. Initialize model clients
	embedder, err := embedding.NewClient(cfg.Embedding)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}
	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	// 5. Wire the knowledge engines
	factOracle := oracle.NewLLMOracle(llmClient, appLogger)
	classifier := knowledge.NewClassifier(factOracle, appLogger)
	index, err := knowledge.NewMilvusIndex(milvusClient, embedder, appLogger)
	if err != nil {
		log.Fatalf("Failed to create vector index: %v", err)
	}
	consolidation := knowledge.NewConsolidationEngine(factOracle, classifier, index, cfg.Knowledge.SearchLimit, appLogger)
	retrieval := knowledge.NewRetrievalRanker(factOracle, classifier, index, cfg.Knowledge.SearchLimit, cfg.Knowledge.ContextSize, appLogger)

	chatService := service.New(transcripts, consolidation, retrieval, cfg.Knowledge.HistoryWindow, appLogger)

	// 6. Start the HTTP server
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.NewHandler(chatService))
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Server shutdown failed: %v", err))
	}
	appLogger.Info("Server stopped")
}

// newTranscriptStore builds the configured transcript backend and returns a
// cleanup function for its connection.
func newTranscriptStore(ctx context.Context, cfg *config.AppConfig) (transcript.Store, func(), error) {
	switch cfg.Transcript.Provider {
	case "redis":
		rdb, err := redis.NewClient(ctx, &cfg.Databases.Redis)
		if err != nil {
			return nil, nil, err
		}
		return transcript.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case "mongo":
		client, err := mongo.NewClient(ctx, &cfg.Databases.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		store := transcript.NewMongoStore(client, cfg.Databases.MongoDB.Database, cfg.Transcript.Collection)
		return store, func() { _ = mongo.Disconnect(client) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported transcript provider: %s", cfg.Transcript.Provider)
	}
}
