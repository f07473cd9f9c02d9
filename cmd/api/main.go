package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"tenantrag/internal/cache"
	"tenantrag/internal/config"
	"tenantrag/internal/handlers"
	"tenantrag/internal/http"
	"tenantrag/internal/llm"
	"tenantrag/internal/rag"
	"tenantrag/internal/storage"
	"tenantrag/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx := context.Background()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	tenantRepo := storage.NewTenantRepo(db)
	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	if _, _, err := embedder.Embed(ctx, "test"); err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Connect the answer cache
	answerCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		_ = answerCache.Close()
	}()
	slog.Info("Answer cache connected", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)

	// Assemble the corpus view and the query engine
	corpus := storage.NewCorpus(chunkRepo, documentRepo, vectorStore, cfg.QdrantCollection)
	engine := rag.NewEngine(embedder, llmClient, corpus, answerCache, tenantRepo, rag.Config{
		Retriever: rag.RetrieverConfig{
			RRFK:           cfg.RRFK,
			CandidatePool:  cfg.CandidatePool,
			MaxPerDocument: cfg.MaxChunksPerDoc,
		},
		SummaryWorkers: cfg.SummaryWorkers,
		CacheTTL:       cfg.CacheTTL,
	})
	slog.Info("Query engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		Engine:  engine,
		Tenants: tenantRepo,
		Health: map[string]handlers.Pinger{
			"database": handlers.PingerFunc(db.PingContext),
			"cache":    handlers.PingerFunc(answerCache.Ping),
			"vector_store": handlers.PingerFunc(func(ctx context.Context) error {
				_, err := vectorStore.CollectionExists(ctx, cfg.QdrantCollection)
				return err
			}),
		},
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
