package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"word-aligner/internal/align"
	"word-aligner/internal/cache"
	"word-aligner/internal/config"
	"word-aligner/internal/embeddings"
	"word-aligner/internal/logger"
	"word-aligner/internal/queue"
	"word-aligner/internal/store"
	"word-aligner/internal/tokenizer"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Tokenizer tokenizer.Tokenizer
	Embedder  embeddings.Embedder
	Aligner   *align.Aligner
	Cache     cache.Cache
	Store     store.Store
	Queue     queue.Queue
}

// Build loads env, config, and every component the API service needs.
func Build() (Deps, error) {
	deps, err := buildCore()
	if err != nil {
		return Deps{}, err
	}
	deps.Cache = buildCache(deps.Config, deps.Log)
	if deps.Store, err = buildStore(deps.Config, deps.Log); err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	if deps.Queue, err = buildQueue(deps.Config, deps.Log); err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	return deps, nil
}

// BuildWorker loads the components the batch worker needs. Workers skip
// the result cache: they write to the store, not the read path.
func BuildWorker() (Deps, error) {
	deps, err := buildCore()
	if err != nil {
		return Deps{}, err
	}
	deps.Cache = cache.NewNoOpCache()
	if deps.Store, err = buildStore(deps.Config, deps.Log); err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	if deps.Queue, err = buildQueue(deps.Config, deps.Log); err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	return deps, nil
}

func buildCore() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	strategy, err := align.ParseStrategy(cfg.Strategy)
	if err != nil {
		return Deps{}, fmt.Errorf("invalid STRATEGY: %w", err)
	}

	tok := tokenizer.NewWhitespace()
	embedder, err := buildEmbedder(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	aligner, err := align.New(tok, embedder, align.Options{
		Strategy:      strategy,
		MaxIterations: cfg.ItermaxIterations,
	}, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize aligner: %w", err)
	}
	log.Info("aligner configured", "strategy", cfg.Strategy, "itermax_iterations", cfg.ItermaxIterations)

	return Deps{
		Config:    cfg,
		Log:       log,
		Tokenizer: tok,
		Embedder:  embedder,
		Aligner:   aligner,
	}, nil
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.EmbedderProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when EMBEDDER_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.EmbeddingModel)
		return embedder, nil
	default:
		return nil, fmt.Errorf("invalid EMBEDDER_PROVIDER: %s (valid option: openai)", cfg.EmbedderProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			log.Warn("REDIS_ADDR not set; falling back to no-op cache")
			return cache.NewNoOpCache()
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// Caching is an optimization; a dead Redis must not keep the
			// service from starting.
			log.Warn("redis unavailable; falling back to no-op cache", "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c
	default:
		log.Info("using no-op cache")
		return cache.NewNoOpCache()
	}
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid option: postgres)", cfg.StoreProvider)
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid option: nats)", cfg.QueueProvider)
	}
}
