package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"documind-backend/internal/chat"
	"documind-backend/internal/documents"
	"documind-backend/internal/extract"
	"documind-backend/internal/files"
	"documind-backend/internal/llm"
	"documind-backend/internal/llm/gemini"
	"documind-backend/internal/llm/openai"
	"documind-backend/internal/pipeline"
	"documind-backend/internal/platform"
	"documind-backend/internal/services/health"
	"documind-backend/internal/shared/config"
	"documind-backend/internal/shared/server"
	"documind-backend/internal/shared/storage/db"
	"documind-backend/internal/shared/storage/object"
	localstore "documind-backend/internal/shared/storage/object/local"
	s3store "documind-backend/internal/shared/storage/object/s3"
	"documind-backend/internal/uploads"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Redis    *redis.Client
	Store    object.ObjectStore
	Platform *platform.Client

	DocumentsService *documents.Service
	ChatService      *chat.Service
	Pipeline         *pipeline.Pipeline
	Uploads          *uploads.Manager

	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	UploadsHandler   *uploads.Handler
	FilesHandler     *files.Handler
	Health           *health.Service
}

// Options overrides adapters, mainly for tests.
type Options struct {
	LLM   llm.Client
	Store object.ObjectStore
}

// Build connects adapters, wires services and handlers, and builds the router.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	llmClient := opts.LLM
	if llmClient == nil {
		llmClient, err = buildLLM(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	var docRepo documents.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	msgRepo, err := app.buildChatRepo(ctx)
	if err != nil {
		return nil, err
	}

	app.Platform = &platform.Client{
		Store:     store,
		Extractor: extract.New(store),
		LLM:       llmClient,
	}

	app.DocumentsService = &documents.Service{Repo: docRepo}
	app.ChatService = &chat.Service{
		Documents: docRepo,
		Messages:  msgRepo,
		LLM:       app.Platform,
	}
	app.Pipeline = &pipeline.Pipeline{
		Ports:     app.Platform,
		Documents: docRepo,
		MaxBytes:  cfg.UploadMaxBytes,
	}
	app.Uploads = uploads.NewManager(app.Pipeline, cfg.UploadMaxConcurrent, cfg.UploadJobTTL)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.ChatHandler = chat.NewHandler(app.ChatService)
	app.UploadsHandler = uploads.NewHandler(app.Uploads)
	app.FilesHandler = files.NewHandler(store)

	app.Health = health.NewService()
	if sqlDB != nil {
		app.Health.Add("database", sqlDB.PingContext)
	}
	if app.Redis != nil {
		app.Health.Add("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}

	app.Router = server.NewRouter(cfg,
		app.DocumentsHandler,
		app.UploadsHandler,
		app.ChatHandler,
		app.FilesHandler,
		app.Health,
	)
	return app, nil
}

// Close waits for running uploads and releases connections.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.Uploads != nil {
		if err := a.Uploads.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID, cfg.S3URLTTL)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return llm.Instrument("openai", client), nil
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, "")
		if err != nil {
			return nil, err
		}
		return llm.Instrument("gemini", client), nil
	default:
		log.Printf("bootstrap: LLM_PROVIDER=%s; summaries and chat will fail", cfg.LLMProvider)
		return llm.Instrument("none", llm.PlaceholderClient{}), nil
	}
}

func (a *App) buildChatRepo(ctx context.Context) (chat.Repo, error) {
	switch a.Config.ChatStore {
	case "redis":
		client, err := chat.DialRedis(ctx, a.Config.RedisAddr, a.Config.RedisPassword, a.Config.RedisDB)
		if err != nil {
			if config.IsDevLike(a.Config.Env) {
				log.Printf("bootstrap: redis unavailable; using in-memory chat store: %v", err)
				return chat.NewMemoryRepo(), nil
			}
			return nil, err
		}
		a.Redis = client
		return chat.NewRedisRepo(client), nil
	case "memory":
		return chat.NewMemoryRepo(), nil
	default:
		if a.DB != nil {
			return &chat.PGRepo{DB: a.DB}, nil
		}
		return chat.NewMemoryRepo(), nil
	}
}
