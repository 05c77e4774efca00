package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/docyard-ai/docyard/internal/api/handlers"
	"github.com/docyard-ai/docyard/internal/config"
	"github.com/docyard-ai/docyard/internal/domain"
	"github.com/docyard-ai/docyard/internal/extract"
	"github.com/docyard-ai/docyard/internal/openai"
	"github.com/docyard-ai/docyard/internal/repository"
	"github.com/docyard-ai/docyard/internal/server"
	"github.com/docyard-ai/docyard/internal/service"
	"github.com/docyard-ai/docyard/internal/storage"
	"github.com/docyard-ai/docyard/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the docyard API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	applyPortFlag(cfg, cmd)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	docRepo := repository.NewDocumentRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)

	var archiver service.UploadArchiver
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		archiver = s3Client
	}

	var uploadHandler *handlers.UploadHandler
	var askHandler *handlers.AskHandler
	if cfg.HasOpenAI() {
		aiClient := openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			EmbeddingModel:      goopenai.EmbeddingModel(cfg.EmbeddingModel),
			EmbeddingDimensions: cfg.EmbeddingDimensions,
			ChatModel:           cfg.ChatModel,
		})

		ingestSvc := service.NewIngestServiceWithConfig(
			extract.New(),
			aiClient,
			docRepo,
			archiver,
			service.IngestConfig{
				EmbeddingDimensions: cfg.EmbeddingDimensions,
				EmbedTimeout:        cfg.EmbedTimeout,
			},
		)
		querySvc := service.NewQueryServiceWithConfig(
			aiClient,
			docRepo,
			aiClient,
			conversationRepo,
			service.QueryConfig{
				RetrievalK:   cfg.RetrievalK,
				EmbedTimeout: cfg.EmbedTimeout,
				GenTimeout:   cfg.GenTimeout,
			},
		)

		uploadHandler = handlers.NewUploadHandler(ingestSvc)
		askHandler = handlers.NewAskHandler(querySvc)
	} else {
		log.Println("OPENAI_API_KEY not set: upload and ask endpoints degraded to unavailable")
		uploadHandler = handlers.NewUploadHandler(&NoOpIngestService{})
		askHandler = handlers.NewAskHandler(&NoOpQueryService{})
	}

	documentsHandler := handlers.NewDocumentsHandler(docRepo, conversationRepo)

	router := server.NewRouter(server.RouterConfig{
		APIToken:         cfg.APIToken,
		MaxBodyBytes:     cfg.MaxUploadBytes,
		UploadHandler:    uploadHandler,
		AskHandler:       askHandler,
		DocumentsHandler: documentsHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// applyPortFlag overrides the configured port only when --port was set
// explicitly, so an env-configured port survives a bare invocation and
// an explicit flag always wins, even at the default value.
func applyPortFlag(cfg *config.Config, cmd *cobra.Command) {
	if !cmd.Flags().Changed("port") {
		return
	}
	if port, err := cmd.Flags().GetString("port"); err == nil && port != "" {
		cfg.Port = port
	}
}

// NoOpIngestService stands in when no embedding provider is configured.
type NoOpIngestService struct{}

func (s *NoOpIngestService) Ingest(ctx context.Context, input service.IngestInput) (*domain.Document, error) {
	return nil, domain.ErrEmbeddingFailed.WithCause(fmt.Errorf("ingestion not configured: OPENAI_API_KEY required"))
}

// NoOpQueryService stands in when no embedding provider is configured.
type NoOpQueryService struct{}

func (s *NoOpQueryService) Answer(ctx context.Context, input service.AskInput) (*service.AnswerResult, error) {
	return nil, domain.ErrGenerationFailed.WithCause(fmt.Errorf("query not configured: OPENAI_API_KEY required"))
}

func runMigrations(databaseURL string) error {
	// golang-migrate needs a database/sql handle
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil {
		if err == migrate.ErrNilVersion {
			log.Println("migrations: database is up to date (no migrations applied)")
			return nil
		}
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	}

	if upErr == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
