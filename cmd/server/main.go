package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"anyboard/internal/api/middleware"
	"anyboard/internal/api/routes"
	"anyboard/internal/auth"
	s3blob "anyboard/internal/blob/s3"
	"anyboard/internal/config"
	"anyboard/internal/core/comments"
	"anyboard/internal/core/media"
	"anyboard/internal/core/posts"
	"anyboard/internal/core/sessions"
	postgresRepo "anyboard/internal/db/postgres"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "anyboard.toml"
	}

	cfg, err := config.ReadFromFile(configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config:", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}

	if err := goose.Up(db, "internal/db/migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	ctx := context.Background()

	// Auth: token issuer, provider, and the session store the middleware
	// consults for revocation
	sessionTTL, err := cfg.Auth.SessionTTLDuration()
	if err != nil {
		log.Fatal("Invalid config:", err)
	}

	issuer, err := auth.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), sessionTTL)
	if err != nil {
		log.Fatal("Failed to create token issuer:", err)
	}

	userRepo := postgresRepo.NewUserRepository(db)
	sessionRepo := postgresRepo.NewSessionRepository(db)

	provider, err := auth.NewProvider(ctx, userRepo, sessionRepo, issuer)
	if err != nil {
		log.Fatal("Failed to initialize auth provider:", err)
	}

	sessionStore := sessions.NewStore(provider)
	defer sessionStore.Close()

	// Image pipeline: S3 store behind the uploader
	blobStore, err := s3blob.NewStore(ctx, s3blob.Config{
		Bucket:          cfg.Blob.Bucket,
		Region:          cfg.Blob.Region,
		Prefix:          cfg.Blob.Prefix,
		BaseURL:         cfg.Blob.BaseURL,
		AccessKeyID:     cfg.Blob.AccessKeyID,
		SecretAccessKey: cfg.Blob.SecretAccessKey,
	})
	if err != nil {
		log.Fatal("Failed to initialize blob store:", err)
	}

	var uploaderOpts []media.Option
	if cfg.Blob.StagingDir != "" {
		uploaderOpts = append(uploaderOpts, media.WithStagingDir(cfg.Blob.StagingDir))
	}
	uploader := media.NewUploader(blobStore, uploaderOpts...)

	// Core services
	postRepo := postgresRepo.NewPostRepository(db)
	postService := posts.NewPostService(postRepo, uploader)

	commentRepo := postgresRepo.NewCommentRepository(db)
	commentService := comments.NewCommentService(commentRepo)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	authMiddleware := middleware.NewAuthMiddleware(provider, sessionStore)

	// OptionalAuth runs before the limiter so authenticated requests are
	// counted per account instead of per IP.
	r.Use(authMiddleware.OptionalAuth)

	// Rate limiting: 100 requests per minute per account or IP
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	routes.RegisterAccountRoutes(r, provider, authMiddleware)
	routes.RegisterPostRoutes(r, postService, commentService, authMiddleware)
	routes.RegisterCommentRoutes(r, commentService, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	fmt.Printf("anyboard server starting on %s\n", cfg.HTTP.Addr)
	log.Fatal(http.ListenAndServe(cfg.HTTP.Addr, r))
}
