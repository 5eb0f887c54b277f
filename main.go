package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cliphunter/cliphunter/config"
	"github.com/cliphunter/cliphunter/ffmpeg"
	"github.com/cliphunter/cliphunter/handlers/api"
	"github.com/cliphunter/cliphunter/logger"
	"github.com/cliphunter/cliphunter/middleware"
	"github.com/cliphunter/cliphunter/repository"
	"github.com/cliphunter/cliphunter/repository/sqlite"
	"github.com/cliphunter/cliphunter/services/clip"
	"github.com/cliphunter/cliphunter/shortcode"
	"github.com/cliphunter/cliphunter/storage"
	"github.com/cliphunter/cliphunter/validation"
	"github.com/cliphunter/cliphunter/ytdlp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize record store. The database is optional: without it,
	// clip creation still works and lookups return 503.
	var repo repository.ClipRepository = repository.Null{}
	if cfg.DatabaseConfigured() {
		db, err := sqlite.InitDB(cfg.Database.Path, sqlite.DBConfig{
			MaxConnections:     cfg.Database.MaxConnections,
			MaxIdleConnections: cfg.Database.MaxIdleConnections,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		repo, err = sqlite.NewRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize repository: %v", err)
		}
	} else {
		appLogger.Warn("DB_PATH not set; running without clip persistence")
	}

	// Initialize object store. Also optional: without it, the cut
	// action returns 503.
	var store storage.ObjectStore = storage.Null{}
	if cfg.StorageConfigured() {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			Region:     cfg.Storage.Region,
			Endpoint:   cfg.Storage.Endpoint,
			Bucket:     cfg.Storage.Bucket,
			CDNBaseURL: cfg.Storage.CDNBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		store = s3Client
	} else {
		appLogger.Warn("Object storage not configured; cut requests will return 503")
	}

	// Initialize external tool adapters
	resolver := ytdlp.NewRunner(ytdlp.Config{
		BinPath:         cfg.Clip.YtdlpPath,
		DownloadTimeout: cfg.Clip.DownloadTimeout,
	}, appLogger)

	trimmer := ffmpeg.NewTrimmer(ffmpeg.Config{
		BinPath: cfg.Clip.FFmpegPath,
		Mode:    ffmpeg.Mode(cfg.Clip.FFmpegMode),
		Timeout: cfg.Clip.TranscodeTimeout,
	}, appLogger)

	// Initialize clip service
	validator := validation.NewValidator()
	clipService := clip.NewService(
		repo,
		resolver,
		trimmer,
		store,
		shortcode.NewGenerator(cfg.Clip.DeterministicCodes),
		validator,
		clip.Config{
			TempDir:       cfg.TempDir,
			PublicBaseURL: cfg.PublicBaseURL,
			StrictResolve: cfg.Clip.StrictResolve,
		},
		appLogger,
	)

	// Setup routes
	clipHandler := api.NewClipHandler(clipService, validator, appLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", api.HandleHome)
	mux.HandleFunc("GET /health", api.HandleHealth)
	mux.HandleFunc("POST /api/info", clipHandler.HandleInfo)
	mux.HandleFunc("POST /api/clip", clipHandler.HandleCreateClip)
	mux.HandleFunc("GET /api/clip/{short_code}", clipHandler.HandleGetClip)
	mux.HandleFunc("POST /api/cut", clipHandler.HandleCut)

	// Setup middleware
	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		rateLimit = middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.BurstSize,
		).Middleware
	}

	handler := middleware.Chain(
		mux,
		middleware.RequestID(),
		middleware.Recovery(appLogger),
		middleware.Logging(appLogger),
		middleware.CORS(cfg.CORS),
		rateLimit,
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-shutdownChan
		appLogger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.WithError(err).Error("Server shutdown error")
		}
	}()

	appLogger.WithField("port", cfg.ServerPort).Info("Server starting")
	if cfg.Debug {
		log.Printf("Server starting on http://localhost:%s", cfg.ServerPort)
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	<-shutdownDone
}
