package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/config"
	"alfredoptarigan/cv-tailor/internal/handlers"
	"alfredoptarigan/cv-tailor/internal/linkedin"
	"alfredoptarigan/cv-tailor/internal/repositories"
	"alfredoptarigan/cv-tailor/internal/services"
	"alfredoptarigan/cv-tailor/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		return serve(cmd, cfg, log)
	},
}

func serve(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) error {
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Error("failed to initialize database", zap.Error(err))
		return err
	}

	cvRepo := repositories.NewCVRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	uploads := services.NewUploadStore(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize, log)
	if err := uploads.EnsureDir(); err != nil {
		return err
	}

	var archive services.DocumentArchive
	minioArchive, err := storage.NewMinIOArchive(storage.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKeyID,
		SecretAccessKey: cfg.MinIO.SecretAccessKey,
		UseSSL:          cfg.MinIO.UseSSL,
		Bucket:          cfg.MinIO.Bucket,
		Location:        cfg.MinIO.Location,
	}, log)
	if err != nil {
		return err
	}
	if minioArchive != nil {
		if err := minioArchive.EnsureBucket(cmd.Context()); err != nil {
			return err
		}
		archive = minioArchive
		log.Info("upload archive enabled", zap.String("bucket", cfg.MinIO.Bucket))
	}

	analyzer, err := newAnalyzer(cmd.Context(), cfg, log, cvRepo, jobRepo, analysisRepo)
	switch {
	case errors.Is(err, services.ErrServiceUnconfigured):
		log.Warn("GEMINI_API_KEY is not set, analysis endpoints will answer 503")
		analyzer = nil
	case err != nil:
		return err
	default:
		log.Info("analysis enabled", zap.String("model", cfg.Gemini.Model))
	}

	newSource := func(token string) services.ProfileSource {
		return linkedin.NewClient(linkedin.Options{
			BaseURL: cfg.LinkedIn.APIURL,
			Token:   token,
			Timeout: cfg.LinkedIn.Timeout,
		}, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      "CV Tailor API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: handlers.RequestIDKey,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-LinkedIn-Token",
	}))

	handlers.Register(app.Group("/api/v1"), handlers.Set{
		Documents: handlers.NewDocumentHandler(cvRepo, jobRepo, uploads, services.NewPDFExtractor(log), archive, log),
		Analysis:  handlers.NewAnalysisHandler(analyzer, analysisRepo, log),
		Insights:  handlers.NewInsightHandler(analyzer),
		LinkedIn: handlers.NewLinkedInHandler(services.NewSynthesizerService(log), newSource,
			cvRepo, log),
		AnalysisEnabled: analyzer != nil,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Tailor API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/cvs",
				"POST /api/v1/cvs/upload",
				"POST /api/v1/jobs",
				"POST /api/v1/analyze-cv",
				"GET /api/v1/analyses",
				"POST /api/v1/linkedin/generate-cv",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	return app.Listen(addr)
}
