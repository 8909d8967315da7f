package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/config"
	"alfredoptarigan/cv-tailor/internal/logger"
	"alfredoptarigan/cv-tailor/internal/repositories"
	"alfredoptarigan/cv-tailor/internal/services"
)

const appName = "cv-tailor"

var (
	debugFlag bool
	jsonFlag  bool

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "cv-tailor analyzes how well a CV matches a job description",
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonFlag, "json", "j", false, "json format for logging")

	rootCmd.AddCommand(serveCmd, analyzeCmd, synthesizeCmd, migrateCmd, seedJobsCmd)
}

// bootstrap loads the configuration and builds the logger every command uses.
// Flags only ever switch options on.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, envLoaded := config.Load()

	log, err := logger.New(cfg.Log.JSON || jsonFlag, cfg.Log.Debug || debugFlag)
	if err != nil {
		return nil, nil, err
	}

	if !envLoaded {
		log.Debug("no .env file found, using process environment")
	}

	return cfg, log, nil
}

// newAnalyzer returns services.ErrServiceUnconfigured when no API key is set.
func newAnalyzer(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	cvRepo repositories.CVRepository,
	jobRepo repositories.JobRepository,
	analysisRepo repositories.AnalysisRepository,
) (services.AnalyzerService, error) {
	if !cfg.AnalysisEnabled() {
		return nil, services.ErrServiceUnconfigured
	}

	completion, err := services.NewGeminiClient(ctx, services.GeminiOptions{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Timeout:     cfg.Gemini.Timeout,
		Temperature: &cfg.Gemini.Temperature,
	}, log)
	if err != nil {
		return nil, err
	}

	return services.NewAnalyzerService(cvRepo, jobRepo, analysisRepo, completion, services.AnalyzerOptions{
		MaxRetries: cfg.Analysis.MaxRetries,
		RetryDelay: cfg.Analysis.RetryDelay,
	}, log)
}
