package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
	"alfredoptarigan/cv-tailor/internal/models"
	"alfredoptarigan/cv-tailor/internal/repositories"
)

type AnalyzerService interface {
	// Analyze evaluates one CV against one job and stores a new record.
	Analyze(ctx context.Context, cvID, jobID uint) (*models.CVAnalysis, error)
	// Evaluate runs the same completion and normalization on raw texts
	// without touching any repository.
	Evaluate(ctx context.Context, cvText, jobText string) (AnalysisResult, error)
	ExtractSkills(ctx context.Context, cvID uint) ([]string, error)
	SuggestKeywords(ctx context.Context, cvID uint) ([]string, error)
	TailorCV(ctx context.Context, cvID, jobID uint) (string, error)
}

type AnalyzerOptions struct {
	// MaxRetries is the number of extra attempts after an unavailable upstream.
	MaxRetries int
	RetryDelay time.Duration
}

type analyzerService struct {
	cvRepo        repositories.CVRepository
	jobRepo       repositories.JobRepository
	analysisRepo  repositories.AnalysisRepository
	completion    CompletionClient
	promptBuilder *PromptBuilder
	maxRetries    int
	retryDelay    time.Duration
	logger        *zap.Logger
}

// NewAnalyzerService returns ErrServiceUnconfigured when completion is nil.
func NewAnalyzerService(
	cvRepo repositories.CVRepository,
	jobRepo repositories.JobRepository,
	analysisRepo repositories.AnalysisRepository,
	completion CompletionClient,
	opts AnalyzerOptions,
	log *zap.Logger,
) (AnalyzerService, error) {
	if completion == nil {
		return nil, ErrServiceUnconfigured
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &analyzerService{
		cvRepo:        cvRepo,
		jobRepo:       jobRepo,
		analysisRepo:  analysisRepo,
		completion:    completion,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		retryDelay:    opts.RetryDelay,
		logger:        logger.OrNop(log).Named("analyzer"),
	}, nil
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, cvID, jobID uint) (*models.CVAnalysis, error) {
	cv, err := a.loadCV(cvID)
	if err != nil {
		return nil, err
	}

	job, err := a.loadJob(jobID)
	if err != nil {
		return nil, err
	}

	log := a.logger.With(zap.Uint("cv_id", cvID), zap.Uint("job_id", jobID))
	log.Info("starting analysis")

	result, err := a.evaluate(ctx, cv.Content, job.Description, log)
	if err != nil {
		return nil, err
	}

	analysis := &models.CVAnalysis{
		ReferenceID:     uuid.New(),
		CVID:            cv.ID,
		JobID:           job.ID,
		MatchScore:      result.MatchScore,
		Strengths:       models.EncodeStringList(result.Strengths),
		Improvements:    models.EncodeStringList(result.Improvements),
		Recommendations: models.EncodeStringList(result.Recommendations),
		SkillsGap:       models.EncodeStringList(result.SkillsGap),
		AnalysisData:    result.Raw,
		RecoveryTier:    result.Tier,
		Model:           a.completion.Model(),
		CreatedAt:       time.Now(),
	}

	if err := a.analysisRepo.Create(analysis); err != nil {
		log.Error("failed to save analysis", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	log.Info("analysis saved", zap.Uint("analysis_id", analysis.ID), zap.Stringer("reference_id", analysis.ReferenceID))

	return analysis, nil
}

// Evaluate implements AnalyzerService.
func (a *analyzerService) Evaluate(ctx context.Context, cvText, jobText string) (AnalysisResult, error) {
	return a.evaluate(ctx, cvText, jobText, a.logger)
}

func (a *analyzerService) evaluate(ctx context.Context, cvText, jobText string, log *zap.Logger) (AnalysisResult, error) {
	prompt := a.promptBuilder.BuildAnalysisPrompt(cvText, jobText)
	reply, err := a.complete(ctx, prompt)
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		return AnalysisResult{}, analysisFailed(err)
	}

	result := NormalizeAnalysis(reply)
	tierField := zap.String("recovery_tier", string(result.Tier))
	if result.Tier == models.TierParsed {
		log.Info("analysis reply parsed", tierField, zap.Int("match_score", result.MatchScore))
	} else {
		log.Warn("analysis reply degraded", tierField, zap.Int("match_score", result.MatchScore),
			zap.String("response_preview", logger.Preview(reply)))
	}

	return result, nil
}

// complete calls the completion client, retrying only while the upstream is
// unavailable. Rejections are returned immediately.
func (a *analyzerService) complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			a.logger.Warn("retrying completion", zap.Int("attempt", attempt+1), zap.Error(lastErr))
			if err := wait(ctx, a.retryDelay); err != nil {
				return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
			}
		}

		reply, err := a.completion.Complete(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !errors.Is(err, ErrUpstreamUnavailable) {
			return "", err
		}
	}

	return "", lastErr
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (a *analyzerService) loadCV(id uint) (*models.CV, error) {
	cv, err := a.cvRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cv %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	return cv, nil
}

func (a *analyzerService) loadJob(id uint) (*models.Job, error) {
	job, err := a.jobRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}
