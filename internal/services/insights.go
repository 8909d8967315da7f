package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ExtractSkills implements AnalyzerService.
func (a *analyzerService) ExtractSkills(ctx context.Context, cvID uint) ([]string, error) {
	cv, err := a.loadCV(cvID)
	if err != nil {
		return nil, err
	}

	reply, err := a.complete(ctx, a.promptBuilder.BuildSkillsPrompt(cv.Content))
	if err != nil {
		return nil, analysisFailed(err)
	}

	skills := ExtractListItems(reply)
	a.logger.Info("skills extracted", zap.Uint("cv_id", cvID), zap.Int("count", len(skills)))

	return skills, nil
}

// SuggestKeywords implements AnalyzerService.
func (a *analyzerService) SuggestKeywords(ctx context.Context, cvID uint) ([]string, error) {
	cv, err := a.loadCV(cvID)
	if err != nil {
		return nil, err
	}

	reply, err := a.complete(ctx, a.promptBuilder.BuildKeywordsPrompt(cv.Content))
	if err != nil {
		return nil, analysisFailed(err)
	}

	return ExtractListItems(reply), nil
}

// TailorCV implements AnalyzerService. Unlike Analyze there is no fallback
// text: an empty reply is a failure.
func (a *analyzerService) TailorCV(ctx context.Context, cvID, jobID uint) (string, error) {
	cv, err := a.loadCV(cvID)
	if err != nil {
		return "", err
	}

	job, err := a.loadJob(jobID)
	if err != nil {
		return "", err
	}

	reply, err := a.complete(ctx, a.promptBuilder.BuildTailorPrompt(cv.Content, job.Description))
	if err != nil {
		return "", analysisFailed(err)
	}

	tailored := strings.TrimSpace(reply)
	if tailored == "" {
		return "", analysisFailed(fmt.Errorf("%w: empty tailored cv", ErrUpstreamRejected))
	}

	return tailored, nil
}
