package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/cv-tailor/internal/models"
)

const goodReply = `{"match_score": 82, "strengths": ["Go"], "improvements": ["Kubernetes"], "recommendations": ["Add metrics"], "skills_gap": ["Helm"]}`

func newTestAnalyzer(t *testing.T, completion CompletionClient, opts AnalyzerOptions) (AnalyzerService, *fakeAnalysisRepo) {
	t.Helper()
	cvs, jobs, analyses := seededRepos()
	svc, err := NewAnalyzerService(cvs, jobs, analyses, completion, opts, zap.NewNop())
	require.NoError(t, err)
	return svc, analyses
}

func TestNewAnalyzerServiceRequiresCompletion(t *testing.T) {
	cvs, jobs, analyses := seededRepos()
	svc, err := NewAnalyzerService(cvs, jobs, analyses, nil, AnalyzerOptions{}, nil)
	require.ErrorIs(t, err, ErrServiceUnconfigured)
	assert.Nil(t, svc)
}

func TestAnalyzePersistsParsedResult(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{goodReply}}
	svc, analyses := newTestAnalyzer(t, completion, AnalyzerOptions{})

	got, err := svc.Analyze(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, 82, got.MatchScore)
	assert.Equal(t, uint(1), got.CVID)
	assert.Equal(t, uint(7), got.JobID)
	assert.Equal(t, models.TierParsed, got.RecoveryTier)
	assert.Equal(t, "fake-model", got.Model)
	assert.NotEqual(t, uuid.Nil, got.ReferenceID)
	assert.Equal(t, []string{"Helm"}, models.DecodeStringList(got.SkillsGap))
	assert.Len(t, analyses.records, 1)

	require.Len(t, completion.prompts, 1)
	assert.Contains(t, completion.prompts[0], "Go developer with 5 years of PostgreSQL")
	assert.Contains(t, completion.prompts[0], "Go, Kubernetes, PostgreSQL")
}

func TestAnalyzeMissingJobWritesNothing(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{goodReply}}
	svc, analyses := newTestAnalyzer(t, completion, AnalyzerOptions{})

	_, err := svc.Analyze(context.Background(), 1, 999)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, analyses.writes)
	assert.Equal(t, 0, completion.calls)
}

func TestAnalyzeMissingCV(t *testing.T) {
	svc, _ := newTestAnalyzer(t, &scriptedCompletion{}, AnalyzerOptions{})

	_, err := svc.Analyze(context.Background(), 42, 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeTwiceCreatesTwoRecords(t *testing.T) {
	svc, analyses := newTestAnalyzer(t, &scriptedCompletion{replies: []string{goodReply}}, AnalyzerOptions{})

	first, err := svc.Analyze(context.Background(), 1, 7)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.ReferenceID, second.ReferenceID)
	assert.Len(t, analyses.records, 2)
}

func TestAnalyzeDegradedReplyStillPersists(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cvs, jobs, analyses := seededRepos()
	completion := &scriptedCompletion{replies: []string{"I could not produce JSON, sorry."}}
	svc, err := NewAnalyzerService(cvs, jobs, analyses, completion, AnalyzerOptions{}, zap.New(core))
	require.NoError(t, err)

	got, err := svc.Analyze(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, 75, got.MatchScore)
	assert.Equal(t, models.TierDefault, got.RecoveryTier)
	assert.Equal(t, []string{"Analysis completed"}, models.DecodeStringList(got.Strengths))
	assert.Equal(t, 1, logs.FilterMessage("analysis reply degraded").Len())
}

func TestAnalyzeRejectedIsNotRetried(t *testing.T) {
	completion := &scriptedCompletion{errs: []error{ErrUpstreamRejected}}
	svc, analyses := newTestAnalyzer(t, completion, AnalyzerOptions{MaxRetries: 3})

	_, err := svc.Analyze(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrAnalysisFailed)
	require.ErrorIs(t, err, ErrUpstreamRejected)
	assert.Equal(t, 1, completion.calls)
	assert.Equal(t, 0, analyses.writes)
}

func TestAnalyzeRetriesUnavailableOnce(t *testing.T) {
	completion := &scriptedCompletion{
		errs:    []error{ErrUpstreamUnavailable, nil},
		replies: []string{"", goodReply},
	}
	svc, analyses := newTestAnalyzer(t, completion, AnalyzerOptions{MaxRetries: 1})

	got, err := svc.Analyze(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 82, got.MatchScore)
	assert.Equal(t, 2, completion.calls)
	assert.Len(t, analyses.records, 1)
}

func TestAnalyzeGivesUpAfterRetries(t *testing.T) {
	completion := &scriptedCompletion{errs: []error{ErrUpstreamUnavailable}}
	svc, _ := newTestAnalyzer(t, completion, AnalyzerOptions{MaxRetries: 1})

	_, err := svc.Analyze(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrAnalysisFailed)
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 2, completion.calls)
}

func TestAnalyzeRetryStopsOnCancelledContext(t *testing.T) {
	completion := &scriptedCompletion{errs: []error{ErrUpstreamUnavailable}}
	svc, _ := newTestAnalyzer(t, completion, AnalyzerOptions{MaxRetries: 5, RetryDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, 1, 7)
	require.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, 1, completion.calls)
}

func TestAnalyzePersistenceFailure(t *testing.T) {
	cvs, jobs, analyses := seededRepos()
	analyses.err = errors.New("connection reset")
	svc, err := NewAnalyzerService(cvs, jobs, analyses, &scriptedCompletion{replies: []string{goodReply}}, AnalyzerOptions{MaxRetries: 2}, nil)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrPersistenceFailed)
	assert.NotErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, 1, analyses.writes)
}

func TestAnalyzeRepositoryErrorIsNotNotFound(t *testing.T) {
	cvs, jobs, analyses := seededRepos()
	cvs.err = errors.New("db down")
	svc, err := NewAnalyzerService(cvs, jobs, analyses, &scriptedCompletion{}, AnalyzerOptions{}, nil)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), 1, 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestEvaluateDoesNotPersist(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"match_score: 64\nOtherwise unstructured."}}
	svc, err := NewAnalyzerService(nil, nil, nil, completion, AnalyzerOptions{}, nil)
	require.NoError(t, err)

	result, err := svc.Evaluate(context.Background(), "cv text", "job text")
	require.NoError(t, err)
	assert.Equal(t, 64, result.MatchScore)
	assert.Equal(t, models.TierHeuristic, result.Tier)
	assert.Contains(t, completion.prompts[0], "cv text")
}
