package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSkillsFromJSONArray(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"```json\n[\"Go\", \"PostgreSQL\", \"gRPC\"]\n```"}}
	svc, analyses := newTestAnalyzer(t, completion, AnalyzerOptions{})

	skills, err := svc.ExtractSkills(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL", "gRPC"}, skills)
	assert.Equal(t, 0, analyses.writes)
}

func TestExtractSkillsMissingCV(t *testing.T) {
	svc, _ := newTestAnalyzer(t, &scriptedCompletion{}, AnalyzerOptions{})

	_, err := svc.ExtractSkills(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSuggestKeywordsFromLines(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"- microservices\n\n* observability\n3. distributed systems\n"}}
	svc, _ := newTestAnalyzer(t, completion, AnalyzerOptions{})

	keywords, err := svc.SuggestKeywords(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, keywords, 3)
	assert.NotNil(t, keywords)
}

func TestSuggestKeywordsUpstreamFailure(t *testing.T) {
	completion := &scriptedCompletion{errs: []error{ErrUpstreamRejected}}
	svc, _ := newTestAnalyzer(t, completion, AnalyzerOptions{})

	_, err := svc.SuggestKeywords(context.Background(), 1)
	require.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestTailorCV(t *testing.T) {
	completion := &scriptedCompletion{replies: []string{"\n  Tailored CV body  \n"}}
	svc, _ := newTestAnalyzer(t, completion, AnalyzerOptions{})

	out, err := svc.TailorCV(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "Tailored CV body", out)
	assert.Contains(t, completion.prompts[0], "Go, Kubernetes, PostgreSQL")
}

func TestTailorCVEmptyReplyFails(t *testing.T) {
	svc, _ := newTestAnalyzer(t, &scriptedCompletion{replies: []string{"   "}}, AnalyzerOptions{})

	_, err := svc.TailorCV(context.Background(), 1, 7)
	require.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestTailorCVMissingJob(t *testing.T) {
	svc, _ := newTestAnalyzer(t, &scriptedCompletion{}, AnalyzerOptions{})

	_, err := svc.TailorCV(context.Background(), 1, 8)
	require.ErrorIs(t, err, ErrNotFound)
}
