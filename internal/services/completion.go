package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/cv-tailor/internal/logger"
)

const (
	DefaultModel       = "gemini-1.5-flash"
	DefaultTimeout     = 30 * time.Second
	defaultTemperature = float32(0.3)
	maxOutputTokens    = 4096
)

// CompletionClient sends one prompt and returns one text reply. It never
// retries and never alters the prompt.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// contentGenerator is the part of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	// Temperature is sent as given, zero included. Nil uses the default.
	Temperature *float32
}

type geminiClient struct {
	models      contentGenerator
	model       string
	timeout     time.Duration
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient builds a completion client for the Gemini API. Without an
// API key it returns ErrServiceUnconfigured and no client.
func NewGeminiClient(ctx context.Context, opts GeminiOptions, log *zap.Logger) (CompletionClient, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrServiceUnconfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiClient(client.Models, opts, log), nil
}

func newGeminiClient(models contentGenerator, opts GeminiOptions, log *zap.Logger) *geminiClient {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	temperature := defaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	return &geminiClient{
		models:      models,
		model:       model,
		timeout:     timeout,
		temperature: temperature,
		logger:      logger.WithCommonFields(log, "gemini", model),
	}
}

func (g *geminiClient) Model() string {
	return g.model
}

// Complete implements CompletionClient. An empty reply is returned as "" with
// a nil error; deciding what an empty reply means is the caller's job.
func (g *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Preview(prompt)),
	)

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxOutputTokens,
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		classified := classifyUpstreamError(err)
		g.logger.Warn("gemini generate content failed",
			zap.Error(classified),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", classified
	}

	text := responseText(resp)

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logger.Preview(text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// first candidate with content wins
		if builder.Len() > 0 {
			break
		}
	}

	return builder.String()
}

// classifyUpstreamError maps SDK and transport failures onto the two upstream
// sentinels. A well-formed API error below 500 is a rejection; everything else,
// including deadline expiry, is unavailability.
func classifyUpstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= http.StatusBadRequest && apiErr.Code < http.StatusInternalServerError {
			return fmt.Errorf("%w: %d %s: %s", ErrUpstreamRejected, apiErr.Code, apiErr.Status, apiErr.Message)
		}
		return fmt.Errorf("%w: %d %s: %s", ErrUpstreamUnavailable, apiErr.Code, apiErr.Status, apiErr.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out: %w", ErrUpstreamUnavailable, err)
	}

	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}
