package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
	"alfredoptarigan/cv-tailor/internal/services"
)

const (
	DefaultBaseURL = "https://api.linkedin.com/v2"
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 1 << 20
)

// Client reads a member profile with an OAuth access token. It implements
// services.ProfileSource.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type listEnvelope[T any] struct {
	Elements []T `json:"elements"`
}

func NewClient(opts Options, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.OrNop(log).Named("linkedin"),
	}
}

// IsConnected reports whether an access token is present. The token itself is
// only validated by the first request.
func (c *Client) IsConnected() bool {
	return c.token != ""
}

func (c *Client) GetProfile(ctx context.Context) (*services.Profile, error) {
	var profile services.Profile
	if err := c.get(ctx, "/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) GetExperience(ctx context.Context) ([]services.Experience, error) {
	var env listEnvelope[services.Experience]
	if err := c.get(ctx, "/me/positions", &env); err != nil {
		return nil, err
	}
	return env.Elements, nil
}

func (c *Client) GetEducation(ctx context.Context) ([]services.Education, error) {
	var env listEnvelope[services.Education]
	if err := c.get(ctx, "/me/educations", &env); err != nil {
		return nil, err
	}
	return env.Elements, nil
}

func (c *Client) GetSkills(ctx context.Context) ([]services.Skill, error) {
	var env listEnvelope[services.Skill]
	if err := c.get(ctx, "/me/skills", &env); err != nil {
		return nil, err
	}
	return env.Elements, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if !c.IsConnected() {
		return services.ErrSourceUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cv-tailor/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("profile request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %w", services.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		c.logger.Info("profile not accessible", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", services.ErrSourceUnavailable, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", services.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d: %s", services.ErrUpstreamRejected, resp.StatusCode,
			logger.TruncateForLog(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}
