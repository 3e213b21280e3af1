package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/service"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ErrEmptyRequest is returned when a request has neither text nor an image.
var ErrEmptyRequest = errors.New("meal description or image is required")

var _ service.MealAnalyzer = (*Client)(nil)

// provider sends one analysis prompt and returns the model's raw text reply.
type provider interface {
	complete(ctx context.Context, req service.MealRequest) (string, error)
	name() string
}

// Client analyzes meals through a single provider.
type Client struct {
	provider    provider
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewClient creates a meal analyzer for the configured provider.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var p provider
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		p = newOpenAIProvider(cfg)
	case ProviderAnthropic:
		p = newAnthropicProvider(cfg)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Client{
		provider:    p,
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}, nil
}

// AnalyzeMeal estimates the macros of a described or photographed meal.
func (c *Client) AnalyzeMeal(ctx context.Context, req service.MealRequest) (service.MealAnalysis, error) {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" && len(req.ImageData) == 0 {
		return service.MealAnalysis{}, ErrEmptyRequest
	}
	if len(req.ImageData) > 0 && req.MediaType == "" {
		req.MediaType = "image/jpeg"
	}

	var analysis service.MealAnalysis
	err := common.WithRetry(ctx, func() error {
		if err := c.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}

		reply, err := c.provider.complete(ctx, req)
		if err != nil {
			return err
		}

		parsed, err := parseAnalysis(reply)
		if err != nil {
			return common.Permanent(err)
		}
		analysis = parsed
		return nil
	}, c.retryOpts)
	if err != nil {
		return service.MealAnalysis{}, fmt.Errorf("%s meal analysis failed: %w", c.provider.name(), err)
	}

	c.logger.Info("meal analyzed",
		"provider", c.provider.name(),
		"meal", analysis.MealName,
		"calories", analysis.Calories,
		"confidence", analysis.Confidence,
		"has_image", len(req.ImageData) > 0)

	return analysis, nil
}

// Close stops the rate limiter.
func (c *Client) Close() error {
	c.rateLimiter.Close()
	return nil
}

// statusError classifies a non-200 provider response for the retry loop.
func statusError(providerName string, status int, body []byte) error {
	err := fmt.Errorf("%w: %s API error (status %d): %s", common.ErrUpstream, providerName, status, strings.TrimSpace(string(body)))
	switch {
	case status == 429:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
	case status >= 500:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return common.Permanent(err)
	}
}
