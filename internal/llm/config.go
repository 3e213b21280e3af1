package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
)

// Config holds configuration for the meal analyzer.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// Validate checks that the provider is known and has credentials.
func (c Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: %s API key is required", common.ErrMissingConfig, c.Provider)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

func (c Config) withDefaults(defaultModel, defaultBaseURL string) Config {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}
