package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/service"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"
)

type anthropicProvider struct {
	httpClient *http.Client
	cfg        Config
}

func newAnthropicProvider(cfg Config) *anthropicProvider {
	cfg = cfg.withDefaults("claude-3-5-sonnet-latest", anthropicBaseURL)
	return &anthropicProvider{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (p *anthropicProvider) name() string { return ProviderAnthropic }

type anthropicContent struct {
	Source *anthropicImage `json:"source,omitempty"`
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
}

type anthropicImage struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// anthropicResponse is the subset of the Messages API response we read.
type anthropicResponse struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) complete(ctx context.Context, req service.MealRequest) (string, error) {
	var content []anthropicContent
	if len(req.ImageData) > 0 {
		content = append(content, anthropicContent{
			Type: "image",
			Source: &anthropicImage{
				Type:      "base64",
				MediaType: req.MediaType,
				Data:      base64.StdEncoding.EncodeToString(req.ImageData),
			},
		})
	}
	content = append(content, anthropicContent{Type: "text", Text: userPrompt(req)})

	body := map[string]any{
		"model":       p.cfg.Model,
		"max_tokens":  p.cfg.MaxTokens,
		"temperature": p.cfg.Temperature,
		"system":      systemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	raw, err := postJSON(ctx, p.httpClient, p.name(), p.cfg.BaseURL+"/messages", map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}, body)
	if err != nil {
		return "", err
	}

	var response anthropicResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return "", common.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", common.Permanent(fmt.Errorf("no content in response"))
	}
	return text.String(), nil
}
