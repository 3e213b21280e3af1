package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/service"
)

const openAIBaseURL = "https://api.openai.com/v1"

type openAIProvider struct {
	httpClient *http.Client
	cfg        Config
}

func newOpenAIProvider(cfg Config) *openAIProvider {
	cfg = cfg.withDefaults("gpt-4o-mini", openAIBaseURL)
	return &openAIProvider{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (p *openAIProvider) name() string { return ProviderOpenAI }

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (p *openAIProvider) complete(ctx context.Context, req service.MealRequest) (string, error) {
	var userContent any = userPrompt(req)
	if len(req.ImageData) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.MediaType, base64.StdEncoding.EncodeToString(req.ImageData))
		userContent = []map[string]any{
			{"type": "text", "text": userPrompt(req)},
			{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
		}
	}

	body := map[string]any{
		"model":       p.cfg.Model,
		"temperature": p.cfg.Temperature,
		"max_tokens":  p.cfg.MaxTokens,
		"response_format": map[string]string{
			"type": "json_object",
		},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userContent},
		},
	}

	raw, err := postJSON(ctx, p.httpClient, p.name(), p.cfg.BaseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	}, body)
	if err != nil {
		return "", err
	}

	var response openAIResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return "", common.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", common.Permanent(fmt.Errorf("no choices in response"))
	}
	return response.Choices[0].Message.Content, nil
}
