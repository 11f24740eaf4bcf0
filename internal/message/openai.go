// Package message supplies the text the board displays.
package message

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verte-zerg/keypunch/internal/model"
)

// defaultPrompt asks for a single short line that fits the card.
const defaultPrompt = "Write one short, playful status line for a vintage punch card " +
	"message board. At most 70 characters, plain ASCII, no surrounding quotes."

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAI fetches messages from an OpenAI-compatible chat completions
// endpoint, one completion per Next call.
type OpenAI struct {
	baseURL string
	model   string
	prompt  string
	apiKey  string
	client  *http.Client
}

// NewOpenAI builds the source from config plus the API key the caller
// resolved from the environment.
func NewOpenAI(cfg model.OpenAIConfig, apiKey string) *OpenAI {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	mdl := cfg.Model
	if mdl == "" {
		mdl = "gpt-4o-mini"
	}
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &OpenAI{
		baseURL: base,
		model:   mdl,
		prompt:  prompt,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the source.
func (o *OpenAI) Name() string { return "openai" }

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
	Temperature float32                 `json:"temperature,omitempty"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatCompletionMessage `json:"message"`
		FinishReason string                `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

// Next requests one completion and returns its trimmed content.
func (o *OpenAI) Next(ctx context.Context) (string, error) {
	req := chatCompletionRequest{
		Model: o.model,
		Messages: []chatCompletionMessage{
			{Role: "user", Content: o.prompt},
		},
		MaxTokens:   80,
		Temperature: 1,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach endpoint: %w", err)
	}
	defer func() {
		// Best-effort body close.
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != nil {
			return "", fmt.Errorf("endpoint rejected request: %w", errResp.Error)
		}
		return "", fmt.Errorf("bad status: %d, body: %s", resp.StatusCode, string(data))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty message in response")
	}
	return text, nil
}
