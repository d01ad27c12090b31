package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anhtu-vn/gochat/internal/common"
)

// OpenAIProvider adapts the chat/completions endpoint, including the
// function-calling handshake.
type OpenAIProvider struct {
	BaseURL      string
	APIKey       string
	FunctionDefs []FunctionDefinition
	Client       *http.Client
}

type openAIChatReq struct {
	Model        string               `json:"model"`
	Messages     []Message            `json:"messages"`
	Temperature  float64              `json:"temperature"`
	Functions    []FunctionDefinition `json:"functions,omitempty"`
	FunctionCall string               `json:"function_call,omitempty"`
}

type openAIChatResp struct {
	Choices []struct {
		Message struct {
			Role         string        `json:"role"`
			Content      string        `json:"content"`
			FunctionCall *FunctionCall `json:"function_call"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIProvider(baseURL, apiKey string, defs []FunctionDefinition) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		FunctionDefs: defs,
		Client:       &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message, cfg Config) (*Completion, error) {
	if p.Client == nil {
		return nil, errors.New("openai: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}

	reqBody := openAIChatReq{
		Model:       cfg.ModelOrDefault(),
		Messages:    messages,
		Temperature: cfg.TemperatureOrDefault(),
	}
	if cfg.Functions && len(p.FunctionDefs) > 0 {
		reqBody.Functions = p.FunctionDefs
		reqBody.FunctionCall = "auto"
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: openai: %s", common.ErrUpstream, msg)
	}

	var decoded openAIChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: openai: %v", common.ErrUpstream, err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("%w: openai: %s", common.ErrUpstream, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai: empty response", common.ErrUpstream)
	}

	msg := decoded.Choices[0].Message
	if msg.FunctionCall == nil {
		return &Completion{Content: msg.Content}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(msg.FunctionCall.Arguments), &args); err != nil {
		return nil, fmt.Errorf("%w: openai: bad function_call arguments: %v", common.ErrUpstream, err)
	}
	return &Completion{
		ToolCall: &ToolCall{
			Name:      msg.FunctionCall.Name,
			Args:      args,
			Arguments: msg.FunctionCall.Arguments,
		},
	}, nil
}
