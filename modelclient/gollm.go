package modelclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"

	"github.com/martinemde/nanocoder/toolcall"
)

// Config holds the settings for a gollm-backed client.
type Config struct {
	Provider    string // "openai", "anthropic", "ollama", ...
	Model       string
	APIKey      string // empty: gollm reads the provider's env variable
	MaxTokens   int
	Temperature float64
	Retry       RetryPolicy
}

// DefaultConfig returns a config with provider defaults filled in.
func DefaultConfig(provider string) Config {
	model := "gpt-4o-mini"
	if provider == "anthropic" {
		model = "claude-sonnet-4-5-20250514"
	}
	return Config{
		Provider:    provider,
		Model:       model,
		MaxTokens:   4096,
		Temperature: 0.7,
		Retry:       DefaultRetryPolicy(),
	}
}

// GollmClient implements Client on top of a gollm.LLM instance.
type GollmClient struct {
	provider string
	llm      gollm.LLM
	retry    RetryPolicy
}

// NewGollmClient constructs the underlying gollm LLM from config.
func NewGollmClient(cfg Config) (*GollmClient, error) {
	opts := []gollm.ConfigOption{
		gollm.SetProvider(cfg.Provider),
		gollm.SetModel(cfg.Model),
		gollm.SetMaxTokens(cfg.MaxTokens),
		gollm.SetTemperature(cfg.Temperature),
		gollm.SetMaxRetries(0), // retries are handled here, with classification
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.APIKey != "" {
		opts = append(opts, gollm.SetAPIKey(cfg.APIKey))
	}

	llm, err := gollm.NewLLM(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	return &GollmClient{provider: cfg.Provider, llm: llm, retry: cfg.Retry}, nil
}

// Complete sends the request and returns the assistant reply.
func (c *GollmClient) Complete(ctx context.Context, req Request) (Response, error) {
	prompt := c.buildPrompt(req)
	c.applyOverrides(req)

	text, err := Retry(ctx, c.retry, func(ctx context.Context) (string, error) {
		out, err := c.llm.Generate(ctx, prompt)
		if err != nil {
			return "", classifyError(c.provider, err)
		}
		return out, nil
	})
	if err != nil {
		return Response{}, err
	}

	calls := parseStructuredCalls(text)
	return Response{
		Text:      stripStructuredCalls(text, calls),
		ToolCalls: calls,
	}, nil
}

// buildPrompt flattens the conversation into gollm's single-prompt shape.
func (c *GollmClient) buildPrompt(req Request) *gollm.Prompt {
	var parts []string
	for _, msg := range req.Messages {
		switch msg.Role {
		case toolcall.RoleUser:
			parts = append(parts, msg.Content)
		case toolcall.RoleAssistant:
			if msg.Content != "" {
				parts = append(parts, "[Assistant]: "+msg.Content)
			}
			for _, tc := range msg.ToolCalls {
				args, _ := json.Marshal(tc.Function.Arguments)
				parts = append(parts, fmt.Sprintf("[Assistant called %s]: %s", tc.Function.Name, args))
			}
		case toolcall.RoleTool:
			prefix := "[Tool Result]"
			if strings.HasPrefix(msg.Content, "Error:") {
				prefix = "[Tool Error]"
			}
			parts = append(parts, fmt.Sprintf("%s (%s): %s", prefix, msg.Name, msg.Content))
		}
	}

	promptText := strings.Join(parts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	promptOpts := []gollm.PromptOption{}
	if req.SystemPrompt != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(req.SystemPrompt, gollm.CacheTypeEphemeral))
	}
	if req.MaxTokens != nil {
		promptOpts = append(promptOpts, gollm.WithMaxLength(*req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		tools := make([]gollm.Tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, gollm.Tool{
				Type: "function",
				Function: gollm.Function{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		promptOpts = append(promptOpts, gollm.WithTools(tools))
		promptOpts = append(promptOpts, gollm.WithToolChoice("auto"))
	}

	return gollm.NewPrompt(promptText, promptOpts...)
}

func (c *GollmClient) applyOverrides(req Request) {
	if req.Temperature != nil {
		c.llm.SetOption("temperature", *req.Temperature)
	}
	if req.MaxTokens != nil {
		c.llm.SetOption("max_tokens", *req.MaxTokens)
	}
}

// parseStructuredCalls extracts tool calls that gollm returns as a JSON array
// in the response text. Calls embedded as tags are not handled here.
func parseStructuredCalls(text string) []toolcall.ToolCall {
	start := strings.Index(text, `[{"name"`)
	if start == -1 {
		return nil
	}

	var raw []struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(text[start:]), &raw); err != nil {
		return nil
	}

	calls := make([]toolcall.ToolCall, 0, len(raw))
	for _, rc := range raw {
		if rc.Name == "" {
			continue
		}
		calls = append(calls, toolcall.ToolCall{
			ID: "call_" + uuid.New().String()[:8],
			Function: toolcall.FunctionCall{
				Name:      rc.Name,
				Arguments: rc.Arguments,
			},
		})
	}
	return calls
}

// stripStructuredCalls removes the parsed JSON block from the reply text.
func stripStructuredCalls(text string, calls []toolcall.ToolCall) string {
	if len(calls) == 0 {
		return text
	}
	if idx := strings.Index(text, `[{"name"`); idx != -1 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
