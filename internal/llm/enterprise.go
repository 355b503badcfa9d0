package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"accountintel/internal/config"
)

// enterpriseClient talks to the internal enterprise chat API. The API speaks
// the OpenAI chat-completion shape but authenticates with an "api-key"
// header and exposes exactly one model.
type enterpriseClient struct {
	client       *openai.Client
	defaultModel string
}

func newEnterpriseClient(cfg config.EnterpriseConfig) *enterpriseClient {
	client := openai.NewClient(
		option.WithBaseURL(cfg.Endpoint),
		option.WithAPIKey(cfg.APIKey),
		option.WithHeader("api-key", cfg.APIKey),
	)
	return &enterpriseClient{client: &client, defaultModel: cfg.Model}
}

// resolveModel maps a logical model name to the backend's model id. The
// backend exposes exactly one model, so every logical name collapses onto
// the configured id.
func (c *enterpriseClient) resolveModel(logical string) string {
	return c.defaultModel
}

func (c *enterpriseClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	// The enterprise API has no separate system field; the system prompt is
	// prepended to the messages array.
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.resolveModel(req.Model)),
		MaxTokens: openai.Int(req.MaxTokens),
		Messages:  messages,
	})
	if err != nil {
		return "", &ProviderError{Provider: "enterprise", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "enterprise", Err: fmt.Errorf("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}
