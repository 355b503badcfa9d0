// Package llm provides a provider-agnostic text generation client backed by
// either the Anthropic API or an internal enterprise chat API. The backend is
// selected once at startup from configuration, not per call.
package llm

import (
	"context"
	"fmt"

	"accountintel/internal/config"
)

const (
	// ModelFast is the logical model for cheap extraction calls
	// (opportunity ranking, title selection).
	ModelFast = "claude-haiku-4-5-20251001"
	// ModelQuality is the logical model for long-form generation
	// (slide drafts, critique, refinement, approach plans).
	ModelQuality = "claude-sonnet-4-5-20250929"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries one chat-completion call.
type CompletionRequest struct {
	Messages  []Message
	MaxTokens int64
	System    string // Optional system prompt
	Model     string // Logical model name; empty uses the provider default
}

// Client sends role-tagged messages to the configured backend and returns
// plain text. Implementations do not retry; callers decide how to degrade.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProviderError reports a backend failure: unreachable network, missing
// credential, or a non-success HTTP status.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// New constructs the client for the configured provider. It returns an error
// when the selected backend is missing its credential; callers that want
// fallback behavior treat that as "no backend configured".
func New(cfg *config.Config) (Client, error) {
	switch cfg.AI.Provider {
	case "enterprise":
		if cfg.AI.Enterprise.APIKey == "" {
			return nil, &ProviderError{Provider: "enterprise", Err: fmt.Errorf("ENTERPRISE_AI_KEY is not set")}
		}
		return newEnterpriseClient(cfg.AI.Enterprise), nil
	default:
		if cfg.AI.Anthropic.APIKey == "" {
			return nil, &ProviderError{Provider: "anthropic", Err: fmt.Errorf("ANTHROPIC_API_KEY is not set")}
		}
		return newAnthropicClient(cfg.AI.Anthropic.APIKey), nil
	}
}
