package llm

import (
	"errors"
	"testing"

	"accountintel/internal/config"
)

func TestNew_MissingCredential(t *testing.T) {
	cfg := &config.Config{}
	cfg.AI.Provider = "anthropic"

	client, err := New(cfg)
	if err == nil {
		t.Fatal("Expected error when no API key is configured")
	}
	if client != nil {
		t.Error("Expected nil client on credential error")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}
	if provErr.Provider != "anthropic" {
		t.Errorf("Expected provider anthropic, got %s", provErr.Provider)
	}
}

func TestNew_EnterpriseMissingCredential(t *testing.T) {
	cfg := &config.Config{}
	cfg.AI.Provider = "enterprise"

	if _, err := New(cfg); err == nil {
		t.Fatal("Expected error when ENTERPRISE_AI_KEY is not set")
	}
}

func TestEnterpriseClient_ResolveModel(t *testing.T) {
	// The configured model id wins for every logical name, including the
	// well-known ones.
	c := newEnterpriseClient(config.EnterpriseConfig{
		APIKey:   "test-key",
		Endpoint: "https://internal.example.com/chat-ai",
		Model:    "gpt-5.1-custom",
	})

	tests := []struct {
		logical string
		want    string
	}{
		{ModelFast, "gpt-5.1-custom"},
		{ModelQuality, "gpt-5.1-custom"},
		{"", "gpt-5.1-custom"},
		{"some-unknown-model", "gpt-5.1-custom"},
	}
	for _, tt := range tests {
		if got := c.resolveModel(tt.logical); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.logical, got, tt.want)
		}
	}
}
