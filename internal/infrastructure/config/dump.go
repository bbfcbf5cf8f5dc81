package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const redacted = "****"

// Redacted returns a copy with secrets masked.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}
	c.LLM.APIKey = mask(c.LLM.APIKey)
	c.LLM.OpenAIAPIKey = mask(c.LLM.OpenAIAPIKey)
	c.LLM.OpenRouterAPIKey = mask(c.LLM.OpenRouterAPIKey)
	c.LLM.AnthropicAPIKey = mask(c.LLM.AnthropicAPIKey)
	c.Search.GoogleAPIKey = mask(c.Search.GoogleAPIKey)
	return c
}

// YAML renders the redacted configuration.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
