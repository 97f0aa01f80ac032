package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatmtl/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openrouter"`
	Model    string `env:"LLM_MODEL" envDefault:"google/gemma-3-27b-it:free"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c, err := ParseLLMConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func ParseLLMConfig() (*LLMConfig, error) {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}
