// Package openai implements the query synthesizer against the OpenAI
// chat-completions API.
package openai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/mimicry-ai/mimic/internal/provider"
)

// DefaultModel matches the model the tool has historically used for query
// generation.
const DefaultModel = "gpt-4-1106-preview"

// Config contains configuration for the OpenAI synthesizer.
type Config struct {
	APIKey     string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Model      string        `yaml:"model" mapstructure:"model"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// Synthesizer calls the OpenAI API to generate user queries.
type Synthesizer struct {
	name   string
	client *openai.Client
	config *Config
}

// New creates an OpenAI-backed synthesizer. The API key falls back to the
// environment when absent from config.
func New(config *Config) (*Synthesizer, error) {
	if config == nil {
		config = &Config{}
	}

	defaults := defaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}

	if config.APIKey == "" {
		config.APIKey = APIKeyFromEnv()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY)")
	}

	client := openai.NewClient(
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
		option.WithMaxRetries(config.MaxRetries),
	)

	return &Synthesizer{
		name:   "openai",
		client: &client,
		config: config,
	}, nil
}

// Synthesize asks the model for the user query that would have produced
// responseText, given the persona.
func (s *Synthesizer) Synthesize(ctx context.Context, persona, responseText string) (string, error) {
	response, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(provider.QueryPrompt(persona)),
			openai.UserMessage(responseText),
		},
		N: openai.Int(1),
	}, option.WithRequestTimeout(s.config.Timeout))
	if err != nil {
		return "", &provider.ServiceError{Provider: s.name, Model: s.config.Model, Err: err}
	}

	if len(response.Choices) == 0 {
		return "", &provider.ServiceError{
			Provider: s.name,
			Model:    s.config.Model,
			Err:      fmt.Errorf("completion returned no choices"),
		}
	}

	log.Debug().
		Str("model", s.config.Model).
		Int64("prompt_tokens", response.Usage.PromptTokens).
		Int64("completion_tokens", response.Usage.CompletionTokens).
		Msg("OpenAI completion finished")

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// Name returns the provider name.
func (s *Synthesizer) Name() string {
	return s.name
}

// ListModels fetches the models available to the configured API key.
func (s *Synthesizer) ListModels(ctx context.Context) ([]provider.Info, error) {
	response, err := s.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]provider.Info, len(response.Data))
	for i, model := range response.Data {
		models[i] = provider.Info{
			ID:          model.ID,
			Name:        model.ID,
			Provider:    s.name,
			CreatedAt:   fmt.Sprintf("%d", model.Created),
			Description: fmt.Sprintf("Model owned by %s", model.OwnedBy),
		}
	}

	return models, nil
}

// Close cleans up resources. The HTTP client holds no persistent connections.
func (s *Synthesizer) Close() error {
	return nil
}

func defaultConfig() *Config {
	config := &Config{
		BaseURL:    "https://api.openai.com/v1",
		Model:      DefaultModel,
		Timeout:    60 * time.Second,
		MaxRetries: 3,
	}

	if baseURL := os.Getenv("MIMIC_OPENAI_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	return config
}

// APIKeyFromEnv retrieves the OpenAI API key from the environment.
func APIKeyFromEnv() string {
	envVars := []string{
		"OPENAI_API_KEY",
		"OPENAI_KEY",
		"OPENAI_TOKEN",
	}

	for _, envVar := range envVars {
		if apiKey := os.Getenv(envVar); apiKey != "" {
			return apiKey
		}
	}

	return ""
}
