// Package anthropic implements the query synthesizer against the Anthropic
// messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/mimicry-ai/mimic/internal/provider"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-sonnet-latest"

// Queries are short; this caps the completion, not the grounding text.
const maxQueryTokens = 1024

// Config contains configuration for the Anthropic synthesizer.
type Config struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Synthesizer calls the Anthropic API to generate user queries.
type Synthesizer struct {
	name   string
	client *anthropic.Client
	config *Config
}

// New creates an Anthropic-backed synthesizer. The API key falls back to the
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

	if config.APIKey == "" {
		config.APIKey = APIKeyFromEnv()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required (set ANTHROPIC_API_KEY)")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
		option.WithHTTPClient(&http.Client{
			Timeout: config.Timeout,
		}),
	)

	return &Synthesizer{
		name:   "anthropic",
		client: &client,
		config: config,
	}, nil
}

// Synthesize asks the model for the user query that would have produced
// responseText, given the persona.
func (s *Synthesizer) Synthesize(ctx context.Context, persona, responseText string) (string, error) {
	response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: maxQueryTokens,
		System:    []anthropic.TextBlockParam{{Text: provider.QueryPrompt(persona)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(responseText)),
		},
	}, option.WithRequestTimeout(s.config.Timeout))
	if err != nil {
		return "", &provider.ServiceError{Provider: s.name, Model: s.config.Model, Err: err}
	}

	var sb strings.Builder
	for _, block := range response.Content {
		switch block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", &provider.ServiceError{
			Provider: s.name,
			Model:    s.config.Model,
			Err:      fmt.Errorf("message contained no text content"),
		}
	}

	log.Debug().
		Str("model", s.config.Model).
		Int64("input_tokens", response.Usage.InputTokens).
		Int64("output_tokens", response.Usage.OutputTokens).
		Msg("Anthropic completion finished")

	return strings.TrimSpace(sb.String()), nil
}

// Name returns the provider name.
func (s *Synthesizer) Name() string {
	return s.name
}

// ListModels fetches the models available from the Anthropic API.
func (s *Synthesizer) ListModels(ctx context.Context) ([]provider.Info, error) {
	models, err := s.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	infos := make([]provider.Info, len(models.Data))
	for i, model := range models.Data {
		infos[i] = provider.Info{
			ID:        model.ID,
			Name:      model.DisplayName,
			Provider:  s.name,
			CreatedAt: model.CreatedAt.Format(time.RFC3339),
		}
	}

	return infos, nil
}

// Close cleans up resources.
func (s *Synthesizer) Close() error {
	return nil
}

func defaultConfig() *Config {
	config := &Config{
		BaseURL: "https://api.anthropic.com",
		Model:   DefaultModel,
		Timeout: 60 * time.Second,
	}

	if baseURL := os.Getenv("MIMIC_ANTHROPIC_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	return config
}

// APIKeyFromEnv retrieves the Anthropic API key from the environment.
func APIKeyFromEnv() string {
	envVars := []string{
		"ANTHROPIC_API_KEY",
		"ANTHROPIC_KEY",
	}

	for _, envVar := range envVars {
		if apiKey := os.Getenv(envVar); apiKey != "" {
			return apiKey
		}
	}

	return ""
}
