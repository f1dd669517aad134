package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"albaranes/internal/config"
	"albaranes/internal/logger"
)

const systemPrompt = "Eres un asistente que redacta notas breves y cordiales para albaranes de entrega de una empresa española."

// OpenAIConfig configures the OpenAI generator.
type OpenAIConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIGenerator implements TextGenerator with the chat completion API.
// One request per call, no retry.
type OpenAIGenerator struct {
	client *openai.Client
	config OpenAIConfig
	log    zerolog.Logger
}

// NewOpenAIGenerator builds a generator from the application config.
func NewOpenAIGenerator(cfg *config.Config) (*OpenAIGenerator, error) {
	const op = "NewOpenAIGenerator"

	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingAPIKey)
	}

	return NewOpenAIGeneratorWithDeps(openai.NewClient(cfg.OpenAIAPIKey), OpenAIConfig{
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
	}), nil
}

// NewOpenAIGeneratorWithDeps builds a generator around an existing client.
func NewOpenAIGeneratorWithDeps(client *openai.Client, cfg OpenAIConfig) *OpenAIGenerator {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	return &OpenAIGenerator{
		client: client,
		config: cfg,
		log:    logger.WithComponent("openai"),
	}
}

// ComposeText sends prompt as the user message and returns the first choice.
func (g *OpenAIGenerator) ComposeText(ctx context.Context, prompt string) (string, error) {
	const op = "ComposeText"

	g.log.Debug().Str("model", g.config.Model).Msg("Requesting note suggestion")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Temperature: g.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: g.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: chat completion failed: %w", op, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptySuggestion)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptySuggestion)
	}

	g.log.Info().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("Note suggestion received")

	return text, nil
}
