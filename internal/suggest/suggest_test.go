package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albaranes/internal/config"
	"albaranes/pkg/models"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (s *stubGenerator) ComposeText(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Frutas Norte SL", []string{"Tomate", "", " Lechuga "})

	assert.Contains(t, prompt, "El cliente es Frutas Norte SL.")
	assert.Contains(t, prompt, "Los productos son: Tomate, Lechuga.")
	assert.True(t, strings.HasSuffix(prompt, "Limítate a 2 frases en español."))
}

func TestSuggestReturnsGeneratedText(t *testing.T) {
	gen := &stubGenerator{text: "  Gracias por su confianza.  "}
	s := NewSuggester(gen)

	got, err := s.Suggest(context.Background(),
		models.Customer{Name: "Cliente de Prueba SL"},
		[]models.LineItem{{Product: "Tomate"}},
		"previo")

	require.NoError(t, err)
	assert.Equal(t, "Gracias por su confianza.", got)
	assert.Contains(t, gen.prompt, "Tomate")
}

func TestSuggestKeepsNotesOnFailure(t *testing.T) {
	boom := errors.New("network down")
	s := NewSuggester(&stubGenerator{err: boom})

	got, err := s.Suggest(context.Background(), models.Customer{}, nil, "texto actual")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "texto actual", got)

	s = NewSuggester(&stubGenerator{text: "   "})
	got, err = s.Suggest(context.Background(), models.Customer{}, nil, "texto actual")
	assert.ErrorIs(t, err, ErrEmptySuggestion)
	assert.Equal(t, "texto actual", got)

	got, err = NewSuggester(nil).Suggest(context.Background(), models.Customer{}, nil, "x")
	assert.ErrorIs(t, err, ErrNoGenerator)
	assert.Equal(t, "x", got)
}

func newTestServer(t *testing.T, content string, calls *int) *openai.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestOpenAIGenerator(t *testing.T) {
	calls := 0
	gen := NewOpenAIGeneratorWithDeps(newTestServer(t, "Gracias por su pedido.", &calls), OpenAIConfig{})

	text, err := gen.ComposeText(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "Gracias por su pedido.", text)
	assert.Equal(t, 1, calls)
}

func TestOpenAIGeneratorEmptyAnswer(t *testing.T) {
	calls := 0
	gen := NewOpenAIGeneratorWithDeps(newTestServer(t, "", &calls), OpenAIConfig{})

	_, err := gen.ComposeText(context.Background(), "hola")
	assert.ErrorIs(t, err, ErrEmptySuggestion)
	assert.Equal(t, 1, calls, "no retry on empty answers")
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator(&config.Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewOpenAIGeneratorUsesConfig(t *testing.T) {
	gen, err := NewOpenAIGenerator(&config.Config{
		OpenAIAPIKey:      "test-key",
		OpenAIModel:       "gpt-4o",
		OpenAITemperature: 0.2,
		OpenAIMaxTokens:   350,
	})
	require.NoError(t, err)
	assert.Equal(t, OpenAIConfig{Model: "gpt-4o", Temperature: 0.2, MaxTokens: 350}, gen.config)

	assert.Equal(t, 200, NewOpenAIGeneratorWithDeps(nil, OpenAIConfig{}).config.MaxTokens)
}
