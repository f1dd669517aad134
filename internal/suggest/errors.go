package suggest

import "errors"

var (
	// ErrEmptySuggestion is returned when the generator answers with no text.
	ErrEmptySuggestion = errors.New("empty suggestion")

	// ErrMissingAPIKey is returned when no OpenAI API key is configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not configured")

	// ErrNoGenerator is returned by a Suggester built without a generator.
	ErrNoGenerator = errors.New("no text generator configured")
)
