// Package suggest drafts the free-text notes of a delivery note with a
// language model. A suggestion only ever replaces the notes when it succeeds;
// any failure leaves the current text in place.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"albaranes/internal/logger"
	"albaranes/pkg/models"
)

// TextGenerator turns a prompt into text.
type TextGenerator interface {
	ComposeText(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt asks for a short thank-you note for the customer and the
// products on the note.
func BuildPrompt(customerName string, products []string) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	if customerName == "" {
		customerName = "un cliente"
	}

	return fmt.Sprintf(
		"Escribe una breve nota profesional de agradecimiento personalizada para un albarán. "+
			"El cliente es %s. Los productos son: %s. Limítate a 2 frases en español.",
		customerName, strings.Join(names, ", "))
}

// Suggester produces note suggestions.
type Suggester struct {
	gen TextGenerator
	log zerolog.Logger
}

// NewSuggester wraps a generator.
func NewSuggester(gen TextGenerator) *Suggester {
	return &Suggester{gen: gen, log: logger.WithComponent("suggest")}
}

// Suggest returns a generated note. On failure it returns current unchanged
// together with the error.
func (s *Suggester) Suggest(ctx context.Context, customer models.Customer, items []models.LineItem, current string) (string, error) {
	const op = "Suggest"

	if s == nil || s.gen == nil {
		return current, fmt.Errorf("%s: %w", op, ErrNoGenerator)
	}

	products := make([]string, len(items))
	for i, item := range items {
		products[i] = item.Product
	}

	text, err := s.gen.ComposeText(ctx, BuildPrompt(customer.Name, products))
	if err != nil {
		s.log.Warn().Err(err).Str("customer", customer.Name).Msg("Note suggestion failed, keeping current notes")
		return current, fmt.Errorf("%s: %w", op, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return current, fmt.Errorf("%s: %w", op, ErrEmptySuggestion)
	}

	s.log.Debug().Str("customer", customer.Name).Int("chars", len(text)).Msg("Note suggested")
	return text, nil
}
