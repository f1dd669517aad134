// Package albaran is the editing boundary of the delivery note tool. It
// validates drafts, issues numbered notes, renders them and keeps the
// customer directory, the company header and the history in the store.
package albaran

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"albaranes/internal/compose"
	"albaranes/internal/config"
	"albaranes/internal/logger"
	"albaranes/internal/render"
	"albaranes/internal/store"
	"albaranes/internal/suggest"
	"albaranes/pkg/models"
)

// MaxLogoSize is the largest accepted logo, in bytes.
const MaxLogoSize = 1 << 20

// Renderer turns a composed document into bytes.
type Renderer interface {
	Render(doc *compose.Document) ([]byte, error)
}

// Rendered is a note materialized as a PDF.
type Rendered struct {
	Filename string
	PDF      []byte
	Pages    int
	// Warnings lists parts left out of the document, such as a broken logo.
	Warnings []string
}

// Service orchestrates the editing operations.
type Service struct {
	repo      *store.Repository
	composer  *compose.Composer
	renderer  Renderer
	suggester *suggest.Suggester
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, used for dates and numbering.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSuggester enables note suggestions.
func WithSuggester(sg *suggest.Suggester) Option {
	return func(s *Service) { s.suggester = sg }
}

// NewService creates the service with dependencies from cfg. Suggestions
// are enabled only when an OpenAI key is configured.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	const op = "NewService"

	kv, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open store: %w", op, err)
	}

	repo := store.NewRepository(kv)

	var renderOpts []render.Option
	if header, err := repo.Header(ctx); err == nil && header.Name != "" {
		renderOpts = append(renderOpts, render.WithAuthor(header.Name))
	}
	renderer := render.NewPDFRenderer(renderOpts...)

	var opts []Option
	if cfg.HasOpenAI() {
		gen, err := suggest.NewOpenAIGenerator(cfg)
		if err != nil {
			kv.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		opts = append(opts, WithSuggester(suggest.NewSuggester(gen)))
	}

	return NewServiceWithDeps(repo, compose.New(renderer), renderer, opts...), nil
}

// NewServiceWithDeps creates the service from explicit dependencies.
func NewServiceWithDeps(repo *store.Repository, composer *compose.Composer, renderer Renderer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		composer: composer,
		renderer: renderer,
		now:      time.Now,
		log:      logger.WithComponent("albaran"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the store.
func (s *Service) Close() error {
	return s.repo.Close()
}

// CanSuggest reports whether note suggestions are available.
func (s *Service) CanSuggest() bool {
	return s.suggester != nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.repo.Customers(ctx)
}

// SearchCustomers matches term against name and tax id, ignoring case.
func (s *Service) SearchCustomers(ctx context.Context, term string) ([]models.Customer, error) {
	customers, err := s.repo.Customers(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return customers, nil
	}

	var matches []models.Customer
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.TaxID), term) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (s *Service) Customer(ctx context.Context, id string) (models.Customer, error) {
	customers, err := s.repo.Customers(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	idx := slices.IndexFunc(customers, func(c models.Customer) bool { return c.ID == id })
	if idx < 0 {
		return models.Customer{}, fmt.Errorf("%w: %q", ErrCustomerNotFound, id)
	}
	return customers[idx], nil
}

// SaveCustomer creates the customer when c.ID is empty and updates the
// existing entry otherwise. Issued notes keep their own copy.
func (s *Service) SaveCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	const op = "SaveCustomer"

	if err := ValidateCustomer(c); err != nil {
		return models.Customer{}, err
	}
	customers, err := s.repo.Customers(ctx)
	if err != nil {
		return models.Customer{}, fmt.Errorf("%s: %w", op, err)
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
		customers = append(customers, c)
	} else {
		idx := slices.IndexFunc(customers, func(e models.Customer) bool { return e.ID == c.ID })
		if idx < 0 {
			return models.Customer{}, fmt.Errorf("%s: %w: %q", op, ErrCustomerNotFound, c.ID)
		}
		customers[idx] = c
	}

	if err := s.repo.SaveCustomers(ctx, customers); err != nil {
		return models.Customer{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info().Str("customer_id", c.ID).Str("name", c.Name).Msg("Customer saved")
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	const op = "DeleteCustomer"

	customers, err := s.repo.Customers(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	idx := slices.IndexFunc(customers, func(c models.Customer) bool { return c.ID == id })
	if idx < 0 {
		return fmt.Errorf("%s: %w: %q", op, ErrCustomerNotFound, id)
	}

	if err := s.repo.SaveCustomers(ctx, slices.Delete(customers, idx, idx+1)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info().Str("customer_id", id).Msg("Customer deleted")
	return nil
}

func (s *Service) Header(ctx context.Context) (models.CompanyHeader, error) {
	return s.repo.Header(ctx)
}

// UpdateHeader replaces the text fields of the header. The logo is kept;
// use SetLogo and RemoveLogo for it.
func (s *Service) UpdateHeader(ctx context.Context, h models.CompanyHeader) (models.CompanyHeader, error) {
	current, err := s.repo.Header(ctx)
	if err != nil {
		return models.CompanyHeader{}, fmt.Errorf("UpdateHeader: %w", err)
	}
	h.Logo = current.Logo
	if err := s.repo.SaveHeader(ctx, h); err != nil {
		return models.CompanyHeader{}, fmt.Errorf("UpdateHeader: %w", err)
	}
	return h, nil
}

// SetLogo attaches an image to the header. An empty format is detected from
// the image data. Oversized images are refused and leave the header as is.
func (s *Service) SetLogo(ctx context.Context, data []byte, format string) error {
	const op = "SetLogo"

	if len(data) > MaxLogoSize {
		return fmt.Errorf("%s: %w: %d bytes, limit %d", op, ErrLogoTooLarge, len(data), MaxLogoSize)
	}
	if len(data) == 0 {
		return fmt.Errorf("%s: %w: empty file", op, models.ErrInvalidLogo)
	}
	if format == "" {
		_, detected, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w: %v", op, models.ErrInvalidLogo, err)
		}
		format = detected
	}

	header, err := s.repo.Header(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	header.Logo = models.EncodeLogo(format, data)
	if err := s.repo.SaveHeader(ctx, header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().Str("format", format).Int("bytes", len(data)).Msg("Logo updated")
	return nil
}

func (s *Service) RemoveLogo(ctx context.Context) error {
	header, err := s.repo.Header(ctx)
	if err != nil {
		return fmt.Errorf("RemoveLogo: %w", err)
	}
	header.Logo = ""
	return s.repo.SaveHeader(ctx, header)
}

// History returns the issued notes, newest first.
func (s *Service) History(ctx context.Context) ([]models.DeliveryNote, error) {
	return s.repo.History(ctx)
}

// SearchHistory matches term against customer name, number, and the
// product and lot of every item, ignoring case.
func (s *Service) SearchHistory(ctx context.Context, term string) ([]models.DeliveryNote, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return history, nil
	}

	contains := func(field string) bool { return strings.Contains(strings.ToLower(field), term) }
	var matches []models.DeliveryNote
	for _, note := range history {
		hit := contains(note.Customer.Name) || contains(note.Number)
		for _, item := range note.Items {
			hit = hit || contains(item.Product) || contains(item.Lot)
		}
		if hit {
			matches = append(matches, note)
		}
	}
	return matches, nil
}

// FindNote looks a note up by id or number.
func (s *Service) FindNote(ctx context.Context, ref string) (models.DeliveryNote, error) {
	history, err := s.repo.History(ctx)
	if err != nil {
		return models.DeliveryNote{}, err
	}
	idx := findNote(history, ref)
	if idx < 0 {
		return models.DeliveryNote{}, fmt.Errorf("%w: %q", ErrNoteNotFound, ref)
	}
	return history[idx], nil
}

func findNote(history []models.DeliveryNote, ref string) int {
	return slices.IndexFunc(history, func(n models.DeliveryNote) bool {
		return n.ID == ref || n.Number == ref
	})
}

// DeleteNote removes a note, by id or number, permanently.
func (s *Service) DeleteNote(ctx context.Context, ref string) error {
	const op = "DeleteNote"

	history, err := s.repo.History(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	idx := findNote(history, ref)
	if idx < 0 {
		return fmt.Errorf("%s: %w: %q", op, ErrNoteNotFound, ref)
	}
	number := history[idx].Number

	if err := s.repo.SaveHistory(ctx, slices.Delete(history, idx, idx+1)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info().Str("number", number).Msg("Delivery note deleted")
	return nil
}

// CreateNote validates the draft, issues the note, renders it and prepends
// it to the history. Nothing is stored when validation or rendering fails.
// Rendering and the history write are separate steps; a failed write after
// a successful render returns the rendered document along with the error.
func (s *Service) CreateNote(ctx context.Context, d *Draft) (models.DeliveryNote, *Rendered, error) {
	const op = "CreateNote"

	if err := ValidateDraft(d); err != nil {
		return models.DeliveryNote{}, nil, err
	}

	customer, err := s.Customer(ctx, d.CustomerID)
	if err != nil {
		return models.DeliveryNote{}, nil, NewValidationError("customerId", err.Error())
	}
	header, err := s.repo.Header(ctx)
	if err != nil {
		return models.DeliveryNote{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	history, err := s.repo.History(ctx)
	if err != nil {
		return models.DeliveryNote{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	note, err := Issue(d, customer, header, history, s.now())
	if err != nil {
		return models.DeliveryNote{}, nil, err
	}

	rendered, err := s.RenderNote(note)
	if err != nil {
		return models.DeliveryNote{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveHistory(ctx, append([]models.DeliveryNote{note}, history...)); err != nil {
		return note, rendered, fmt.Errorf("%s: note rendered but not stored: %w", op, err)
	}

	noteLog := logger.WithNote("albaran", note.Number)
	noteLog.Info().
		Str("customer", note.Customer.Name).
		Int("items", len(note.Items)).
		Float64("total", note.Total).
		Int("pages", rendered.Pages).
		Msg("Delivery note issued")

	return note, rendered, nil
}

// RenderNote composes and renders a note without touching the store.
func (s *Service) RenderNote(note models.DeliveryNote) (*Rendered, error) {
	const op = "RenderNote"

	doc, err := s.composer.Compose(&note)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pdf, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Rendered{
		Filename: doc.Filename,
		PDF:      pdf,
		Pages:    len(doc.Pages),
		Warnings: doc.Warnings,
	}, nil
}

// SuggestNotes asks for a note for the draft's customer and products. On
// success the draft notes are replaced; on failure they stay untouched and
// the error is returned.
func (s *Service) SuggestNotes(ctx context.Context, d *Draft) (string, error) {
	if s.suggester == nil {
		return d.Notes, ErrSuggestionsDisabled
	}
	customer, err := s.Customer(ctx, d.CustomerID)
	if err != nil {
		return d.Notes, NewValidationError("customerId", "no customer selected")
	}

	text, err := s.suggester.Suggest(ctx, customer, d.Items, d.Notes)
	if err != nil {
		return d.Notes, err
	}
	d.Notes = text
	return text, nil
}

// LoadSampleData replaces the customers and the history with demo data
// issued under the current header.
func (s *Service) LoadSampleData(ctx context.Context) error {
	const op = "LoadSampleData"

	header, err := s.repo.Header(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SaveCustomers(ctx, SampleCustomers()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SaveHistory(ctx, SampleHistory(header)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().Msg("Sample data loaded")
	return nil
}

func (s *Service) Theme(ctx context.Context) (string, error) {
	return s.repo.Theme(ctx)
}

func (s *Service) SetTheme(ctx context.Context, theme string) error {
	return s.repo.SaveTheme(ctx, strings.ToLower(strings.TrimSpace(theme)))
}
