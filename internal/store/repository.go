package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"albaranes/internal/logger"
	"albaranes/pkg/models"
)

// Themes accepted by SaveTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultCustomers is the directory used until one is saved.
func DefaultCustomers() []models.Customer {
	return []models.Customer{{
		ID:      "1",
		Name:    "Cliente de Prueba SL",
		Address: "Calle Mayor 1, Madrid",
		TaxID:   "B12345678",
		Email:   "info@cliente.com",
		Phone:   "912345678",
	}}
}

// DefaultHeader is the company header used until one is saved.
func DefaultHeader() models.CompanyHeader {
	return models.CompanyHeader{
		Name:    "Mi Empresa SL",
		Address: "Polígono Industrial Las Mercedes, Nave 4",
		TaxID:   "A87654321",
		Phone:   "912344556",
		Email:   "facturacion@miempresa.com",
	}
}

// Repository gives typed access to the four persisted collections.
type Repository struct {
	kv  KV
	log zerolog.Logger
}

// NewRepository wraps a KV backend.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv, log: logger.WithComponent("repository")}
}

// Close closes the underlying backend.
func (r *Repository) Close() error {
	return r.kv.Close()
}

// Customers returns the customer directory.
func (r *Repository) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	found, err := r.load(ctx, KeyCustomers, &customers)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultCustomers(), nil
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// SaveCustomers replaces the customer directory.
func (r *Repository) SaveCustomers(ctx context.Context, customers []models.Customer) error {
	if customers == nil {
		customers = []models.Customer{}
	}
	return r.save(ctx, KeyCustomers, customers)
}

// History returns the issued notes, newest first.
func (r *Repository) History(ctx context.Context) ([]models.DeliveryNote, error) {
	var history []models.DeliveryNote
	if _, err := r.load(ctx, KeyHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.DeliveryNote{}
	}
	return history, nil
}

// SaveHistory replaces the history. Callers keep newest-first order.
func (r *Repository) SaveHistory(ctx context.Context, history []models.DeliveryNote) error {
	if history == nil {
		history = []models.DeliveryNote{}
	}
	return r.save(ctx, KeyHistory, history)
}

// Header returns the company header.
func (r *Repository) Header(ctx context.Context) (models.CompanyHeader, error) {
	var header models.CompanyHeader
	found, err := r.load(ctx, KeyCompanyHeader, &header)
	if err != nil {
		return models.CompanyHeader{}, err
	}
	if !found {
		return DefaultHeader(), nil
	}
	return header, nil
}

// SaveHeader replaces the company header.
func (r *Repository) SaveHeader(ctx context.Context, header models.CompanyHeader) error {
	return r.save(ctx, KeyCompanyHeader, header)
}

// Theme returns the stored theme, light by default.
func (r *Repository) Theme(ctx context.Context) (string, error) {
	var theme string
	found, err := r.load(ctx, KeyTheme, &theme)
	if err != nil {
		return "", err
	}
	if !found || theme == "" {
		return ThemeLight, nil
	}
	return theme, nil
}

// SaveTheme stores the theme. Only light and dark are accepted.
func (r *Repository) SaveTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("SaveTheme: %w: unsupported theme %q", ErrInvalidValue, theme)
	}
	return r.save(ctx, KeyTheme, theme)
}

func (r *Repository) load(ctx context.Context, key string, v any) (bool, error) {
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, wrapError("load", key, err)
	}
	if !found {
		r.log.Debug().Str("key", key).Msg("Key not stored yet, using default")
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		r.log.Error().Err(err).Str("key", key).Msg("Stored value cannot be decoded")
		return false, wrapError("load", key, fmt.Errorf("%w: %v", ErrCorruptValue, err))
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return wrapError("save", key, err)
	}
	if err := r.kv.Set(ctx, key, string(data)); err != nil {
		return wrapError("save", key, err)
	}
	r.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Collection saved")
	return nil
}
