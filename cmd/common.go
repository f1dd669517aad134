package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"albaranes/internal/albaran"
	"albaranes/internal/config"
	"albaranes/internal/store"
	"albaranes/internal/suggest"
	"albaranes/pkg/models"
)

// createContext returns a context bounded by --timeout that is also
// canceled on SIGINT/SIGTERM.
func createContext(cmd *cobra.Command, log zerolog.Logger) (context.Context, context.CancelFunc) {
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// openService loads the configuration and opens the store.
func openService(ctx context.Context, log zerolog.Logger) (*albaran.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return nil, nil, fmt.Errorf("invalid configuration, please check your .env file: %w", err)
	}

	svc, err := albaran.NewService(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open service")
		return nil, nil, handleError(err, log)
	}
	return svc, cfg, nil
}

// handleError turns service errors into messages for the user.
func handleError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Operation failed")

	var ve *albaran.ValidationError
	switch {
	case errors.As(err, &ve):
		return fmt.Errorf("invalid %s: %s", ve.Field, ve.Message)
	case errors.Is(err, albaran.ErrLogoTooLarge):
		return fmt.Errorf("the logo is too large, please use an image under 1MB")
	case errors.Is(err, models.ErrInvalidLogo):
		return fmt.Errorf("the logo is not a readable PNG, JPEG or GIF image")
	case errors.Is(err, albaran.ErrCustomerNotFound):
		return fmt.Errorf("customer not found, use 'albaranes customers list' to see the ids")
	case errors.Is(err, albaran.ErrNoteNotFound):
		return fmt.Errorf("delivery note not found, use 'albaranes history list' to see the numbers")
	case errors.Is(err, albaran.ErrSuggestionsDisabled), errors.Is(err, suggest.ErrMissingAPIKey):
		return fmt.Errorf("note suggestions need OPENAI_API_KEY to be set")
	case errors.Is(err, store.ErrCorruptValue):
		return fmt.Errorf("stored data could not be read, the store may be damaged: %w", err)
	case errors.Is(err, store.ErrInvalidValue):
		return fmt.Errorf("%w (use dark or light)", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("operation timed out, try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case strings.Contains(err.Error(), "connection refused"):
		return fmt.Errorf("could not reach the store backend: %w", err)
	default:
		return err
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// applyString copies a flag into dst when it was given.
func applyString(cmd *cobra.Command, flag string, dst *string) {
	if cmd.Flags().Changed(flag) {
		*dst, _ = cmd.Flags().GetString(flag)
	}
}
