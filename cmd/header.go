package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"albaranes/internal/logger"
)

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Show or edit the company header printed on every note",
}

var headerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the company header",
	Args:  cobra.NoArgs,
	RunE:  runHeaderShow,
}

var headerSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Update the given header fields",
	Example: `  albaranes header set --name "Mi Empresa SL" --tax-id A87654321`,
	Args:    cobra.NoArgs,
	RunE:    runHeaderSet,
}

var headerLogoCmd = &cobra.Command{
	Use:   "logo [image-file]",
	Short: "Attach a logo (PNG, JPEG or GIF, up to 1MB)",
	Long: `Attach a logo to the company header. The format is taken from --format,
or detected from the image. Images over 1MB are refused and the header
is left unchanged.`,
	Example: `  albaranes header logo logo.png`,
	Args:    cobra.ExactArgs(1),
	RunE:    runHeaderLogo,
}

var headerRemoveLogoCmd = &cobra.Command{
	Use:   "remove-logo",
	Short: "Remove the logo",
	Args:  cobra.NoArgs,
	RunE:  runHeaderRemoveLogo,
}

func init() {
	rootCmd.AddCommand(headerCmd)
	headerCmd.AddCommand(headerShowCmd, headerSetCmd, headerLogoCmd, headerRemoveLogoCmd)

	headerSetCmd.Flags().String("name", "", "Company name")
	headerSetCmd.Flags().String("address", "", "Company address")
	headerSetCmd.Flags().String("tax-id", "", "NIF/CIF")
	headerSetCmd.Flags().String("phone", "", "Phone number")
	headerSetCmd.Flags().String("email", "", "Email address")

	headerLogoCmd.Flags().String("format", "", "Image format (png, jpeg, gif); detected when empty")
}

func runHeaderShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("header")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	h, err := svc.Header(ctx)
	if err != nil {
		return handleError(err, log)
	}

	logo := "none"
	if h.HasLogo() {
		logo = fmt.Sprintf("attached (%d bytes encoded)", len(h.Logo))
	}
	fmt.Printf("Name:    %s\nAddress: %s\nNIF:     %s\nPhone:   %s\nEmail:   %s\nLogo:    %s\n",
		h.Name, h.Address, h.TaxID, h.Phone, h.Email, logo)
	return nil
}

func runHeaderSet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("header")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	h, err := svc.Header(ctx)
	if err != nil {
		return handleError(err, log)
	}
	applyString(cmd, "name", &h.Name)
	applyString(cmd, "address", &h.Address)
	applyString(cmd, "tax-id", &h.TaxID)
	applyString(cmd, "phone", &h.Phone)
	applyString(cmd, "email", &h.Email)

	if _, err := svc.UpdateHeader(ctx, h); err != nil {
		return handleError(err, log)
	}
	fmt.Println("Header updated")
	return nil
}

func runHeaderLogo(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("header")
	format, _ := cmd.Flags().GetString("format")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read logo: %w", err)
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".png":
			format = "png"
		case ".jpg", ".jpeg":
			format = "jpeg"
		case ".gif":
			format = "gif"
		}
	}

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.SetLogo(ctx, data, format); err != nil {
		return handleError(err, log)
	}
	fmt.Println("Logo updated")
	return nil
}

func runHeaderRemoveLogo(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("header")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.RemoveLogo(ctx); err != nil {
		return handleError(err, log)
	}
	fmt.Println("Logo removed")
	return nil
}
