package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"albaranes/internal/logger"
	"albaranes/internal/sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Append the delivery note history to a Google Sheet",
	Long: `Append one row per issued delivery note to a worksheet of a Google
Sheet. The worksheet and its header row are created when missing.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Spreadsheet URL (or pass --sheet-url)`,
	Example: `  albaranes export --sheet-url https://docs.google.com/spreadsheets/d/<id>/edit
  albaranes export --worksheet Marzo --search 2024-03`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("sheet-url", "", "Spreadsheet URL (default: GOOGLE_SHEET_URL)")
	exportCmd.Flags().String("worksheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	exportCmd.Flags().StringP("search", "s", "", "Only export notes matching this term")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")
	search, _ := cmd.Flags().GetString("search")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, cfg, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	sheetURL := cfg.GoogleSheetURL
	applyString(cmd, "sheet-url", &sheetURL)
	worksheet := cfg.GoogleSheetWorksheet
	applyString(cmd, "worksheet", &worksheet)
	if sheetURL == "" {
		return fmt.Errorf("no spreadsheet given, set GOOGLE_SHEET_URL or pass --sheet-url")
	}

	notes, err := svc.SearchHistory(ctx, search)
	if err != nil {
		return handleError(err, log)
	}

	exporter, err := sheets.NewExporter(ctx, sheetURL)
	if err != nil {
		if errors.Is(err, sheets.ErrMissingCredentials) {
			return fmt.Errorf("missing Google credentials. Please set one of:\n" +
				"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n" +
				"  GOOGLE_CREDENTIALS='<json-credentials>'")
		}
		return handleError(err, log)
	}

	n, err := exporter.ExportHistory(ctx, notes, worksheet)
	if err != nil {
		return handleError(err, log)
	}
	fmt.Printf("Exported %d delivery notes to worksheet %q\n", n, worksheet)
	return nil
}
