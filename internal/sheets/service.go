// Package sheets exports the delivery note history to a Google Sheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"albaranes/internal/compose"
	"albaranes/internal/logger"
	"albaranes/pkg/models"
)

// ErrMissingCredentials is returned when no service account is configured.
var ErrMissingCredentials = errors.New("neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set")

// columns of the export, A to J.
var columns = []string{
	"Número", "Fecha", "Cliente", "NIF", "Productos",
	"Subtotal", "IVA", "Total", "Precios ocultos", "Observaciones",
}

var lastColumn = string(rune('A' + len(columns) - 1))

// Exporter appends delivery notes to a spreadsheet.
type Exporter struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewExporter creates an exporter for the spreadsheet at sheetURL using the
// service account from the environment.
func NewExporter(ctx context.Context, sheetURL string) (*Exporter, error) {
	const op = "NewExporter"

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingCredentials)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return NewExporterWithDeps(sheetsService, spreadsheetID), nil
}

// NewExporterWithDeps creates an exporter around an existing service.
func NewExporterWithDeps(svc *sheets.Service, spreadsheetID string) *Exporter {
	return &Exporter{
		sheetsService: svc,
		spreadsheetID: spreadsheetID,
		log:           logger.WithComponent("sheets"),
	}
}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// ExportHistory appends one row per note to sheetName, creating the sheet
// and its header row when missing.
func (e *Exporter) ExportHistory(ctx context.Context, notes []models.DeliveryNote, sheetName string) (int, error) {
	const op = "ExportHistory"

	e.log.Info().
		Str("sheet", sheetName).
		Int("rows", len(notes)).
		Msg("Exporting history to Google Sheet")

	if len(notes) == 0 {
		return 0, nil
	}

	if err := e.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return 0, fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	values := make([][]interface{}, len(notes))
	for i, note := range notes {
		values[i] = noteToValues(note)
	}

	_, err := e.sheetsService.Spreadsheets.Values.Append(
		e.spreadsheetID,
		fmt.Sprintf("%s!A:%s", sheetName, lastColumn),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	e.log.Info().Int("rows_written", len(values)).Msg("History exported")
	return len(values), nil
}

// noteToValues flattens a note into one sheet row.
func noteToValues(note models.DeliveryNote) []interface{} {
	products := make([]string, 0, len(note.Items))
	for _, item := range note.Items {
		products = append(products, fmt.Sprintf("%s x%s", item.Product, compose.FormatQuantity(item.Quantity)))
	}

	hidden := "No"
	if note.HidePrices {
		hidden = "Sí"
	}

	return []interface{}{
		note.Number,                   // A
		compose.FormatDate(note.Date), // B
		note.Customer.Name,            // C
		note.Customer.TaxID,           // D
		strings.Join(products, "; "),  // E
		note.Subtotal,                 // F
		note.TaxAmount,                // G
		note.Total,                    // H
		hidden,                        // I
		note.Notes,                    // J
	}
}

func (e *Exporter) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := e.sheetsService.Spreadsheets.Get(e.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		e.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		resp, err := e.sheetsService.Spreadsheets.BatchUpdate(e.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetName}}},
			},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
			sheetID = resp.Replies[0].AddSheet.Properties.SheetId
		}
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", sheetName, lastColumn)
	resp, err := e.sheetsService.Spreadsheets.Values.Get(e.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	e.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	_, err = e.sheetsService.Spreadsheets.Values.Update(
		e.spreadsheetID,
		headerRange,
		&sheets.ValueRange{Values: [][]interface{}{header}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to add headers: %w", op, err)
	}

	if err := e.formatHeaders(ctx, sheetID); err != nil {
		e.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
	}
	return nil
}

// formatHeaders makes the header row bold and sizes the columns.
func (e *Exporter) formatHeaders(ctx context.Context, sheetID int64) error {
	n := int64(len(columns))
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   n,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   n,
				},
			},
		},
	}

	_, err := e.sheetsService.Spreadsheets.BatchUpdate(e.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("formatHeaders: %w", err)
	}
	return nil
}
