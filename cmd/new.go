package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"albaranes/internal/albaran"
	"albaranes/internal/compose"
	"albaranes/internal/logger"
	"albaranes/internal/render"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Issue a new delivery note and render it to PDF",
	Long: `Build a delivery note from flags or from a JSON draft, issue it with the
next number of the year, render the PDF into the output directory and add
it to the history.

Items are given as "product;net weight;lot;quantity;price" followed by
optional "column=value" parts for extra columns. Decimal commas are
accepted.`,
	Example: `  # One item, prices visible
  albaranes new --customer 1 --item "Manzanas Golden;50kg;L24-01;2;1,5"

  # Extra column, hidden prices, notes suggested by OpenAI
  albaranes new --customer 2 --column Pallet \
    --item "Patatas Kennebec;100kg;L24-05;4;0.8;Pallet=EUR-1" \
    --hide-prices --suggest-notes

  # From a saved draft
  albaranes new --from draft.json -o ./pdf`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().String("from", "", "Read the draft from a JSON file")
	newCmd.Flags().String("customer", "", "Customer id")
	newCmd.Flags().StringArray("column", nil, "Extra column name (repeatable)")
	newCmd.Flags().StringArray("item", nil, "Line item \"product;weight;lot;qty;price[;col=value...]\" (repeatable)")
	newCmd.Flags().String("notes", "", "Free text notes")
	newCmd.Flags().Bool("hide-prices", false, "Leave prices and totals out of the document")
	newCmd.Flags().Bool("suggest-notes", false, "Ask OpenAI for the notes text")
	newCmd.Flags().StringP("output", "o", "", "Output directory (default: OUTPUT_DIR)")
	newCmd.Flags().Bool("json", false, "Print the issued note as JSON")
}

func runNew(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("new")

	draft, err := draftFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, cfg, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if suggestNotes, _ := cmd.Flags().GetBool("suggest-notes"); suggestNotes {
		if _, err := svc.SuggestNotes(ctx, draft); err != nil {
			// Keep the current notes and carry on.
			fmt.Fprintf(os.Stderr, "Note suggestion failed, keeping current notes: %v\n", handleError(err, log))
		}
	}

	note, rendered, err := svc.CreateNote(ctx, draft)
	if err != nil {
		if rendered == nil {
			return handleError(err, log)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	path, err := render.WriteFile(outputDir, rendered.Filename, rendered.PDF)
	if err != nil {
		return err
	}
	for _, w := range rendered.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(note)
	}

	fmt.Printf("Delivery note %s issued for %s\n", note.Number, note.Customer.Name)
	if !note.HidePrices {
		fmt.Printf("  Subtotal: %s\n  IVA (%s): %s\n  Total: %s\n",
			compose.FormatMoney(note.Subtotal), compose.FormatPercent(note.TaxRate),
			compose.FormatMoney(note.TaxAmount), compose.FormatMoney(note.Total))
	}
	fmt.Printf("  PDF: %s (%d pages)\n", path, rendered.Pages)
	return nil
}

// draftFromFlags builds the draft from --from and the editing flags.
func draftFromFlags(cmd *cobra.Command) (*albaran.Draft, error) {
	draft := albaran.NewDraft()

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		data, err := os.ReadFile(from)
		if err != nil {
			return nil, fmt.Errorf("failed to read draft: %w", err)
		}
		draft = &albaran.Draft{}
		if err := json.Unmarshal(data, draft); err != nil {
			return nil, fmt.Errorf("failed to parse draft %s: %w", from, err)
		}
		draft.Normalize()
	}

	applyString(cmd, "customer", &draft.CustomerID)
	applyString(cmd, "notes", &draft.Notes)
	if cmd.Flags().Changed("hide-prices") {
		draft.HidePrices, _ = cmd.Flags().GetBool("hide-prices")
	}

	columns, _ := cmd.Flags().GetStringArray("column")
	for _, col := range columns {
		if err := draft.AddColumn(col); err != nil {
			return nil, err
		}
	}

	specs, _ := cmd.Flags().GetStringArray("item")
	if len(specs) > 0 && cmd.Flags().Changed("from") {
		return nil, fmt.Errorf("--item cannot be combined with --from")
	}
	for i, spec := range specs {
		item, err := parseItemSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		id := draft.Items[0].ID
		if i > 0 {
			id = draft.AddItem().ID
		}
		if err := item.apply(draft, id); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return draft, nil
}

type itemSpec struct {
	product, netWeight, lot string
	quantity, price         float64
	fields                  [][2]string
}

// parseItemSpec reads "product;weight;lot;qty;price[;col=value...]".
// Trailing parts may be omitted; quantity defaults to 1.
func parseItemSpec(s string) (itemSpec, error) {
	parts := strings.Split(s, ";")
	spec := itemSpec{quantity: 1}

	get := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	spec.product, spec.netWeight, spec.lot = get(0), get(1), get(2)

	var err error
	if q := get(3); q != "" {
		if spec.quantity, err = parseDecimal(q); err != nil {
			return itemSpec{}, fmt.Errorf("invalid quantity %q", q)
		}
	}
	if p := get(4); p != "" {
		if spec.price, err = parseDecimal(p); err != nil {
			return itemSpec{}, fmt.Errorf("invalid price %q", p)
		}
	}

	for i := 5; i < len(parts); i++ {
		col, value, ok := strings.Cut(parts[i], "=")
		if !ok {
			return itemSpec{}, fmt.Errorf("expected column=value, got %q", parts[i])
		}
		spec.fields = append(spec.fields, [2]string{strings.TrimSpace(col), strings.TrimSpace(value)})
	}
	return spec, nil
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func (s itemSpec) apply(d *albaran.Draft, id string) error {
	if err := d.SetProduct(id, s.product); err != nil {
		return err
	}
	if err := d.SetNetWeight(id, s.netWeight); err != nil {
		return err
	}
	if err := d.SetLot(id, s.lot); err != nil {
		return err
	}
	if err := d.SetQuantity(id, s.quantity); err != nil {
		return err
	}
	if err := d.SetPrice(id, s.price); err != nil {
		return err
	}
	for _, f := range s.fields {
		if err := d.SetField(id, f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}
