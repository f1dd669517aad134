package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"albaranes/internal/compose"
	"albaranes/internal/logger"
	"albaranes/internal/render"
	"albaranes/pkg/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, re-render and delete issued delivery notes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued notes, newest first",
	Long: `List issued delivery notes, newest first. --search matches the customer
name, the note number and the product and lot of every item.`,
	Example: `  albaranes history list --search L24-05`,
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id-or-number]",
	Short: "Print a note as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRenderCmd = &cobra.Command{
	Use:     "render [id-or-number]",
	Short:   "Render an issued note to PDF again",
	Example: `  albaranes history render ALB-2024-0001 -o ./pdf`,
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryRender,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id-or-number]",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRenderCmd, historyDeleteCmd)

	historyListCmd.Flags().StringP("search", "s", "", "Filter by customer, number, product or lot")
	historyListCmd.Flags().Bool("json", false, "Print as JSON")
	historyRenderCmd.Flags().StringP("output", "o", "", "Output directory (default: OUTPUT_DIR)")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")
	search, _ := cmd.Flags().GetString("search")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	notes, err := svc.SearchHistory(ctx, search)
	if err != nil {
		return handleError(err, log)
	}

	if asJSON {
		if notes == nil {
			notes = []models.DeliveryNote{}
		}
		return printJSON(notes)
	}
	if len(notes) == 0 {
		fmt.Println("No delivery notes found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tDATE\tCUSTOMER\tITEMS\tTOTAL")
	for _, n := range notes {
		total := compose.FormatMoney(n.Total)
		if n.HidePrices {
			total = "(oculto)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", n.Number, compose.FormatDate(n.Date), n.Customer.Name, len(n.Items), total)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	note, err := svc.FindNote(ctx, args[0])
	if err != nil {
		return handleError(err, log)
	}
	return printJSON(note)
}

func runHistoryRender(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, cfg, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	note, err := svc.FindNote(ctx, args[0])
	if err != nil {
		return handleError(err, log)
	}
	rendered, err := svc.RenderNote(note)
	if err != nil {
		return handleError(err, log)
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
	fmt.Printf("%s rendered to %s (%d pages)\n", note.Number, path, rendered.Pages)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.DeleteNote(ctx, args[0]); err != nil {
		return handleError(err, log)
	}
	fmt.Printf("Delivery note %s deleted\n", args[0])
	return nil
}
