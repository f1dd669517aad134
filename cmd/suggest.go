package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"albaranes/internal/albaran"
	"albaranes/internal/logger"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a thank-you note for a customer and products",
	Long: `Ask OpenAI for a short, two-sentence thank-you note in Spanish for the
given customer and products. Requires OPENAI_API_KEY.`,
	Example: `  albaranes suggest --customer 1 --product "Manzanas Golden" --product "Peras"`,
	Args:    cobra.NoArgs,
	RunE:    runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().String("customer", "", "Customer id")
	suggestCmd.Flags().StringArray("product", nil, "Product name (repeatable)")
	_ = suggestCmd.MarkFlagRequired("customer")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("suggest")
	customerID, _ := cmd.Flags().GetString("customer")
	products, _ := cmd.Flags().GetStringArray("product")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	draft := albaran.NewDraft()
	draft.CustomerID = customerID
	for i, p := range products {
		id := draft.Items[0].ID
		if i > 0 {
			id = draft.AddItem().ID
		}
		if err := draft.SetProduct(id, p); err != nil {
			return err
		}
	}

	text, err := svc.SuggestNotes(ctx, draft)
	if err != nil {
		return handleError(err, log)
	}
	fmt.Println(text)
	return nil
}
