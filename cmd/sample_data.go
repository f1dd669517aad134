package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"albaranes/internal/logger"
)

var sampleDataCmd = &cobra.Command{
	Use:   "sample-data",
	Short: "Replace customers and history with demo data",
	Long: `Load three demo customers and two demo delivery notes. This overwrites
the current customer directory and history; pass --yes to confirm.`,
	Args: cobra.NoArgs,
	RunE: runSampleData,
}

func init() {
	rootCmd.AddCommand(sampleDataCmd)
	sampleDataCmd.Flags().Bool("yes", false, "Confirm overwriting customers and history")
}

func runSampleData(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sample-data")

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return fmt.Errorf("this overwrites your customers and history, run again with --yes to confirm")
	}

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.LoadSampleData(ctx); err != nil {
		return handleError(err, log)
	}
	fmt.Println("Sample customers and delivery notes loaded")
	return nil
}
