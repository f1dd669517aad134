package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"albaranes/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "albaranes",
	Short: "Albaranes - delivery notes from the command line",
	Long: `Albaranes keeps a customer directory and a company header, issues
numbered delivery notes (albaranes) with dynamic columns and optional
prices, renders them to PDF and keeps a searchable history.

Data is stored in the backend selected with STORE_BACKEND (file, redis,
sqlite or memory).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			logger.Disable()
		}
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int("timeout", 60, "Timeout in seconds")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Disable logging")
}
