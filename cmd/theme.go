package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"albaranes/internal/logger"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the stored UI theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("theme")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if len(args) == 1 {
		if err := svc.SetTheme(ctx, args[0]); err != nil {
			return handleError(err, log)
		}
	}

	theme, err := svc.Theme(ctx)
	if err != nil {
		return handleError(err, log)
	}
	fmt.Println(theme)
	return nil
}
