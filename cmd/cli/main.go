package main

import (
	"fmt"
	"os"

	"lcdstats/internal/config"
	"lcdstats/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; the environment and defaults still apply
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = logging.Sync()
		os.Exit(1)
	}
	_ = logging.Sync()
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "lcdstats",
		Short:         "Observed vs scrambled LCD enrichment with Fisher exact tests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			return logging.Init(logging.ParseLevel(cfg.Logging.Level))
		},
	}

	rootCmd.AddCommand(
		newCompareCmd(cfg),
		newCorrectCmd(),
	)
	return rootCmd
}
