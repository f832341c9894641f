package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pie-flavor/yahtzee/internal/config"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root without a
// subcommand serves HTTP.
func newRootCmd() *cobra.Command {
	var (
		cfg  *config.Config
		port string
	)

	cmd := &cobra.Command{
		Use:          "yahtzee",
		Short:        "Single-player Yahtzee with a web interface",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				loaded.Port = port
			}
			setupLogging(loaded)
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.AddCommand(
		newServeCmd(func() *config.Config { return cfg }),
		newScorecardCmd(func() *config.Config { return cfg }),
		newScorecardsCmd(func() *config.Config { return cfg }),
	)
	return cmd
}
