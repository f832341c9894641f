package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pie-flavor/yahtzee/internal/archive"
	"github.com/pie-flavor/yahtzee/internal/config"
	"github.com/pie-flavor/yahtzee/internal/tracker"
)

func newScorecardCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "scorecard <id>",
		Short: "Print an archived scorecard as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := tracker.ParseID(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			arch, closeArchive, err := openArchive(cfg())
			if err != nil {
				return err
			}
			defer closeArchive()

			card, err := arch.Load(cmd.Context(), id)
			if errors.Is(err, archive.ErrNotFound) {
				return fmt.Errorf("%s: %w", id, tracker.ErrScorecardNotFound)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(card)
		},
	}
}

func newScorecardsCmd(cfg func() *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scorecards",
		Short: "List the most recently archived scorecards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			arch, closeArchive, err := openArchive(cfg())
			if err != nil {
				return err
			}
			defer closeArchive()

			lister, ok := arch.(archive.Lister)
			if !ok {
				return fmt.Errorf("archive backend %q cannot list", cfg().ArchiveBackend)
			}
			rows, err := lister.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTOTAL\tARCHIVED")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", r.ID, r.Total, r.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", archive.DefaultListLimit, "maximum rows")
	return cmd
}
