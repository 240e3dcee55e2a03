package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress (and optionally the journal)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		withJournal, _ := cmd.Flags().GetBool("journal")
		if !yes {
			return fmt.Errorf("this erases progress, XP and badges; re-run with --yes to confirm")
		}

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		defer withConsoleToasts(c, cmd.ErrOrStderr())()

		c.progress.Reset(ctx)
		if withJournal {
			if err := c.journal.Clear(ctx); err != nil {
				return fmt.Errorf("clear journal: %w", err)
			}
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("journal", false, "Also delete every journal entry")
}
