package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show the badge board",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(out, c.badges.Board(ctx))
		}

		for _, s := range c.badges.Board(ctx) {
			mark, when := "  ", ""
			if s.Earned {
				mark = "✔ "
				if s.EarnedAt != nil {
					when = s.EarnedAt.Local().Format("Jan 2")
				}
			}
			fmt.Fprintf(out, "%s%s %-24s %-8s %s\n", mark, s.Badge.Icon, s.Badge.Title, when, s.Badge.Caption)
		}
		st := c.badges.Stats(ctx)
		fmt.Fprintf(out, "\n%d/%d earned (%d%%)\n", st.Earned, st.Total, st.Percentage)
		if next, ok := c.badges.Next(ctx); ok {
			fmt.Fprintf(out, "Next: %s %s\n", next.Icon, next.Title)
		}
		return nil
	},
}

func init() {
	badgesCmd.Flags().Bool("json", false, "Print as JSON")
}
