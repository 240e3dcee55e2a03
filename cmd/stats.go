package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		asJSON, _ := cmd.Flags().GetBool("json")
		ps := c.progress.Stats(ctx)
		sum := c.progress.LessonProgress(ctx)
		bs := c.badges.Stats(ctx)
		js := c.journal.Stats(ctx)

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, map[string]any{
				"progress": ps,
				"lessons":  sum,
				"badges":   bs,
				"journal":  js,
			})
		}

		fmt.Fprintf(out, "Lessons   %d/%d complete (%d%%)\n", sum.Completed, sum.Total, sum.Percentage)
		if sum.Current != "" {
			fmt.Fprintf(out, "Current   %s\n", sum.Current)
		}
		fmt.Fprintf(out, "XP        %d\n", ps.XP)
		fmt.Fprintf(out, "Streak    %d week(s)\n", ps.Streak)
		fmt.Fprintf(out, "Badges    %d/%d\n", bs.Earned, bs.Total)
		fmt.Fprintf(out, "Journal   %d entries\n", js.TotalEntries)
		if ps.LastVisit != nil {
			fmt.Fprintf(out, "Last seen %s\n", ps.LastVisit.Local().Format("Mon Jan 2 15:04"))
		}
		fmt.Fprintln(out, strings.Repeat("─", 32))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print as JSON")
}
