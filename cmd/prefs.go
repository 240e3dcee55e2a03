package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/naturepower/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		p := c.prefs.All(ctx)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tab             %s\n", p.PreferredTab)
		fmt.Fprintf(out, "read-aloud      %t\n", p.ReadAloud)
		fmt.Fprintf(out, "high-contrast   %t\n", p.HighContrast)
		fmt.Fprintf(out, "reduced-motion  %t\n", p.ReducedMotion)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Set tab (student|teacher) or a flag (read-aloud, high-contrast, reduced-motion)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		name, value := args[0], args[1]
		if name == "tab" {
			return c.prefs.SetPreferredTab(ctx, prefs.Tab(value))
		}
		f, err := prefs.ParseFlag(name)
		if err != nil {
			return err
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", name, value)
		}
		c.prefs.SetEnabled(ctx, f, on)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd)
}
