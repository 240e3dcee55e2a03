package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/abhisek/naturepower/internal/gallery"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse and moderate the class gallery",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List gallery items",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f gallery.Filter
		f.Type, _ = cmd.Flags().GetString("type")
		f.Query, _ = cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		f.Sort = gallery.Sort(sort)
		f.All, _ = cmd.Flags().GetBool("all")

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		items := c.gallery.List(ctx, f)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-8s  %-32s  %5s  %s\n", "ID", "Type", "Title", "Likes", "State")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, it := range items {
			title := it.Title
			if len(title) > 32 {
				title = title[:29] + "..."
			}
			fmt.Fprintf(out, "%-36s  %-8s  %-32s  %5d  %s\n", it.ID, it.Type, title, it.Likes, itemState(it))
		}
		fmt.Fprintf(out, "\n%d items\n", len(items))
		return nil
	},
}

func itemState(it gallery.Item) string {
	switch {
	case it.Hidden:
		return "hidden"
	case it.Approved:
		return "approved"
	}
	return "pending"
}

var gallerySubmitCmd = &cobra.Command{
	Use:   "submit <title>",
	Short: "Share work with the class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub := gallery.Submission{Title: args[0]}
		sub.Type, _ = cmd.Flags().GetString("type")
		sub.Description, _ = cmd.Flags().GetString("description")
		sub.Class, _ = cmd.Flags().GetString("class")
		sub.Tags, _ = cmd.Flags().GetStringSlice("tag")
		if err := validator.New().Struct(sub); err != nil {
			return fmt.Errorf("invalid submission: %w", err)
		}

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		it, err := c.gallery.Submit(ctx, sub)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s (%s, awaiting approval)\n", it.Title, it.ID)
		return nil
	},
}

type galleryOp func(*gallery.Service, context.Context, string) (gallery.Item, error)

// galleryToggle builds a command that applies op to one item by id.
func galleryToggle(use, short string, op galleryOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			it, err := op(c.gallery, ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (%d likes)\n", it.Title, itemState(it), it.Likes)
			return nil
		},
	}
}

var galleryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		return c.gallery.Delete(ctx, args[0])
	},
}

var galleryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count items by moderation state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		st := c.gallery.Stats(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "Total %d  Approved %d  Pending %d  Hidden %d\n",
			st.Total, st.Approved, st.Pending, st.Hidden)
		return nil
	},
}

var galleryModerationCmd = &cobra.Command{
	Use:   "moderation <on|off>",
	Short: "Turn approval before display on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[0] {
		case "on":
			on = true
		case "off":
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		st := c.gallery.Settings(ctx)
		st.ModerationOn = on
		return c.gallery.SaveSettings(ctx, st)
	},
}

func init() {
	galleryListCmd.Flags().String("type", "", "design, circuit, poster, weather or other")
	galleryListCmd.Flags().String("search", "", "Only items containing this text")
	galleryListCmd.Flags().String("sort", string(gallery.SortNewest), "newest, oldest, popular or alphabetical")
	galleryListCmd.Flags().Bool("all", false, "Include pending and hidden items")
	gallerySubmitCmd.Flags().String("type", "other", "design, circuit, poster, weather or other")
	gallerySubmitCmd.Flags().String("description", "", "What the work shows")
	gallerySubmitCmd.Flags().String("class", "", "Class code")
	gallerySubmitCmd.Flags().StringSlice("tag", nil, "Tags (repeatable or comma separated)")

	galleryCmd.AddCommand(
		galleryListCmd,
		gallerySubmitCmd,
		galleryToggle("approve", "Toggle approval of an item", (*gallery.Service).ToggleApproval),
		galleryToggle("hide", "Toggle whether an item is hidden", (*gallery.Service).ToggleHidden),
		galleryToggle("like", "Toggle your like on an item", (*gallery.Service).Like),
		galleryDeleteCmd,
		galleryStatsCmd,
		galleryModerationCmd,
	)
}
