package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/naturepower/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Read, export and import the learning journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		lesson, _ := cmd.Flags().GetString("lesson")
		query, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		var entries []journal.Entry
		switch {
		case lesson != "" && query != "":
			return fmt.Errorf("use --lesson or --search, not both")
		case lesson != "":
			entries = c.journal.ByLesson(ctx, strings.ToUpper(lesson))
		case query != "":
			entries = c.journal.Search(ctx, query)
		default:
			entries = c.journal.Entries(ctx)
		}
		entries = journal.SortByNewest(entries)
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s  %-4s  %-36s  %s\n", "Date", "Less", "Title", "ID")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range entries {
			title := e.Title
			if title == "" {
				title = e.Content()
			}
			if len(title) > 36 {
				title = title[:33] + "..."
			}
			fmt.Fprintf(out, "%-16s  %-4s  %-36s  %s\n",
				e.Time().Local().Format("2006-01-02 15:04"), e.LessonID, title, e.ID)
		}
		fmt.Fprintf(out, "\n%d entries\n", len(entries))
		return nil
	},
}

// exportJournal renders the journal in one of json, xlsx, csv (timeline)
// or profile-csv.
func exportJournal(ctx context.Context, j *journal.Service, format string) ([]byte, error) {
	switch format {
	case "", "json":
		return j.ExportJSON(ctx)
	case "xlsx":
		return j.ExportXLSX(ctx)
	}
	layout, err := journal.ParseLayout(format)
	if err != nil {
		return nil, err
	}
	return j.ExportCSV(ctx, layout)
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal as json, csv, profile-csv or xlsx",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("output")
		if format == "xlsx" && (path == "" || path == "-") {
			return fmt.Errorf("xlsx export needs --output")
		}

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		data, err := exportJournal(ctx, c.journal, format)
		if err != nil {
			return fmt.Errorf("export journal: %w", err)
		}
		return writeOut(cmd.OutOrStdout(), path, data)
	},
}

var journalImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge entries from a JSON export (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			payload []byte
			err     error
		)
		if args[0] == "-" {
			payload, err = io.ReadAll(cmd.InOrStdin())
		} else {
			payload, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.journal.ImportJSON(ctx, payload)
		if err != nil {
			return fmt.Errorf("import journal: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
		return nil
	},
}

var journalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every journal entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes every journal entry; re-run with --yes to confirm")
		}
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		return c.journal.Clear(ctx)
	},
}

func init() {
	journalListCmd.Flags().String("lesson", "", "Only entries for this lesson (e.g. L3)")
	journalListCmd.Flags().String("search", "", "Only entries containing this text")
	journalListCmd.Flags().Int("limit", 0, "Show at most this many entries")
	journalExportCmd.Flags().String("format", "json", "json, csv, profile-csv or xlsx")
	journalExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	journalClearCmd.Flags().Bool("yes", false, "Confirm the deletion")

	journalCmd.AddCommand(journalListCmd, journalExportCmd, journalImportCmd, journalClearCmd)
}
