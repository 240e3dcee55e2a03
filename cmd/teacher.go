package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var teacherCmd = &cobra.Command{
	Use:   "teacher",
	Short: "Class overview, exports and reports",
}

var teacherStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the class headline numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		st := c.teacher.Stats(ctx)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Students              %d\n", st.TotalStudents)
		fmt.Fprintf(out, "Completed activities  %d\n", st.CompletedActivities)
		fmt.Fprintf(out, "Gallery items         %d\n", st.GalleryItems)
		fmt.Fprintf(out, "Journal entries       %d\n", st.JournalEntries)
		fmt.Fprintf(out, "Lesson completion     %d%%\n", st.LessonCompletion)
		return nil
	},
}

var teacherExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all class data as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		data, err := c.teacher.Export(ctx)
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), path, data)
	},
}

var teacherReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a spreadsheet report of journal and gallery activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")
		if path == "" || path == "-" {
			return fmt.Errorf("report needs --output")
		}
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		data, err := c.teacher.Report(ctx)
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), path, data)
	},
}

func init() {
	teacherExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	teacherReportCmd.Flags().StringP("output", "o", "nature-power-report.xlsx", "Report file")

	teacherCmd.AddCommand(teacherStatsCmd, teacherExportCmd, teacherReportCmd)
}
