package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/progress"
)

var lessonCmd = &cobra.Command{
	Use:     "lesson",
	Aliases: []string{"lessons"},
	Short:   "Browse lessons and record progress",
}

var statusIcons = map[progress.Status]string{
	progress.StatusLocked:     "🔒",
	progress.StatusInProgress: "▶",
	progress.StatusComplete:   "✔",
}

var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the lessons with their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		st := c.progress.Progress(ctx)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-4s  %-2s  %-44s  %-11s  %s\n", "ID", "", "Title", "Status", "Badge")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, id := range progress.LessonIDs {
			title, badge := id, ""
			if l, ok := c.catalog.Lesson(id); ok {
				title = l.Title
				if len(title) > 44 {
					title = title[:41] + "..."
				}
				badge = l.Badge
			}
			status := st.LessonStatus[id]
			fmt.Fprintf(out, "%-4s  %-2s  %-44s  %-11s  %s\n", id, statusIcons[status], title, status, badge)
		}

		sum := c.progress.LessonProgress(ctx)
		fmt.Fprintf(out, "\n%d/%d complete\n", sum.Completed, sum.Total)
		return nil
	},
}

var lessonShowCmd = &cobra.Command{
	Use:   "show <lesson>",
	Short: "Show a lesson's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		id := strings.ToUpper(args[0])
		l, ok := c.catalog.Lesson(id)
		if !ok {
			return fmt.Errorf("%w: %s", progress.ErrUnknownLesson, args[0])
		}
		teacherView, _ := cmd.Flags().GetBool("teacher")

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s  %s\n", l.Emoji, l.ID, l.Title)
		fmt.Fprintf(out, "Status: %s\n", c.progress.Progress(ctx).LessonStatus[id])
		if l.TimeMinutes > 0 {
			fmt.Fprintf(out, "Time:   %d minutes\n", l.TimeMinutes)
		}
		if len(l.Subjects) > 0 {
			fmt.Fprintf(out, "Topics: %s\n", strings.Join(l.Subjects, ", "))
		}
		if l.LearningIntention != "" {
			fmt.Fprintf(out, "\nWe are learning to %s\n", l.LearningIntention)
		}
		if l.Student.Intro != "" {
			fmt.Fprintf(out, "\n%s\n", l.Student.Intro)
		}
		for i, a := range l.Student.Activities {
			fmt.Fprintf(out, "  %d. %s\n", i+1, a)
		}

		if teacherView {
			t := l.Teacher
			fmt.Fprintln(out, "\nTeacher notes")
			if t.LearningObjective != "" {
				fmt.Fprintf(out, "  Objective: %s\n", t.LearningObjective)
			}
			for _, s := range t.SuccessCriteria {
				fmt.Fprintf(out, "  • %s\n", s)
			}
			if len(t.NCAlignment) > 0 {
				fmt.Fprintf(out, "  Curriculum: %s\n", strings.Join(t.NCAlignment, "; "))
			}
		}

		if entries := c.journal.ByLesson(ctx, id); len(entries) > 0 {
			fmt.Fprintf(out, "\n%d journal entries for this lesson\n", len(entries))
		}
		return nil
	},
}

var lessonStartCmd = &cobra.Command{
	Use:   "start <lesson>",
	Short: "Start a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		defer withConsoleToasts(c, cmd.ErrOrStderr())()

		id := strings.ToUpper(args[0])
		st, err := c.learn.Start(ctx, id)
		if err != nil {
			return fmt.Errorf("start %s: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s (XP %d)\n", id, st.LessonStatus[id], st.XP)
		return nil
	},
}

var lessonFinishCmd = &cobra.Command{
	Use:   "finish <lesson>",
	Short: "Finish a lesson with a reflection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reflection, _ := cmd.Flags().GetString("reflection")
		facts, _ := cmd.Flags().GetStringArray("fact")

		ctx := cmd.Context()
		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		defer withConsoleToasts(c, cmd.ErrOrStderr())()

		id := strings.ToUpper(args[0])
		out, err := c.learn.Finish(ctx, id, learn.Reflection{Facts: facts, Reflection: reflection})
		if err != nil {
			return fmt.Errorf("finish %s: %w", id, err)
		}

		w := cmd.OutOrStdout()
		comp := out.Completion
		fmt.Fprintf(w, "%s complete: +%d XP (total %d)\n", id, comp.XPAwarded, comp.XP)
		if comp.StreakBonus > 0 {
			fmt.Fprintf(w, "Streak bonus: +%d XP (%d weeks)\n", comp.StreakBonus, comp.Streak)
		}
		if out.NewBadge && out.Badge != nil {
			fmt.Fprintf(w, "Badge earned: %s %s\n", out.Badge.Icon, out.Badge.Title)
		}
		switch {
		case out.AllComplete:
			fmt.Fprintln(w, "Every lesson is complete. Well done!")
		case comp.Next != "":
			fmt.Fprintf(w, "Next up: %s\n", comp.Next)
		}
		return nil
	},
}

func init() {
	lessonShowCmd.Flags().Bool("teacher", false, "Include teacher notes")
	lessonFinishCmd.Flags().String("reflection", "", "What you learned")
	lessonFinishCmd.Flags().StringArray("fact", nil, "A fact you discovered (repeatable)")

	lessonCmd.AddCommand(lessonListCmd, lessonShowCmd, lessonStartCmd, lessonFinishCmd)
}
