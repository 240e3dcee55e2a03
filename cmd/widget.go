package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/naturepower/internal/widgets"
	"github.com/abhisek/naturepower/internal/widgets/circuit"
	"github.com/abhisek/naturepower/internal/widgets/citizenship"
	"github.com/abhisek/naturepower/internal/widgets/design"
	"github.com/abhisek/naturepower/internal/widgets/houses"
	"github.com/abhisek/naturepower/internal/widgets/plates"
	"github.com/abhisek/naturepower/internal/widgets/shade"
	"github.com/abhisek/naturepower/internal/widgets/weather"
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Run the lesson widgets from the command line",
}

// saveFinding stores f in the journal and reports the new entry.
func saveFinding(cmd *cobra.Command, f widgets.Finding) error {
	ctx := cmd.Context()
	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	defer withConsoleToasts(c, cmd.ErrOrStderr())()

	e, err := c.journal.Create(ctx, f.Draft())
	if err != nil {
		return fmt.Errorf("save finding: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved to journal as %s\n", e.ID)
	return nil
}

var widgetShadeCmd = &cobra.Command{
	Use:   "shade <percent>",
	Short: "Estimate how much shade cools a roof",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p int
		if _, err := fmt.Sscanf(args[0], "%d", &p); err != nil {
			return fmt.Errorf("percent must be a whole number, got %q", args[0])
		}
		r := shade.Read(p)
		fmt.Fprintln(cmd.OutOrStdout(), r.Announce)
		if r.Band != shade.BandNone {
			fmt.Fprintf(cmd.OutOrStdout(), "Band: %s\n", r.Band)
		}
		if save, _ := cmd.Flags().GetBool("save"); save {
			return saveFinding(cmd, shade.Finding(widgets.ShadeLesson, r.Shade))
		}
		return nil
	},
}

var widgetWeatherCmd = &cobra.Command{
	Use:   "weather [place] [place]",
	Short: "List places or compare the weather of two",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) < 2 {
			for _, p := range weather.Places {
				lo, hi := p.Range()
				fmt.Fprintf(out, "%-12s  %-24s  %-12s  %d..%d°C  %dmm/yr\n", p.Key, p.Name, p.Climate, lo, hi, p.TotalRain())
			}
			return nil
		}

		cmp, err := weather.Compare(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%.1f°C avg) vs %s (%.1f°C avg)\n",
			cmp.First.Name, cmp.First.MeanTemp(), cmp.Second.Name, cmp.Second.MeanTemp())
		for _, in := range cmp.Insights {
			fmt.Fprintf(out, "  • %s\n", in)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			facts, _ := cmd.Flags().GetStringArray("fact")
			facts = append(facts, "", "")
			f, err := cmp.Finding(widgets.WeatherLesson, facts[0], facts[1])
			if err != nil {
				return err
			}
			return saveFinding(cmd, f)
		}
		return nil
	},
}

var widgetDesignCmd = &cobra.Command{
	Use:   "design [feature...]",
	Short: "Score a climate-ready home design",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		m, err := design.Evaluate(args)
		if err != nil {
			names := make([]string, len(design.Effects))
			for i, e := range design.Effects {
				names[i] = e.Name
			}
			return fmt.Errorf("%w (choose from %s)", err, strings.Join(names, ", "))
		}
		for _, f := range args {
			e, _ := design.Lookup(f)
			fmt.Fprintf(out, "  • %s\n", e.Feedback)
		}
		fmt.Fprintf(out, "Cooling %d%% (%s)  Water safety %d%% (%s)\n",
			m.HeatDisplay, m.HeatLevel, m.WaterDisplay, m.WaterLevel)

		if save, _ := cmd.Flags().GetBool("save"); save {
			reason, _ := cmd.Flags().GetString("reason")
			class, _ := cmd.Flags().GetString("class")
			s, err := design.Export(args, reason, class)
			if err != nil {
				return err
			}
			return saveFinding(cmd, s.Finding(widgets.DesignLesson))
		}
		return nil
	},
}

// parsePart reads "type:row,col".
func parsePart(s string) (circuit.Part, error) {
	typ, pos, ok := strings.Cut(s, ":")
	if !ok {
		return circuit.Part{}, fmt.Errorf("part %q: want type:row,col", s)
	}
	p := circuit.Part{Type: typ}
	if _, err := fmt.Sscanf(pos, "%d,%d", &p.Row, &p.Col); err != nil {
		return circuit.Part{}, fmt.Errorf("part %q: want type:row,col", s)
	}
	return p, nil
}

var widgetCircuitCmd = &cobra.Command{
	Use:   "circuit",
	Short: "Check whether a circuit lights the lamp",
	Example: `  naturepower widget circuit --part battery:0,0 --part wire:0,1 --part lamp:0,2
  naturepower widget circuit --board board.json --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := circuit.NewBoard()
		if path, _ := cmd.Flags().GetString("board"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read board: %w", err)
			}
			if err := json.Unmarshal(data, b); err != nil {
				return fmt.Errorf("parse board %s: %w", path, err)
			}
		}
		parts, _ := cmd.Flags().GetStringArray("part")
		for _, s := range parts {
			p, err := parsePart(s)
			if err != nil {
				return err
			}
			if err := b.Place(p.Row, p.Col, p.Type); err != nil {
				return err
			}
		}
		if open, _ := cmd.Flags().GetBool("open"); open {
			b.SwitchClosed = false
		}

		r := b.Evaluate()
		fmt.Fprintln(cmd.OutOrStdout(), r.Message)
		if save, _ := cmd.Flags().GetBool("save"); save {
			f, err := b.Finding(widgets.CircuitLesson)
			if err != nil {
				return err
			}
			return saveFinding(cmd, f)
		}
		return nil
	},
}

var widgetCitizenshipCmd = &cobra.Command{
	Use:   "citizenship [scenario [choice]]",
	Short: "Work through online-safety scenarios and make a golden rules poster",
	Example: `  naturepower widget citizenship strangers
  naturepower widget citizenship strangers 2
  naturepower widget citizenship --save --rule "Be kind online" --class 5A`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		var done []string
		switch len(args) {
		case 0:
			for _, s := range citizenship.Scenarios {
				fmt.Fprintf(out, "%-10s  %s %s\n", s.Key, s.Icon, s.Title)
			}
		case 1:
			s, ok := citizenship.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", citizenship.ErrUnknownScenario, args[0])
			}
			fmt.Fprintf(out, "%s %s\n\n%s\n\n", s.Icon, s.Title, s.Situation)
			for i, c := range s.Choices {
				fmt.Fprintf(out, "  %d. %s\n", i+1, c.Text)
			}
		case 2:
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("choice must be a number, got %q", args[1])
			}
			ans, err := citizenship.Choose(args[0], n-1)
			if err != nil {
				return err
			}
			verdict := "Not quite right."
			if ans.Correct {
				verdict = "Great choice!"
			}
			fmt.Fprintf(out, "%s %s\nGolden rule: %s\n", verdict, ans.Feedback, ans.Rule)
			done = append(done, ans.Scenario)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			rules, _ := cmd.Flags().GetStringArray("rule")
			class, _ := cmd.Flags().GetString("class")
			p, err := citizenship.NewPoster(class, rules, done)
			if err != nil {
				return err
			}
			fmt.Fprint(out, p.Text())
			return saveFinding(cmd, p.Finding(widgets.CitizenshipLesson))
		}
		return nil
	},
}

var widgetPlatesCmd = &cobra.Command{
	Use:   "plates [city...]",
	Short: "Explore earthquake risk near plate boundaries",
	Example: `  naturepower widget plates --magnitude 6.5
  naturepower widget plates tokyo london --ring-of-fire --save --reflection "..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cmd.Flags().Changed("magnitude") {
			m, _ := cmd.Flags().GetFloat64("magnitude")
			im, err := plates.Describe(m)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Magnitude %.1f %s: %s\n", im.Icon, im.Magnitude, im.Level, im.Description)
		}
		if len(args) == 0 {
			if !cmd.Flags().Changed("magnitude") {
				for _, c := range plates.Cities {
					fmt.Fprintf(out, "%-13s  %-26s  risk %s\n", c.Key, c.Name, c.Risk)
				}
			}
			return nil
		}

		ring, _ := cmd.Flags().GetBool("ring-of-fire")
		x, err := plates.Explore(args, ring)
		if err != nil {
			return err
		}
		for _, f := range x.Facts {
			fmt.Fprintf(out, "  • %s\n", f)
		}
		if ring {
			fmt.Fprintf(out, "In the Ring of Fire: %s\n", strings.Join(x.AtRisk(), ", "))
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			reflection, _ := cmd.Flags().GetString("reflection")
			f, err := x.Finding(widgets.PlatesLesson, reflection)
			if err != nil {
				return err
			}
			return saveFinding(cmd, f)
		}
		return nil
	},
}

var widgetHousesCmd = &cobra.Command{
	Use:     "houses [house=feature...]",
	Short:   "Match building features to the climates they suit",
	Example: `  naturepower widget houses tropical=ventilation arctic=insulation desert=thermal-mass --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, h := range houses.Houses {
				fmt.Fprintf(out, "%-9s  %-15s  %s\n", h.Key, h.Name, h.Climate)
			}
			fmt.Fprintln(out)
			for _, f := range houses.Features {
				fmt.Fprintf(out, "%s %-13s  %s\n", f.Icon, f.Key, f.Description)
			}
			return nil
		}

		board := make(map[string]string, len(args))
		for _, a := range args {
			h, f, ok := strings.Cut(a, "=")
			if !ok {
				return fmt.Errorf("match %q: want house=feature", a)
			}
			board[h] = f
		}
		r, err := houses.Score(board)
		if err != nil {
			return err
		}
		for _, m := range r.Matches {
			fmt.Fprintf(out, "  • %s\n", m.Feedback)
			if m.Explanation != "" {
				fmt.Fprintf(out, "    %s\n", m.Explanation)
			}
		}
		fmt.Fprintf(out, "Matched %d of %d\n", r.Correct, len(houses.Houses))

		if save, _ := cmd.Flags().GetBool("save"); save {
			f, err := r.Finding(widgets.HousesLesson)
			if err != nil {
				return err
			}
			return saveFinding(cmd, f)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{
		widgetShadeCmd, widgetWeatherCmd, widgetDesignCmd, widgetCircuitCmd,
		widgetCitizenshipCmd, widgetPlatesCmd, widgetHousesCmd,
	} {
		c.Flags().Bool("save", false, "Save the result to the journal")
	}
	widgetWeatherCmd.Flags().StringArray("fact", nil, "A fact you noticed (give two)")
	widgetDesignCmd.Flags().String("reason", "", "Why you chose these features")
	widgetDesignCmd.Flags().String("class", "", "Class code")
	widgetCircuitCmd.Flags().String("board", "", "JSON board file")
	widgetCircuitCmd.Flags().StringArray("part", nil, "A component as type:row,col (repeatable)")
	widgetCircuitCmd.Flags().Bool("open", false, "Leave the switch open")
	widgetCitizenshipCmd.Flags().StringArray("rule", nil, "A golden rule for the poster (up to three)")
	widgetCitizenshipCmd.Flags().String("class", "", "Class name on the poster")
	widgetPlatesCmd.Flags().Float64("magnitude", 5, "Earthquake magnitude (3 to 8)")
	widgetPlatesCmd.Flags().Bool("ring-of-fire", false, "Show which cities sit in the Ring of Fire")
	widgetPlatesCmd.Flags().String("reflection", "", "What you learned about where earthquakes happen")

	widgetCmd.AddCommand(widgetShadeCmd, widgetWeatherCmd, widgetDesignCmd, widgetCircuitCmd,
		widgetCitizenshipCmd, widgetPlatesCmd, widgetHousesCmd)
}
