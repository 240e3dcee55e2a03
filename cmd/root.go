package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/naturepower/internal/config"
	"github.com/abhisek/naturepower/internal/logging"
)

var (
	v   = config.New()
	cfg config.Config
	log = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "naturepower",
	Short: "Nature Power learning companion",
	Long: "Nature Power tracks a learner's progress through a ten-lesson nature unit:\n" +
		"lessons, XP, weekly streaks, badges and a learning journal.\n\n" +
		"Run without a subcommand to open the terminal app.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(v, file)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Log.Mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default: naturepower.yaml in the data dir)")
	pf.String("data", "", "Data directory (overrides NATUREPOWER_DATA)")
	pf.String("backend", "", "Storage backend: memory, file, sqlite or redis")
	pf.String("log", "", "Log mode: dev or prod")
	pf.String("catalog", "", "Directory with lessons/badges/glossary files overriding the built-in catalog")

	bindFlag("store.dir", "data")
	bindFlag("store.backend", "backend")
	bindFlag("log.mode", "log")
	bindFlag("catalog.dir", "catalog")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(teacherCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(serveCmd)
}
