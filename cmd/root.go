package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/algoquest/internal/config"
	"github.com/abhisek/algoquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "algoquest",
	Short: "Watch sorting and searching algorithms step by step",
	Long: "AlgoQuest is a terminal playground that animates classic sorting and searching\n" +
		"algorithms, with tutorials, coding challenges and achievements.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ALGOQUEST_DB env var)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ALGOQUEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
