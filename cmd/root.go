package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursematch/internal/config"
	"github.com/abhisek/coursematch/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "coursematch",
	Short: "Adaptive college course assessment",
	Long: "CourseMatch walks a student through an adaptive assessment and recommends " +
		"the college courses that fit their interests and strengths.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides COURSEMATCH_DB)")
	flags.String("service-url", "", "Base URL of the assessment service (overrides COURSEMATCH_SERVICE_URL)")
	flags.Int64("user", 0, "User ID to run the assessment for (overrides COURSEMATCH_USER_ID)")
	flags.Int("max-questions", 0, "Maximum number of rounds (overrides COURSEMATCH_MAX_QUESTIONS)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides COURSEMATCH_LOG_LEVEL)")

	rootCmd.Flags().Bool("skip-welcome", false, "Start on the home screen")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(serveMockCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := flags.GetString("service-url"); v != "" {
		cfg.ServiceURL = v
	}
	if v, _ := flags.GetInt64("user"); v != 0 {
		cfg.UserID = v
	}
	if v, _ := flags.GetInt("max-questions"); v != 0 {
		cfg.MaxQuestions = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, then the default
// XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
