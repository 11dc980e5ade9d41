package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursematch/internal/adaptive"
	"github.com/abhisek/coursematch/internal/advisor"
	"github.com/abhisek/coursematch/internal/app"
	"github.com/abhisek/coursematch/internal/assessment"
	"github.com/abhisek/coursematch/internal/config"
	"github.com/abhisek/coursematch/internal/llm"
	"github.com/abhisek/coursematch/internal/logging"
	"github.com/abhisek/coursematch/internal/profile"
	"github.com/abhisek/coursematch/internal/selfupdate"
	"github.com/abhisek/coursematch/internal/store"
)

func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	nav := newNavigator(cfg, st.EventRepo(), logger)
	defer nav.Close()

	opts := app.Options{
		Navigator:    nav,
		Results:      st.ResultRepo(),
		UserID:       cfg.UserID,
		MaxQuestions: cfg.MaxQuestions,
		ProfileURL:   cfg.ProfileCompletionURL,
		CheckUpdate:  checkUpdate,
		Logger:       logger,
	}
	opts.SkipWelcome, _ = cmd.Flags().GetBool("skip-welcome")

	if adv, err := newAdvisor(cmd.Context(), st.EventRepo(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: advisor unavailable: %v\n", err)
	} else if adv != nil {
		opts.Advisor = adv
	}

	logger.Info("starting",
		"version", version,
		"service_url", cfg.ServiceURL,
		"user_id", cfg.UserID,
		"max_questions", cfg.MaxQuestions)

	return app.Run(opts)
}

func setupLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	logger, closeFn, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Path:   cfg.LogFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, closeFn, nil
}

func newNavigator(cfg config.Config, events store.EventRepo, logger *slog.Logger) *assessment.Navigator {
	client := adaptive.WithLogging(
		adaptive.NewHTTPClient(cfg.ServiceURL, adaptive.WithTimeout(cfg.RequestTimeout)),
		events, logger)

	var checker profile.Checker
	if !cfg.SkipProfileCheck {
		checker = profile.NewHTTPChecker(cfg.ProfileBaseURL(), cfg.RequestTimeout)
	}

	return assessment.NewNavigator(client,
		assessment.WithBootstrap(assessment.NewBootstrap(checker)),
		assessment.WithTransitionDelay(cfg.TransitionDelay),
		assessment.WithEventRepo(events),
		assessment.WithLogger(logger))
}

// newAdvisor returns nil, nil when no LLM provider is configured.
func newAdvisor(ctx context.Context, events store.EventRepo, logger *slog.Logger) (*advisor.Advisor, error) {
	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	llmCfg, ok := llm.DiscoverConfig(llmCfg)
	if !ok {
		return nil, nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, events, logger)
	if err != nil {
		return nil, err
	}
	advCfg := advisor.DefaultConfig()
	advCfg.Timeout = llmCfg.Timeout
	return advisor.New(provider, advCfg), nil
}

func checkUpdate(ctx context.Context) (*selfupdate.CheckResult, error) {
	checker := selfupdate.NewChecker(selfupdate.WithTimeout(5 * time.Second))
	return checker.Check(ctx, &selfupdate.CheckInput{Version: version})
}
