package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursematch/internal/results"
)

var adviseCmd = &cobra.Command{
	Use:   "advise <result-id>",
	Short: "Ask the LLM advisor to explain a saved result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

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

		ctx := cmd.Context()
		rec, err := results.Load(ctx, st.ResultRepo(), id)
		if err != nil {
			return err
		}

		adv, err := newAdvisor(ctx, st.EventRepo(), logger)
		if err != nil {
			return err
		}
		if adv == nil {
			return errors.New("no LLM provider configured: set COURSEMATCH_LLM_PROVIDER or a vendor API key such as GEMINI_API_KEY")
		}

		fmt.Println("Asking the advisor...")
		advice, err := adv.Explain(ctx, rec)
		if err != nil {
			return err
		}

		sep := strings.Repeat("─", 60)
		fmt.Println(sep)
		fmt.Println(advice.Headline)
		fmt.Println(sep)
		fmt.Println(advice.Summary)
		if len(advice.NextSteps) > 0 {
			fmt.Println()
			fmt.Println("Next steps:")
			for _, s := range advice.NextSteps {
				fmt.Printf("  • %s\n", s)
			}
		}
		if len(advice.Caveats) > 0 {
			fmt.Println()
			fmt.Println("Keep in mind:")
			for _, c := range advice.Caveats {
				fmt.Printf("  • %s\n", c)
			}
		}
		return nil
	},
}
