package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursematch/internal/results"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved assessment results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.UserID == 0 {
			return errors.New("no user: pass --user or set COURSEMATCH_USER_ID")
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ResultRepo().List(cmd.Context(), cfg.UserID, limit)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No saved results.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-7s  %-7s  %s\n", "ID", "Completed", "User", "Courses", "Top match")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range rows {
			top := r.TopCourse
			if len(top) > 36 {
				top = top[:36]
			}
			fmt.Printf("%-5d  %-19s  %-7d  %-7d  %s\n",
				r.ID,
				r.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				r.UserID,
				r.CourseCount,
				top,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved result and its session steps",
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

		sep := strings.Repeat("─", 60)
		fmt.Printf("Session:    %s\n", rec.SessionID())
		fmt.Printf("Completed:  %s\n", rec.CompletedAt().Local().Format("2006-01-02 15:04:05"))
		if c, ok := rec.Confidence(); ok {
			fmt.Printf("Confidence: %.0f%%\n", c)
		}

		if traits := rec.TraitSummary(); len(traits) > 0 {
			parts := make([]string, 0, len(traits))
			for _, t := range traits {
				parts = append(parts, fmt.Sprintf("%s (%d)", t.Name, t.Count))
			}
			fmt.Printf("Traits:     %s\n", strings.Join(parts, ", "))
		}

		fmt.Println()
		fmt.Println(sep)
		for i, c := range rec.Courses() {
			fmt.Printf("%2d. %-44s %5.1f%%\n", i+1, c.Name, c.Score)
		}
		fmt.Println(sep)

		events, err := st.EventRepo().SessionEvents(ctx, rec.SessionID())
		if err != nil {
			return fmt.Errorf("load session events: %w", err)
		}
		if len(events) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Printf("%-4s  %-8s  %-9s  %-5s  %-10s  %s\n", "Seq", "Time", "Action", "Round", "Question", "Option")
		for _, e := range events {
			fmt.Printf("%-4d  %-8s  %-9s  %-5d  %-10s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("15:04:05"),
				e.Action,
				e.Round,
				e.QuestionID,
				e.OptionID,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of results to show")
	historyCmd.AddCommand(historyShowCmd)
}
