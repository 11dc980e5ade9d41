package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursematch/internal/logging"
	"github.com/abhisek/coursematch/internal/mockservice"
)

var serveMockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Run a local mock of the assessment and profile services",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		incomplete, _ := cmd.Flags().GetInt64Slice("incomplete-profile")
		minFraction, _ := cmd.Flags().GetFloat64("min-fraction")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(os.Stderr, logging.Options{Level: level, Format: "text"})

		svc := mockservice.New(mockservice.Options{
			MinFraction:        minFraction,
			IncompleteProfiles: incomplete,
		})
		server := &http.Server{
			Addr:              addr,
			Handler:           mockservice.NewRouter(svc, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("mock service listening", "addr", addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	flags := serveMockCmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.Int64Slice("incomplete-profile", nil, "User IDs whose academic profile is reported incomplete")
	flags.Float64("min-fraction", 0.5, "Fraction of max questions required before finishing early")
}
