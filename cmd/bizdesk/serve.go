package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	v1 "bizdesk/internal/infrastructure/http/v1"
	"bizdesk/internal/infrastructure/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API and the overdue-invoice scheduler",
	Example: `  # Serve on the configured port
  bizdesk serve

  # Serve with demo data
  BIZDESK_SEED_DEMO=true bizdesk serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("demo", false, "seed demo data before serving (same as BIZDESK_SEED_DEMO)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log := cli.cfg, cli.log.WithComponent("server")
	demo, _ := cmd.Flags().GetBool("demo")

	a, err := newApp(cmd, demo || cfg.Seed.Demo)
	if err != nil {
		return err
	}

	sched := scheduler.New(a.Documents, cli.log)
	if err := sched.Start(cfg.Scheduler.OverdueSpec); err != nil {
		return err
	}
	defer sched.Stop()

	router := v1.NewRouter(v1.RouterConfig{
		App:    a,
		Logger: cli.log,
		Debug:  cfg.Log.Development,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", server.Addr, "base_currency", a.Formatter.Base(),
			"assistant", cfg.Assistant.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Infow("server stopped")
	return nil
}
