package main

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

	"github.com/five82/vastavik/internal/logging"
	"github.com/five82/vastavik/internal/stub"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "vastavik-stub: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		demo     bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "vastavik-stub",
		Short: "Local stand-in for the deepfake analysis service",
		Long: `vastavik-stub serves /analyze/ and /download-report/ for local use and
testing. Results are derived from a hash of the upload; --demo answers every
request with the fixed sample result instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), addr, demo, logLevel)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "always return the sample result")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

func serve(ctx context.Context, addr string, demo bool, logLevel string) error {
	logger, closer, err := logging.New(logging.Options{Level: logLevel, Stderr: true})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithField("component", "stub")

	srv := &http.Server{
		Addr:         addr,
		Handler:      stub.NewRouter(stub.Options{Demo: demo, Log: log}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
