package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/handlers"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Configuration comes from the environment and an optional .env file.

Example:
  hrapi serve
  DB_DRIVER=mysql DB_DSN='hr:secret@tcp(localhost:3306)/hr' JWT_SECRET=... hrapi serve --port 9000`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts, port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides PORT")

	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, port string) error {
	a, err := loadApp(ctx, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := a.cfg.Server.Port
	if port != "" {
		addr = ":" + port
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:        a.auth,
		Users:       a.users,
		Leaves:      a.leaves,
		Advances:    a.advances,
		DB:          a.db,
		Logger:      a.logger,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
