package handlers

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"accountintel/internal/logger"
	"accountintel/internal/server"
)

// NewServeCmd creates the serve command for starting the HTTP server.
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP API server",
		Long: `Start the HTTP server exposing the dashboard API: opportunities,
reports, proposal runs, history, intelligence, the context library, and
rendered proposal pages.

Examples:
  accountintel serve
  accountintel serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: localhost)")
	return cmd
}

func runServe(port int, host string) error {
	c, err := buildComponents()
	if err != nil {
		return err
	}
	defer c.close()

	if port != 0 {
		c.cfg.Server.Port = port
	}
	if host != "" {
		c.cfg.Server.Host = host
	}

	srv := server.New(server.Deps{
		Config:        c.cfg,
		Feeds:         c.feeds,
		Opportunities: c.opportunities,
		Reports:       c.reports,
		Scheduler:     c.scheduler,
		History:       c.history,
		Intel:         c.intelLog,
		Contexts:      c.contexts,
		Cache:         c.cache,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
