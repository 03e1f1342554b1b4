package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/config"
	"github.com/scbrown/hiitfit/internal/history"
	"github.com/scbrown/hiitfit/internal/metrics"
	"github.com/scbrown/hiitfit/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server exposing the exercise history",
	Long: `Start an HTTP server that owns the history file and exposes it as a
JSON API at /api/v1/. Exercises can be recorded with POST /api/v1/records
and the day, week and stats views are available as GET endpoints.

Prometheus metrics are served at /metrics, a health check at /api/v1/health
and the persistence status at /api/v1/status.

While the server runs, other hf commands should not modify the same history
file.`,
	Example: `  # Start on the configured or default address
  hf serve

  # Start on a custom address with a specific history file
  hf serve --addr :9090 --history /srv/hiitfit/history.bin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr()
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New("hf", reg)

		s := openStore(history.WithMetrics(m))
		srv := server.New(s, server.WithLogger(log), server.WithMetrics(m, reg))

		// Listen first so we can report the actual address.
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}

		fmt.Fprintf(os.Stderr, "hf serve listening on %s (history %s)\n", ln.Addr(), s.Path())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(ln)
		}()

		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "shutting down...")
			return srv.Shutdown(context.Background())
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (host:port); defaults to serve_addr or "+config.DefaultServeAddr)
	rootCmd.AddCommand(serveCmd)
}
