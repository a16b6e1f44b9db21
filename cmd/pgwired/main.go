package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pgwire/pgwire"
	"github.com/pgwire/pgwire/protocol"
)

var (
	listenAddr  string
	metricsAddr string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "pgwired",
	Short: "pgwired serves a fixed in-memory table over the PostgreSQL wire protocol",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&listenAddr, "listen", pgwire.DefaultAddress, "address to listen on")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve /metrics on (disabled if empty)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := pgwire.NewLogger(os.Stderr, logLevel)
	metrics := pgwire.NewMetrics(prometheus.DefaultRegisterer)

	srv := &pgwire.Server{
		Adapter: demoAdapter(),
		Log:     log,
		Metrics: metrics,
	}
	if err := srv.Listen(listenAddr); err != nil {
		return err
	}
	log.Info().Str("addr", srv.Addr().String()).Msg("listening")

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		log.Info().Str("addr", metricsAddr).Msg("serving metrics")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// demoAdapter exposes a tiny fixed "greeting" table so pgwired is useful
// out of the box against any PostgreSQL client.
func demoAdapter() pgwire.Adapter {
	fields := []protocol.FieldDescriptor{
		{Name: "id", TypeOID: protocol.Int4OID, TypeSize: 4, FormatCode: protocol.BinaryFormat},
		{Name: "message", TypeOID: protocol.TextOID, TypeSize: -1, FormatCode: protocol.TextFormat},
	}
	rows := []protocol.Row{
		{protocol.Int32Value(1), protocol.TextValue("hello from pgwired")},
	}
	return pgwire.NewStaticAdapter("greeting", fields, rows)
}
