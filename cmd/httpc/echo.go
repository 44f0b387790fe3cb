package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/adamwoolhether/httpc/internal/echo"
)

func newEchoCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "echo",
		Short: "Serve the echo service until interrupted",
		Long: `Serve the echo service on a TCP address. Routes:

  /anything[/...]     echo the request as JSON
  /headers            echo only the header lines
  GET /status/{code}  reply with the given status
  GET /delay/{ms}     echo the request after a pause`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger(cmd)

			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

			h, err := echo.New(echo.WithLogger(log))
			if err != nil {
				return fmt.Errorf("building handler: %w", err)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "echo listening on http://%s\n", ln.Addr())

			return echo.Serve(ctx, ln, h, log)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "Address to listen on")

	return cmd
}
