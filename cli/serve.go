package cli

import (
	"os/signal"
	"syscall"

	"github.com/chainview/chainview/engine/infra/monitoring"
	"github.com/chainview/chainview/engine/infra/server"
	"github.com/chainview/chainview/engine/service"
	"github.com/chainview/chainview/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// ServeCmd runs the HTTP API until SIGINT or SIGTERM.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalization API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	flags := cmd.Flags()
	flags.String("host", "", "Host to bind")
	flags.Int("port", 0, "Port to listen on")
	flags.Duration("timeout", 0, "Read and write timeout")
	flags.Int64("max-body", 0, "Maximum request body size in bytes")
	flags.Int("max-items", 0, "Maximum documents per batch request")
	flags.Int("concurrency", 0, "Documents normalized in parallel per batch")
	flags.Int("cache-size", 0, "Normalized documents kept in the result cache; 0 disables it")
	flags.Bool("metrics", false, "Expose Prometheus metrics")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := config.FromContext(ctx)
	if cfg.Runtime.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	mon := monitoring.NewMonitoringServiceWithFallback(ctx, monitoring.FromAppConfig(cfg.Monitoring))
	svc := service.New(service.OptionsFromConfig(cfg, mon.Normalize()))
	return server.NewServer(ctx, cfg, svc, mon).Run(ctx)
}
