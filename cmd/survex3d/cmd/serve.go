package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/ssargent/survex3d/pkg/api"
	"github.com/ssargent/survex3d/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the survex3d REST API server. Uploaded 3D files are decoded,
archived under the configured data directory and can be queried by ID.

Run 'survex3d init' first to create a configuration with an API key.

Examples:
  survex3d serve
  survex3d serve --config ./survex3d.yaml --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(cmd)
		if !config.ConfigExists(path) {
			return fmt.Errorf("no configuration at %s (run 'survex3d init' first)", path)
		}
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cfg.Security.APIKey == "" {
			return fmt.Errorf("security.api_key is empty in %s", path)
		}

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		archive, err := container.GetArchiveOpener().OpenArchive(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()

		server := api.NewServer(archive, api.ServerConfig{
			Bind:        cfg.Bind,
			Port:        cfg.Port,
			APIKey:      cfg.Security.APIKey,
			MaxFileSize: cfg.Decode.MaxFileSize,
		}, serveMetrics(), logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cmd.Printf("🚀 Starting survex3d server on %s:%d\n", cfg.Bind, cfg.Port)
		cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, server)
	},
}

// serveMetrics registers the API metrics with the default registry once per process
var serveMetrics = sync.OnceValue(func() *api.Metrics {
	return api.NewMetrics(prometheus.DefaultRegisterer)
})

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to (overrides config)")
}
