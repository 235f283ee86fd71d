package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/config"
	"github.com/vitea/chispa/internal/deck"
	"github.com/vitea/chispa/internal/home"
	"github.com/vitea/chispa/internal/observability"
	"github.com/vitea/chispa/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Chispa server",
	Long: `Start the Chispa HTTP server.

Configuration is read from --config, ./config.yaml or ~/.chispa/config.yaml,
and CHISPA_* environment variables (e.g. CHISPA_SERVER_PORT). Edits to the
config file are applied without a restart.

The server provides:
  - POST /api/reading        - Full reading
  - POST /api/reading/text   - Narrative for one card
  - POST /api/reading/image  - Illustration for one card
  - POST /api/image          - Illustration for any card
  - POST /api/chat           - Follow-up chat
  - /swagger                 - API documentation

Examples:
  chispa serve                    # Start on the configured port (default 8000)
  chispa serve --port 3000        # Start on custom port
  chispa serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		path := cfgFile
		if path == "" && h.ConfigExists() {
			path = h.ConfigPath()
		}
		cfgMgr, err := config.NewManager(path)
		if err != nil {
			return err
		}
		app := cfgMgr.Get()

		// Set up logger
		logger := observability.NewLogger(os.Stdout, app.Log.Level, app.Log.Format)
		cfgMgr.SetLogger(logger)
		if f := cfgMgr.ConfigFile(); f != "" {
			logger.Info("loaded config", "file", f)
		}

		instruments, shutdownTracing, err := observability.Init(ctx, observability.Options{
			ServiceName: "chispa",
			Exporter:    app.Tracing.Exporter,
			Endpoint:    app.Tracing.Endpoint,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				logger.Warn("tracing shutdown error", "error", err)
			}
		}()

		catalog, err := deck.Load(h.DeckPath(app.Deck.Path))
		if err != nil {
			return err
		}
		logger.Info("deck loaded", "name", catalog.Name(), "cards", catalog.Len())

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cfgMgr,
			Catalog:       catalog,
			Instruments:   instruments,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		if cfgMgr.ConfigFile() != "" {
			cfgMgr.WatchConfig()
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port from config)")

	rootCmd.AddCommand(serveCmd)
}
