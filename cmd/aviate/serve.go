package main

import (
	"github.com/spf13/cobra"

	"github.com/aviatehq/aviate/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Aviate API server.

The server will:
  - Load configuration from aviate.yaml (or --config)
  - Or load configuration from AVIATE_* environment variables
  - Open the database and apply migrations
  - Serve the public pricing API and the authenticated workspace API
  - Reload reloadable config fields on SIGHUP or file change

Environment variables (for Docker deployments):
  AVIATE_DATABASE_DSN    - Database path (default: aviate.db)
  AVIATE_SERVER_PORT     - Server port (default: 8080)
  AVIATE_GEOIP_BASE_URL  - Geolocation API (default: https://ipapi.co)
  AVIATE_LLM_API_KEY     - Chat completion API key
  AVIATE_AUTH_JWT_SECRET - Session signing secret
  AVIATE_LOG_LEVEL       - Log level: debug, info, warn, error

Examples:
  aviate serve
  aviate serve --config /etc/aviate/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(cfgFile)
	if err != nil {
		return err
	}
	return app.Run()
}
