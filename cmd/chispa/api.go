package main

import (
	"github.com/vitea/chispa/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	apiCmd := endpoints.NewRegistry(endpoints.Config{}).BuildCommands(getServerURL)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)
	rootCmd.AddCommand(apiCmd)
}
