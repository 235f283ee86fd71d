package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint pairs an HTTP route with the CLI command that calls it, so the
// server and `chispa api` never drift apart.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit reports whether the handler needs the reading service.
	// Such routes answer 503 until the server is fully wired.
	RequiresInit() bool

	// Command returns the CLI command for this endpoint, or nil when the
	// route has no CLI form. getServerURL is evaluated when the command runs.
	Command(getServerURL func() string) *cobra.Command
}

// Grouped is implemented by endpoints whose command lives under a named
// subcommand (`chispa api reading text ...`) rather than directly under api.
type Grouped interface {
	CommandGroup() Group
}

// Group names a CLI subcommand that collects related endpoint commands.
type Group struct {
	Name  string
	Short string
}
