package endpoints

import (
	"io/fs"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/web"
)

// FaviconEndpoint serves the embedded favicon.
type FaviconEndpoint struct{}

var _ api.Endpoint = (*FaviconEndpoint)(nil)

func (e *FaviconEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/favicon.ico", e.handler
}

func (e *FaviconEndpoint) RequiresInit() bool {
	return false
}

func (e *FaviconEndpoint) Command(_ func() string) *cobra.Command {
	return nil // No CLI command for static files
}

func (e *FaviconEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	staticFS, err := web.StaticFS()
	if err != nil {
		http.Error(w, "favicon not available", http.StatusInternalServerError)
		return
	}

	data, err := fs.ReadFile(staticFS, "favicon.ico")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/x-icon")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
