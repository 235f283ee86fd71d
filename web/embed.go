// Package web provides the static assets served by the Papi Chispa server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var staticFS embed.FS

// StaticFS returns the embedded assets with "static" as the root, so files
// are accessed directly (e.g., "favicon.ico" not "static/favicon.ico").
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
