package endpoints

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/docs"
	"github.com/vitea/chispa/internal/api"
)

// SwaggerEndpoint serves the OpenAPI document generated into the docs package.
type SwaggerEndpoint struct {
	// Host is advertised as the API host. When empty the request's Host
	// header is used, so the document works behind any address.
	Host string
}

func (e *SwaggerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger.json", e.handler
}

func (e *SwaggerEndpoint) RequiresInit() bool { return false }

func (e *SwaggerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Render from a copy; SwaggerInfo is shared by every server in the process.
	spec := *docs.SwaggerInfo
	switch {
	case r.Host != "":
		spec.Host = r.Host
	case e.Host != "":
		spec.Host = e.Host
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write([]byte(spec.ReadDoc()))
}

func (e *SwaggerEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Fetch the OpenAPI document from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc map[string]any
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/swagger.json", &doc); err != nil {
				return err
			}
			if outputFile == "" {
				return api.Output(doc)
			}

			f, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer f.Close()
			return api.OutputTo(f, api.OutputFormatJSON, doc)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write the document to this file as JSON")
	return cmd
}

// SwaggerUIEndpoint serves a Swagger UI page for /swagger.json.
type SwaggerUIEndpoint struct{}

func (e *SwaggerUIEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger", e.handler
}

func (e *SwaggerUIEndpoint) RequiresInit() bool { return false }

const swaggerUIPage = `<!DOCTYPE html>
<html>
<head>
  <title>Papi Chispa API</title>
  <link rel="icon" href="/favicon.ico">
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger.json',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout',
      tryItOutEnabled: true
    });
  </script>
</body>
</html>`

func (e *SwaggerUIEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(swaggerUIPage))
}

func (e *SwaggerUIEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "swagger-ui",
		Short: "Print the Swagger UI address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(getServerURL() + "/swagger")
			return nil
		},
	}
}
