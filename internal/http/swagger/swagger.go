package swagger

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/stockdesk/api-contract"
)

const (
	// DocsURL serves the Swagger UI.
	DocsURL = "/docs"
	// SpecURL serves the embedded OpenAPI document.
	SpecURL = "/docs/openapi.yml"

	swaggerUIVersion = "5.29.3"
)

var page = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '{{.SpecURL}}',
      dom_id: '#swagger-ui',
      deepLinking: true,
      displayRequestDuration: true,
    });
  };
</script>
</body>
</html>
`))

// Register serves the Swagger UI and the OpenAPI document on r.
func Register(r chi.Router) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, struct {
		Title   string
		Version string
		SpecURL string
	}{
		Title:   "Stockdesk API",
		Version: swaggerUIVersion,
		SpecURL: SpecURL,
	}); err != nil {
		panic(err)
	}
	pageBytes := buf.Bytes()

	r.Get(DocsURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(pageBytes)
	})

	specBytes := apicontract.GetSpecBytes()
	r.Get(SpecURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(specBytes)
	})
}
