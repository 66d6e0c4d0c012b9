// Package swagger serves Swagger UI over the embedded ledger API contract.
package swagger

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/store-ledger/api-contract"
)

const (
	URL     = "/docs"
	SpecURL = "/docs/openapi.yml"

	uiVersion = "5.29.3"
)

var page = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
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
      url: {{.SpecURL}},
      dom_id: '#swagger-ui',
      deepLinking: true,
      tryItOutEnabled: true,
    });
  };
</script>
</body>
</html>
`))

// Register mounts the UI on URL and the raw contract on SpecURL. The page
// is rendered once, titled after the contract.
func Register(r chi.Router) error {
	doc, err := apicontract.LoadSpec()
	if err != nil {
		return err
	}

	title := "API docs"
	if doc.Info != nil && doc.Info.Title != "" {
		title = doc.Info.Title
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, struct {
		Title, Version, SpecURL string
	}{title, uiVersion, SpecURL}); err != nil {
		return err
	}
	html := buf.Bytes()

	r.Get(URL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	})

	spec := apicontract.GetSpecBytes()
	r.Get(SpecURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec)
	})

	return nil
}
