package api

import (
	_ "embed"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openAPISpec []byte

// SpecHandler serves the embedded OpenAPI document.
// (GET /openapi.yaml)
func SpecHandler(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", openAPISpec)
}

// DocsHandler serves a Swagger UI page pointing at the OpenAPI document.
// The UI assets come from the public CDN so nothing is vendored here.
// (GET /docs)
func DocsHandler(c echo.Context) error {
	return c.HTML(http.StatusOK, strings.ReplaceAll(swaggerHTML, "${SPEC_URL}", "/openapi.yaml"))
}

// RegisterDocs mounts the OpenAPI document and the Swagger UI on e.
func RegisterDocs(e *echo.Echo) {
	e.GET("/openapi.yaml", SpecHandler)
	e.GET("/docs", DocsHandler)
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Workflow Downloader API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
  window.onload = function() {
    window.ui = SwaggerUIBundle({
      url: "${SPEC_URL}",
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: "BaseLayout"
    });
  }
  </script>
</body>
</html>`
